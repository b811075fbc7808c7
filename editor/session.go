// Package editor is the editing session: the context object created when a
// tree is opened and passed to every operation until it is closed.
//
// A Session owns the graph store together with the activation engine,
// selection, identifier registry and history bound to it. Each operation runs
// to completion. Structural operations normalize, commit and render before
// returning. Live field edits render immediately and are committed later by
// CommitEdit, so typing does not flood the undo stack.
//
// Session is not safe for concurrent use.
package editor

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/skilltree/activation"
	"github.com/teranos/skilltree/errors"
	"github.com/teranos/skilltree/graph"
	"github.com/teranos/skilltree/history"
	"github.com/teranos/skilltree/ident"
	"github.com/teranos/skilltree/logger"
	"github.com/teranos/skilltree/selection"
	"github.com/teranos/skilltree/sym"
)

// Session is one open tree.
type Session struct {
	cfg    Config
	logger *zap.SugaredLogger

	store  *graph.Store
	engine *activation.Engine
	sel    *selection.Model
	ids    *ident.Registry
	hist   *history.Stack

	render  Renderer
	confirm Confirmer
	preview *rate.Limiter

	dirty  bool // live edits not yet committed
	closed bool
}

// New opens a session on an empty tree.
func New(opts ...Option) *Session {
	s, _ := Open(graph.Snapshot{}, opts...)
	return s
}

// Open starts a session on a copy of snap. The copy is normalized and becomes
// the history baseline, so the first undo cannot step before it.
func Open(snap graph.Snapshot, opts ...Option) (*Session, error) {
	store, err := graph.FromSnapshot(snap)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open tree")
	}

	s := &Session{
		cfg:    DefaultConfig(),
		logger: logger.AddSymbol(logger.ComponentLogger("editor"), sym.Tree),
		store:  store,
		sel:    selection.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.Policy == "" {
		s.cfg.Policy = activation.DefaultPolicy
	}
	if s.cfg.PreviewRate > 0 {
		s.preview = rate.NewLimiter(rate.Limit(s.cfg.PreviewRate), 1)
	}

	s.engine = activation.NewEngine(store, s.cfg.Policy, s.logger)
	s.ids = ident.NewRegistry(store, s.sel, s.logger)
	s.hist = history.New(s.cfg.HistoryLimit)

	if n := s.engine.Normalize(); n > 0 {
		s.logger.Infow("Deactivated nodes that violate the activation policy",
			logger.FieldDeactivated, n,
			logger.FieldPolicy, string(s.cfg.Policy),
		)
	}
	s.hist.Reset(store.Snapshot())

	s.logger.Debugw("Session opened",
		logger.FieldCount, store.Len(),
		logger.FieldPolicy, string(s.cfg.Policy),
	)
	return s, nil
}

// Reset replaces the whole tree, e.g. after an import. Selection and history
// start over.
func (s *Session) Reset(snap graph.Snapshot) error {
	if err := s.store.Restore(snap); err != nil {
		return errors.Wrap(err, "failed to load tree")
	}
	s.engine.Normalize()
	s.sel.Clear()
	s.hist.Reset(s.store.Snapshot())
	s.dirty = false
	s.redraw()
	return nil
}

// Close tears the session down. Uncommitted live edits are discarded.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.sel.Clear()
	s.logger.Debugw("Session closed",
		logger.FieldUndoDepth, s.hist.Len(),
		"discarded_live_edits", s.dirty,
	)
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool { return s.closed }

// Config returns the session configuration.
func (s *Session) Config() Config { return s.cfg }

// Snapshot returns a deep copy of the current tree, including live edits.
func (s *Session) Snapshot() graph.Snapshot { return s.store.Snapshot() }

// Committed returns the last committed tree.
func (s *Session) Committed() graph.Snapshot { return s.hist.Current() }

// Node returns a copy of a node.
func (s *Session) Node(id string) (graph.Node, bool) { return s.store.FindNode(id) }

// Nodes returns copies of all nodes in insertion order.
func (s *Session) Nodes() []graph.Node { return s.store.Nodes() }

// Edges returns all edges in insertion order.
func (s *Session) Edges() []graph.Edge { return s.store.Edges() }

// ParentsOf lists the parents of id in edge insertion order.
func (s *Session) ParentsOf(id string) []string { return s.store.ParentsOf(id) }

// Selection exposes the selection for read access.
func (s *Session) Selection() *selection.Model { return s.sel }

// Dirty reports whether live edits are waiting for CommitEdit.
func (s *Session) Dirty() bool { return s.dirty }

// CanUndo reports whether Undo has an entry to restore.
func (s *Session) CanUndo() bool { return s.hist.CanUndo() || s.dirty }

// CanRedo reports whether Redo has an entry to restore.
func (s *Session) CanRedo() bool { return s.hist.CanRedo() }

// HistoryDepth returns the undo and redo entry counts.
func (s *Session) HistoryDepth() (undo, redo int) { return s.hist.Len(), s.hist.RedoLen() }

// CanActivate reports whether id may be activated right now.
func (s *Session) CanActivate(id string) bool { return s.engine.CanActivate(id) }

// Violations lists active nodes that break the activation policy.
func (s *Session) Violations() []string { return s.engine.Violations() }

// SetPolicy switches the activation policy and commits the resulting
// normalization.
func (s *Session) SetPolicy(p activation.Policy) error {
	s.cfg.Policy = p
	s.engine.SetPolicy(p)
	return s.commit("set_policy")
}

// Reconfigure applies a reloaded configuration to the open tree. A policy
// change is committed like SetPolicy; everything else takes effect on the
// next operation.
func (s *Session) Reconfigure(cfg Config) error {
	if cfg.Policy == "" {
		cfg.Policy = activation.DefaultPolicy
	}
	policyChanged := cfg.Policy != s.cfg.Policy
	s.cfg = cfg
	s.hist.SetLimit(cfg.HistoryLimit)
	s.preview = nil
	if cfg.PreviewRate > 0 {
		s.preview = rate.NewLimiter(rate.Limit(cfg.PreviewRate), 1)
	}
	s.logger.Infow("Session reconfigured",
		logger.FieldPolicy, string(cfg.Policy),
		"history_limit", cfg.HistoryLimit,
	)
	if policyChanged {
		return s.SetPolicy(cfg.Policy)
	}
	return nil
}

// commit is the single commit point: normalize, record history, verify the
// graph, render.
func (s *Session) commit(op string) error {
	deactivated := s.engine.Normalize()
	added := s.hist.Commit(s.store.Snapshot())
	s.dirty = false

	if err := s.store.CheckIntegrity(); err != nil {
		s.logger.Errorw("Graph integrity violated after commit",
			logger.FieldOperation, op,
			logger.FieldError, err.Error(),
		)
		return errors.AssertionFailedf("graph integrity violated after %s: %v", op, err)
	}

	if added {
		undo, redo := s.HistoryDepth()
		s.logger.Debugw("Committed",
			logger.FieldOperation, op,
			logger.FieldDeactivated, deactivated,
			logger.FieldUndoDepth, undo,
			logger.FieldRedoDepth, redo,
		)
	}
	s.redraw()
	return nil
}

func (s *Session) redraw() {
	if s.render != nil {
		s.render()
	}
}

// livePreview renders after a live edit, throttled by the preview limiter.
func (s *Session) livePreview() {
	if s.preview != nil && !s.preview.Allow() {
		return
	}
	s.redraw()
}

func (s *Session) ask(message string) bool {
	if s.confirm == nil {
		s.logger.Warnw("No confirmation handler, refusing destructive operation", "prompt", message)
		return false
	}
	return s.confirm(message)
}

func (s *Session) requireNode(id string) error {
	if !s.store.HasNode(id) {
		return errors.WithHint(errors.Wrapf(errors.ErrNodeNotFound, "%q", id),
			fmt.Sprintf("no node with id %q in this tree", id))
	}
	return nil
}
