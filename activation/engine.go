// Package activation keeps node activation consistent with the prerequisite
// graph.
//
// A node may be active only if it is a base node or its parents satisfy the
// configured Policy. Normalize restores that invariant after any change. It
// grows the set of anchored nodes outward from active base nodes, one pass at
// a time, and then clears every active node the growth never reached. Flags
// are only ever cleared, so the work is bounded by the node count and it
// terminates on cyclic graphs too: a ring of nodes that only unlock each
// other is not anchored and is deactivated as a whole.
package activation

import (
	"go.uber.org/zap"

	"github.com/teranos/skilltree/errors"
	"github.com/teranos/skilltree/graph"
	"github.com/teranos/skilltree/logger"
)

// Engine evaluates and enforces the activation policy over one store.
type Engine struct {
	store  *graph.Store
	policy Policy
	logger *zap.SugaredLogger
}

// NewEngine creates an engine bound to store.
func NewEngine(store *graph.Store, policy Policy, log *zap.SugaredLogger) *Engine {
	if policy == "" {
		policy = DefaultPolicy
	}
	if log == nil {
		log = logger.ComponentLogger("activation")
	}
	return &Engine{store: store, policy: policy, logger: log}
}

// Policy returns the active policy.
func (e *Engine) Policy() Policy {
	return e.policy
}

// SetPolicy switches the policy. Callers must Normalize afterwards.
func (e *Engine) SetPolicy(p Policy) {
	e.policy = p
}

// Bind points the engine at another store (used when a session swaps stores).
func (e *Engine) Bind(store *graph.Store) {
	e.store = store
}

// CanActivate reports whether id may be active right now.
func (e *Engine) CanActivate(id string) bool {
	n, ok := e.store.FindNode(id)
	if !ok {
		return false
	}
	if n.IsBase() {
		return true
	}

	return e.policy.satisfied(e.parentStates(id, func(pid string) bool {
		p, ok := e.store.FindNode(pid)
		return ok && p.IsActive
	}))
}

// Normalize deactivates every active node that is not anchored to an active
// base node through the policy. Returns the number of nodes deactivated.
func (e *Engine) Normalize() int {
	anchored, passes := e.anchored()

	total := 0
	for _, id := range e.store.NodeIDs() {
		if _, ok := anchored[id]; ok {
			continue
		}
		e.store.MutateNode(id, func(n *graph.Node) {
			if n.IsActive {
				n.IsActive = false
				total++
			}
		})
	}

	if total > 0 {
		e.logger.Debugw("Normalized activation",
			logger.FieldDeactivated, total,
			"passes", passes,
			logger.FieldPolicy, string(e.policy),
		)
	}
	return total
}

// anchored returns the active nodes reachable from active base nodes, where
// each step must satisfy the policy over already anchored parents. Passes
// repeat until one adds nothing.
func (e *Engine) anchored() (map[string]struct{}, int) {
	set := make(map[string]struct{})
	passes := 0
	for {
		passes++
		added := 0
		for _, id := range e.store.NodeIDs() {
			if _, ok := set[id]; ok {
				continue
			}
			n, _ := e.store.FindNode(id)
			if !n.IsActive {
				continue
			}
			if n.IsBase() || e.policy.satisfied(e.parentStates(id, func(pid string) bool {
				_, ok := set[pid]
				return ok
			})) {
				set[id] = struct{}{}
				added++
			}
		}
		if added == 0 {
			return set, passes
		}
	}
}

func (e *Engine) parentStates(id string, active func(pid string) bool) []bool {
	parents := e.store.ParentsOf(id)
	states := make([]bool, 0, len(parents))
	for _, pid := range parents {
		states = append(states, active(pid))
	}
	return states
}

// SetActive requests an activation change and returns the resulting state.
// Activating a node that fails the policy is refused without error.
// Deactivating always succeeds and cascades through Normalize.
func (e *Engine) SetActive(id string, desired bool) bool {
	n, ok := e.store.FindNode(id)
	if !ok {
		return false
	}

	if desired {
		if !e.CanActivate(id) {
			e.logger.Debugw("Activation refused",
				logger.FieldNodeID, id,
				logger.FieldError, errors.ErrInvalidActivation.Error(),
				logger.FieldPolicy, string(e.policy),
			)
			return n.IsActive
		}
		e.store.MutateNode(id, func(n *graph.Node) { n.IsActive = true })
		return true
	}

	e.store.MutateNode(id, func(n *graph.Node) { n.IsActive = false })
	e.Normalize()
	return false
}

// Violations returns the ids of active nodes that are not anchored, in
// insertion order. Empty after Normalize.
func (e *Engine) Violations() []string {
	anchored, _ := e.anchored()
	var out []string
	for _, id := range e.store.NodeIDs() {
		n, _ := e.store.FindNode(id)
		if _, ok := anchored[id]; n.IsActive && !ok {
			out = append(out, id)
		}
	}
	return out
}
