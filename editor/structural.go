package editor

import (
	"fmt"
	"strings"

	"github.com/teranos/skilltree/errors"
	"github.com/teranos/skilltree/graph"
	"github.com/teranos/skilltree/logger"
)

// AddNode inserts n and commits. A blank id gets a generated one; blank
// shape and link style take the configured defaults. Returns the node id.
func (s *Session) AddNode(n graph.Node) (string, error) {
	n.ID = strings.TrimSpace(n.ID)
	if n.ID == "" {
		n.ID = s.store.NewNodeID()
	}
	if n.Shape == "" {
		n.Shape = s.cfg.DefaultShape
	}
	if n.LinkStyle == "" {
		n.LinkStyle = s.cfg.DefaultLinkStyle
	}
	if n.Shape == graph.ShapePoly && n.PolySides < graph.MinPolySides {
		n.PolySides = graph.ClampSides(s.cfg.DefaultPolySides)
	}
	if n.Label == "" {
		n.Label = n.ID
	}

	if err := s.store.AddNode(n); err != nil {
		if errors.Is(err, errors.ErrDuplicateID) {
			err = errors.WithHint(err, "ID already exists!")
		}
		return "", err
	}
	return n.ID, s.commit("add_node")
}

// AddEdge links from as a prerequisite of to. The edge takes the child's
// link style.
func (s *Session) AddEdge(from, to string) error {
	for _, id := range []string{from, to} {
		if err := s.requireNode(id); err != nil {
			return err
		}
	}
	if err := s.store.AddEdge(graph.Edge{From: from, To: to}); err != nil {
		if errors.Is(err, errors.ErrDuplicateEdge) {
			err = errors.WithHint(err, "Those nodes are already linked")
		}
		return err
	}
	s.logger.Debugw("Linked",
		logger.FieldEdgeFrom, from,
		logger.FieldEdgeTo, to,
	)
	return s.commit("add_edge")
}

// RemoveEdge drops the from -> to edge. Returns false when there was none.
func (s *Session) RemoveEdge(from, to string) (bool, error) {
	removed := s.store.RemoveEdgesMatching(func(e graph.Edge) bool {
		return e.From == from && e.To == to
	})
	if removed == 0 {
		return false, nil
	}
	return true, s.commit("remove_edge")
}

// SetParents replaces the parent set of id with parents, keeping existing
// edges that stay and appending new ones in the given order.
func (s *Session) SetParents(id string, parents []string) error {
	if err := s.requireNode(id); err != nil {
		return err
	}
	want := make(map[string]struct{}, len(parents))
	for _, p := range parents {
		p = strings.TrimSpace(p)
		if p == id {
			return errors.WithHint(errors.NewInvalidRequestError("node %q cannot be its own parent", id),
				"pick other nodes as prerequisites")
		}
		if err := s.requireNode(p); err != nil {
			return err
		}
		want[p] = struct{}{}
	}

	s.store.RemoveEdgesMatching(func(e graph.Edge) bool {
		_, keep := want[e.From]
		return e.To == id && !keep
	})
	for _, p := range parents {
		p = strings.TrimSpace(p)
		if s.store.HasEdge(p, id) {
			continue
		}
		if err := s.store.AddEdge(graph.Edge{From: p, To: id}); err != nil {
			return errors.AssertionFailedf("adding validated edge %s -> %s: %v", p, id, err)
		}
	}
	return s.commit("set_parents")
}

// DeleteNode removes one node and its edges. When deletes need confirmation
// and the user declines, nothing changes and false is returned.
func (s *Session) DeleteNode(id string) (bool, error) {
	if err := s.requireNode(id); err != nil {
		return false, err
	}
	if s.cfg.ConfirmDeletes && !s.ask(fmt.Sprintf("Delete node %q?", id)) {
		return false, nil
	}
	if err := s.ids.DeleteNode(id); err != nil {
		return false, err
	}
	return true, s.commit("delete_node")
}

// RenameNode changes a node id, repairing edges and selection.
func (s *Session) RenameNode(oldID, newID string) error {
	if err := s.ids.RenameNode(oldID, newID); err != nil {
		return err
	}
	return s.commit("rename_node")
}

// SetRole changes the role. Demoting a base node may cascade deactivations.
func (s *Session) SetRole(id string, role graph.Role) error {
	if err := s.requireNode(id); err != nil {
		return err
	}
	if !role.Valid() {
		_, err := graph.ParseRole(string(role))
		return err
	}
	s.store.MutateNode(id, func(n *graph.Node) { n.Role = role })
	return s.commit("set_role")
}

// SetShape changes the outline. Switching to poly without a usable side count
// applies the configured default.
func (s *Session) SetShape(id string, shape graph.Shape) error {
	if err := s.requireNode(id); err != nil {
		return err
	}
	if !shape.Valid() {
		_, err := graph.ParseShape(string(shape))
		return err
	}
	s.store.MutateNode(id, s.shapeSetter(shape))
	return s.commit("set_shape")
}

func (s *Session) shapeSetter(shape graph.Shape) func(*graph.Node) {
	return func(n *graph.Node) {
		n.Shape = shape
		if shape == graph.ShapePoly && n.PolySides < graph.MinPolySides {
			n.PolySides = graph.ClampSides(s.cfg.DefaultPolySides)
		}
	}
}

// SetActive requests an activation change and returns the resulting state.
// A refused activation is not an error.
func (s *Session) SetActive(id string, desired bool) (bool, error) {
	if err := s.requireNode(id); err != nil {
		return false, err
	}
	state := s.engine.SetActive(id, desired)
	return state, s.commit("set_active")
}

// SetLinkStyle changes how edges into id are drawn and restyles the existing
// ones.
func (s *Session) SetLinkStyle(id string, style graph.LinkStyle) error {
	if err := s.requireNode(id); err != nil {
		return err
	}
	if !style.Valid() {
		_, err := graph.ParseLinkStyle(string(style))
		return err
	}
	s.store.MutateNode(id, func(n *graph.Node) { n.LinkStyle = style })
	s.store.RestyleEdgesInto(map[string]struct{}{id: {}}, style)
	return s.commit("set_link_style")
}

// SetIcon sets the icon path; an empty path clears it.
func (s *Session) SetIcon(id, path string) error {
	if err := s.requireNode(id); err != nil {
		return err
	}
	path = strings.TrimSpace(path)
	s.store.MutateNode(id, func(n *graph.Node) { n.IconPath = path })
	return s.commit("set_icon")
}

// AddAttribute adds an extras entry.
func (s *Session) AddAttribute(id, key, value string) error {
	if err := s.ids.AddAttribute(id, key, value); err != nil {
		return err
	}
	return s.commit("add_attribute")
}

// RenameAttribute moves an extras value to a new key.
func (s *Session) RenameAttribute(id, oldKey, newKey string) error {
	if err := s.ids.RenameAttributeKey(id, oldKey, newKey); err != nil {
		return err
	}
	return s.commit("rename_attribute")
}

// SetAttribute overwrites an existing extras value.
func (s *Session) SetAttribute(id, key, value string) error {
	if err := s.ids.SetAttribute(id, key, value); err != nil {
		return err
	}
	return s.commit("set_attribute")
}

// DeleteAttribute removes an extras entry.
func (s *Session) DeleteAttribute(id, key string) error {
	if err := s.ids.DeleteAttribute(id, key); err != nil {
		return err
	}
	return s.commit("delete_attribute")
}

// Undo restores the previous committed tree. Pending live edits are committed
// first so they become the step being undone.
func (s *Session) Undo() (bool, error) {
	if s.dirty {
		if err := s.commit("live_edit"); err != nil {
			return false, err
		}
	}
	snap, ok := s.hist.Undo()
	if !ok {
		return false, nil
	}
	return true, s.restore(snap, "undo")
}

// Redo re-applies the most recently undone tree.
func (s *Session) Redo() (bool, error) {
	if s.dirty {
		if err := s.commit("live_edit"); err != nil {
			return false, err
		}
	}
	snap, ok := s.hist.Redo()
	if !ok {
		return false, nil
	}
	return true, s.restore(snap, "redo")
}

func (s *Session) restore(snap graph.Snapshot, op string) error {
	if err := s.store.Restore(snap); err != nil {
		return errors.AssertionFailedf("history entry could not be restored: %v", err)
	}
	s.sel.Prune(s.store.HasNode)

	// The entry may predate a policy switch; the current policy wins.
	deactivated := s.engine.Normalize()
	if deactivated > 0 {
		s.hist.Replace(s.store.Snapshot())
	}

	undo, redo := s.HistoryDepth()
	s.logger.Debugw("Restored history entry",
		logger.FieldOperation, op,
		logger.FieldDeactivated, deactivated,
		logger.FieldUndoDepth, undo,
		logger.FieldRedoDepth, redo,
	)
	s.redraw()
	return nil
}
