package editor

import (
	"fmt"

	"github.com/teranos/skilltree/errors"
	"github.com/teranos/skilltree/graph"
	"github.com/teranos/skilltree/logger"
	"github.com/teranos/skilltree/selection"
)

// ApplyToAll runs fn on every listed node as one transaction: a single
// normalization, history entry and render. Unknown ids are skipped. Returns
// the number of nodes updated.
func (s *Session) ApplyToAll(ids []string, fn func(*graph.Node)) (int, error) {
	return s.applyToAll(ids, fn, nil)
}

func (s *Session) applyToAll(ids []string, fn func(*graph.Node), after func(set map[string]struct{})) (int, error) {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if s.store.MutateNode(id, fn) {
			set[id] = struct{}{}
		}
	}
	if len(set) == 0 {
		return 0, nil
	}
	if after != nil {
		after(set)
	}
	s.logger.Debugw("Bulk edit",
		logger.FieldCount, len(set),
		logger.FieldSelection, ids,
	)
	return len(set), s.commit("bulk_edit")
}

// SetRoleAll sets the role of every selected node.
func (s *Session) SetRoleAll(role graph.Role) (int, error) {
	if !role.Valid() {
		_, err := graph.ParseRole(string(role))
		return 0, err
	}
	return s.ApplyToAll(s.sel.IDs(), func(n *graph.Node) { n.Role = role })
}

// SetShapeAll sets the shape of every selected node.
func (s *Session) SetShapeAll(shape graph.Shape) (int, error) {
	if !shape.Valid() {
		_, err := graph.ParseShape(string(shape))
		return 0, err
	}
	return s.ApplyToAll(s.sel.IDs(), s.shapeSetter(shape))
}

// SetSidesAll sets the side count of every selected node. Only allowed while
// every selected node is a polygon.
func (s *Session) SetSidesAll(text string) (int, error) {
	if !selection.AllSatisfy(s.store.NodesByID(s.sel.IDs()), selection.IsPoly) {
		return 0, errors.WithHint(errors.NewInvalidRequestError("sides apply only to polygons"),
			"select only poly nodes to change their sides")
	}
	sides, err := parseSides(text)
	if err != nil {
		return 0, err
	}
	return s.ApplyToAll(s.sel.IDs(), func(n *graph.Node) { n.PolySides = sides })
}

// SetIconAll sets the icon of every selected node.
func (s *Session) SetIconAll(path string) (int, error) {
	return s.ApplyToAll(s.sel.IDs(), func(n *graph.Node) { n.IconPath = path })
}

// SetLinkStyleAll sets the link style of every selected node and restyles the
// edges into them.
func (s *Session) SetLinkStyleAll(style graph.LinkStyle) (int, error) {
	if !style.Valid() {
		_, err := graph.ParseLinkStyle(string(style))
		return 0, err
	}
	return s.applyToAll(s.sel.IDs(),
		func(n *graph.Node) { n.LinkStyle = style },
		func(set map[string]struct{}) { s.store.RestyleEdgesInto(set, style) },
	)
}

// DeleteSelection removes every selected node after confirmation. Declining
// leaves everything untouched and returns false.
func (s *Session) DeleteSelection() (bool, error) {
	ids := s.sel.IDs()
	if len(ids) == 0 {
		return false, nil
	}
	if !s.ask(fmt.Sprintf("Delete %d selected nodes?", len(ids))) {
		return false, nil
	}
	if err := s.ids.DeleteNodes(ids); err != nil {
		return false, err
	}
	s.sel.Clear()
	return true, s.commit("delete_selection")
}

// Select replaces the selection with id.
func (s *Session) Select(id string) error {
	if err := s.requireNode(id); err != nil {
		return err
	}
	s.sel.Select(id)
	s.redraw()
	return nil
}

// ToggleSelect adds or removes id from the selection.
func (s *Session) ToggleSelect(id string) (bool, error) {
	if err := s.requireNode(id); err != nil {
		return false, err
	}
	on := s.sel.Toggle(id)
	s.redraw()
	return on, nil
}

// ClearSelection empties the selection.
func (s *Session) ClearSelection() {
	s.sel.Clear()
	s.redraw()
}
