package editor

import (
	"strings"

	"github.com/teranos/skilltree/graph"
	"github.com/teranos/skilltree/selection"
)

// Inspection is the inspector panel's view of the current selection.
type Inspection struct {
	Mode   selection.Mode
	Single *NodeView
	Multi  *MultiView
}

// NodeView describes one selected node.
type NodeView struct {
	Node           graph.Node
	Parents        []string
	ParentSummary  string
	CanActivate    bool
	ActivationHint string
	ShowSides      bool
}

// MultiView merges the fields bulk editors operate on across the selection.
type MultiView struct {
	IDs       []string
	Count     int
	Role      selection.Value[graph.Role]
	Shape     selection.Value[graph.Shape]
	Icon      selection.Value[string]
	LinkStyle selection.Value[graph.LinkStyle]
	ShowSides bool
	Sides     selection.Value[int] // only meaningful when ShowSides
}

const validActivationHint = "Valid state"

// Inspect builds the inspector view for the current selection.
func (s *Session) Inspect() Inspection {
	s.sel.Prune(s.store.HasNode)

	out := Inspection{Mode: s.sel.Mode()}
	switch out.Mode {
	case selection.ModeSingle:
		id, _ := s.sel.Primary()
		out.Single = s.nodeView(id)
	case selection.ModeMulti:
		out.Multi = s.multiView(s.sel.IDs())
	}
	return out
}

func (s *Session) nodeView(id string) *NodeView {
	n, ok := s.store.FindNode(id)
	if !ok {
		return nil
	}
	parents := s.store.ParentsOf(id)
	summary := "(none)"
	if len(parents) > 0 {
		summary = strings.Join(parents, ", ")
	}
	can := s.engine.CanActivate(id)
	hint := validActivationHint
	if !can {
		hint = s.engine.Policy().Describe()
	}
	return &NodeView{
		Node:           n,
		Parents:        parents,
		ParentSummary:  summary,
		CanActivate:    can,
		ActivationHint: hint,
		ShowSides:      n.Shape == graph.ShapePoly,
	}
}

func (s *Session) multiView(ids []string) *MultiView {
	nodes := s.store.NodesByID(ids)
	v := &MultiView{
		IDs:       ids,
		Count:     len(nodes),
		Role:      selection.CommonValue(nodes, selection.RoleField, graph.DefaultRole),
		Shape:     selection.CommonValue(nodes, selection.ShapeField, graph.DefaultShape),
		Icon:      selection.CommonValue(nodes, selection.IconField, ""),
		LinkStyle: selection.CommonValue(nodes, selection.LinkStyleField, graph.DefaultLinkStyle),
		ShowSides: selection.AllSatisfy(nodes, selection.IsPoly),
	}
	if v.ShowSides {
		v.Sides = selection.CommonValue(nodes, selection.SidesField, graph.DefaultPolySides)
	}
	return v
}
