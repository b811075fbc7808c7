package graph

import (
	"github.com/teranos/skilltree/errors"
)

// Store owns every node and edge of one tree. Nodes live in an arena keyed by
// id; order keeps insertion order for stable iteration. Edges are kept in
// insertion order because parent lookups must report them that way.
//
// Store is not safe for concurrent use.
type Store struct {
	nodes map[string]*Node
	order []string
	edges []Edge
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{nodes: make(map[string]*Node)}
}

// FromSnapshot builds a store from a snapshot, rejecting duplicate ids and
// dangling edges.
func FromSnapshot(snap Snapshot) (*Store, error) {
	s := NewStore()
	for _, n := range snap.Nodes {
		if err := s.AddNode(n.Clone()); err != nil {
			return nil, err
		}
	}
	for _, e := range snap.Edges {
		if err := s.AddEdge(e); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// AddNode inserts a node. The id must be non-empty and unused.
func (s *Store) AddNode(n Node) error {
	n = withDefaults(n)
	if n.ID == "" {
		return errors.NewInvalidRequestError("node id is empty")
	}
	if _, exists := s.nodes[n.ID]; exists {
		return errors.Wrapf(errors.ErrDuplicateID, "node %q", n.ID)
	}
	node := n
	s.nodes[n.ID] = &node
	s.order = append(s.order, n.ID)
	return nil
}

// AddEdge inserts a prerequisite relation. Both endpoints must exist, the edge
// may not be a self loop, and each (from, to) pair appears at most once.
// An edge without a style inherits the child's link style.
func (s *Store) AddEdge(e Edge) error {
	if _, ok := s.nodes[e.From]; !ok {
		return errors.Wrapf(errors.ErrReferentialViolation, "edge source %q does not exist", e.From)
	}
	child, ok := s.nodes[e.To]
	if !ok {
		return errors.Wrapf(errors.ErrReferentialViolation, "edge target %q does not exist", e.To)
	}
	if e.From == e.To {
		return errors.NewInvalidRequestError("node %q cannot be its own prerequisite", e.From)
	}
	if s.HasEdge(e.From, e.To) {
		return errors.Wrapf(errors.ErrDuplicateEdge, "%s -> %s", e.From, e.To)
	}
	if !e.Style.Valid() {
		e.Style = child.LinkStyle
	}
	s.edges = append(s.edges, e)
	return nil
}

// FindNode returns a copy of the node with the given id.
func (s *Store) FindNode(id string) (Node, bool) {
	n, ok := s.nodes[id]
	if !ok {
		return Node{}, false
	}
	return n.Clone(), true
}

// HasNode reports whether a node with the given id exists.
func (s *Store) HasNode(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// MutateNode applies fn to the stored node in place. A missing id is a no-op
// and returns false. fn cannot change the id: renames go through RenameNode.
func (s *Store) MutateNode(id string, fn func(*Node)) bool {
	n, ok := s.nodes[id]
	if !ok {
		return false
	}
	fn(n)
	n.ID = id
	if n.Extras == nil {
		n.Extras = make(map[string]string)
	}
	return true
}

// RenameNode re-keys a node and rewrites every edge endpoint in one step.
func (s *Store) RenameNode(oldID, newID string) error {
	n, ok := s.nodes[oldID]
	if !ok {
		return errors.Wrapf(errors.ErrNodeNotFound, "%q", oldID)
	}
	if newID == "" {
		return errors.NewInvalidRequestError("node id is empty")
	}
	if _, taken := s.nodes[newID]; taken {
		return errors.Wrapf(errors.ErrDuplicateID, "node %q", newID)
	}

	delete(s.nodes, oldID)
	n.ID = newID
	s.nodes[newID] = n
	for i, id := range s.order {
		if id == oldID {
			s.order[i] = newID
			break
		}
	}
	for i := range s.edges {
		if s.edges[i].From == oldID {
			s.edges[i].From = newID
		}
		if s.edges[i].To == oldID {
			s.edges[i].To = newID
		}
	}
	return nil
}

// RemoveNodes deletes every node in ids together with all incident edges.
// Returns the number of nodes removed.
func (s *Store) RemoveNodes(ids map[string]struct{}) int {
	removed := 0
	kept := s.order[:0]
	for _, id := range s.order {
		if _, drop := ids[id]; drop {
			delete(s.nodes, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept

	s.RemoveEdgesMatching(func(e Edge) bool {
		_, from := ids[e.From]
		_, to := ids[e.To]
		return from || to
	})
	return removed
}

// RemoveEdgesMatching deletes every edge for which match returns true and
// returns how many were removed.
func (s *Store) RemoveEdgesMatching(match func(Edge) bool) int {
	kept := s.edges[:0]
	for _, e := range s.edges {
		if !match(e) {
			kept = append(kept, e)
		}
	}
	removed := len(s.edges) - len(kept)
	s.edges = kept
	return removed
}

// RestyleEdgesInto sets the style of every edge pointing into one of ids.
func (s *Store) RestyleEdgesInto(ids map[string]struct{}, style LinkStyle) int {
	changed := 0
	for i := range s.edges {
		if _, ok := ids[s.edges[i].To]; ok {
			s.edges[i].Style = style
			changed++
		}
	}
	return changed
}

// Len returns the number of nodes.
func (s *Store) Len() int {
	return len(s.order)
}

// EdgeCount returns the number of edges.
func (s *Store) EdgeCount() int {
	return len(s.edges)
}

// CheckIntegrity verifies id uniqueness and that no edge dangles. A failure
// means a mutation bypassed the store's own operations.
func (s *Store) CheckIntegrity() error {
	if len(s.order) != len(s.nodes) {
		return errors.Wrapf(errors.ErrReferentialViolation,
			"order has %d ids, arena has %d nodes", len(s.order), len(s.nodes))
	}
	seen := make(map[string]struct{}, len(s.order))
	for _, id := range s.order {
		if _, dup := seen[id]; dup {
			return errors.Wrapf(errors.ErrReferentialViolation, "id %q listed twice", id)
		}
		seen[id] = struct{}{}
		n, ok := s.nodes[id]
		if !ok || n.ID != id {
			return errors.Wrapf(errors.ErrReferentialViolation, "arena entry %q is inconsistent", id)
		}
	}
	for _, e := range s.edges {
		if !s.HasNode(e.From) || !s.HasNode(e.To) {
			return errors.Wrapf(errors.ErrReferentialViolation, "edge %s -> %s dangles", e.From, e.To)
		}
	}
	return nil
}
