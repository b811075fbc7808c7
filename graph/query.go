package graph

// ParentsOf returns the source of every edge pointing into id, in edge
// insertion order. This is the parent lookup used by presentation layers and
// by the activation policy.
func (s *Store) ParentsOf(id string) []string {
	var parents []string
	for _, e := range s.edges {
		if e.To == id {
			parents = append(parents, e.From)
		}
	}
	return parents
}

// ChildrenOf returns the target of every edge leaving id, in edge insertion order.
func (s *Store) ChildrenOf(id string) []string {
	var children []string
	for _, e := range s.edges {
		if e.From == id {
			children = append(children, e.To)
		}
	}
	return children
}

// HasEdge reports whether the relation from -> to exists.
func (s *Store) HasEdge(from, to string) bool {
	_, ok := s.FindEdge(from, to)
	return ok
}

// FindEdge returns the edge from -> to.
func (s *Store) FindEdge(from, to string) (Edge, bool) {
	for _, e := range s.edges {
		if e.From == from && e.To == to {
			return e, true
		}
	}
	return Edge{}, false
}

// NodeIDs returns node ids in insertion order.
func (s *Store) NodeIDs() []string {
	return append([]string(nil), s.order...)
}

// Nodes returns copies of every node in insertion order.
func (s *Store) Nodes() []Node {
	out := make([]Node, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id].Clone())
	}
	return out
}

// NodesByID returns copies of the nodes with the given ids, skipping ids that
// do not exist. Order follows ids.
func (s *Store) NodesByID(ids []string) []Node {
	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		if n, ok := s.nodes[id]; ok {
			out = append(out, n.Clone())
		}
	}
	return out
}

// Edges returns a copy of the edge list in insertion order.
func (s *Store) Edges() []Edge {
	return append([]Edge(nil), s.edges...)
}

// ActiveCount returns the number of active nodes.
func (s *Store) ActiveCount() int {
	count := 0
	for _, n := range s.nodes {
		if n.IsActive {
			count++
		}
	}
	return count
}
