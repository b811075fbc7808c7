package graph

// Snapshot is a self-contained copy of a whole tree. It is the unit stored by
// history and persisted by the exchange and db packages. It never aliases a
// live store.
type Snapshot struct {
	Nodes []Node `json:"nodes" yaml:"nodes" toml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges" toml:"edges"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Nodes: make([]Node, len(s.Nodes)),
		Edges: make([]Edge, len(s.Edges)),
	}
	for i, n := range s.Nodes {
		out.Nodes[i] = n.Clone()
	}
	copy(out.Edges, s.Edges)
	return out
}

// Snapshot deep-copies the store's contents.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Nodes: s.Nodes(),
		Edges: s.Edges(),
	}
}

// Restore replaces the store's contents wholesale with a copy of snap. On
// error the store is left unchanged.
func (s *Store) Restore(snap Snapshot) error {
	fresh, err := FromSnapshot(snap)
	if err != nil {
		return err
	}
	*s = *fresh
	return nil
}
