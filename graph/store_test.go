package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/skilltree/errors"
)

// newTestStore builds base -> a -> b plus an unconnected c.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	require.NoError(t, s.AddNode(Node{ID: "base", Role: RoleBase}))
	require.NoError(t, s.AddNode(Node{ID: "a"}))
	require.NoError(t, s.AddNode(Node{ID: "b", LinkStyle: LinkElbow}))
	require.NoError(t, s.AddNode(Node{ID: "c"}))
	require.NoError(t, s.AddEdge(Edge{From: "base", To: "a"}))
	require.NoError(t, s.AddEdge(Edge{From: "a", To: "b"}))
	return s
}

func TestAddNode(t *testing.T) {
	t.Run("fills defaults", func(t *testing.T) {
		s := NewStore()
		require.NoError(t, s.AddNode(Node{ID: " x "}))

		n, ok := s.FindNode("x")
		require.True(t, ok)
		assert.Equal(t, RoleNormal, n.Role)
		assert.Equal(t, ShapeCircle, n.Shape)
		assert.Equal(t, LinkCurve, n.LinkStyle)
		assert.NotNil(t, n.Extras)
	})

	t.Run("rejects duplicate id", func(t *testing.T) {
		s := newTestStore(t)
		err := s.AddNode(Node{ID: "a"})
		assert.True(t, errors.Is(err, errors.ErrDuplicateID))
		assert.Equal(t, 4, s.Len())
	})

	t.Run("rejects empty id", func(t *testing.T) {
		s := NewStore()
		err := s.AddNode(Node{ID: "  "})
		assert.True(t, errors.IsInvalidRequestError(err))
		assert.Equal(t, 0, s.Len())
	})
}

func TestAddEdge(t *testing.T) {
	tests := []struct {
		name    string
		edge    Edge
		wantErr error
	}{
		{"dangling source", Edge{From: "ghost", To: "a"}, errors.ErrReferentialViolation},
		{"dangling target", Edge{From: "a", To: "ghost"}, errors.ErrReferentialViolation},
		{"duplicate", Edge{From: "base", To: "a"}, errors.ErrDuplicateEdge},
		{"self loop", Edge{From: "c", To: "c"}, errors.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			err := s.AddEdge(tt.edge)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Equal(t, 2, s.EdgeCount())
		})
	}

	t.Run("inherits child link style", func(t *testing.T) {
		s := newTestStore(t)
		require.NoError(t, s.AddEdge(Edge{From: "c", To: "b"}))
		e, ok := s.FindEdge("c", "b")
		require.True(t, ok)
		assert.Equal(t, LinkElbow, e.Style)
	})
}

func TestFindNodeReturnsCopy(t *testing.T) {
	s := newTestStore(t)
	s.MutateNode("a", func(n *Node) { n.Extras["tier"] = "1" })

	n, _ := s.FindNode("a")
	n.Label = "changed"
	n.Extras["tier"] = "9"

	stored, _ := s.FindNode("a")
	assert.Empty(t, stored.Label)
	assert.Equal(t, "1", stored.Extras["tier"])
}

func TestMutateNode(t *testing.T) {
	s := newTestStore(t)

	assert.False(t, s.MutateNode("ghost", func(n *Node) { n.Label = "x" }), "missing id is a no-op")

	ok := s.MutateNode("a", func(n *Node) {
		n.Label = "Alpha"
		n.ID = "sneaky"
		n.Extras = nil
	})
	require.True(t, ok)

	n, found := s.FindNode("a")
	require.True(t, found, "mutate must not change the id")
	assert.Equal(t, "Alpha", n.Label)
	assert.NotNil(t, n.Extras)
	assert.False(t, s.HasNode("sneaky"))
}

func TestRenameNode(t *testing.T) {
	t.Run("rewrites edges and keeps order", func(t *testing.T) {
		s := newTestStore(t)
		require.NoError(t, s.RenameNode("a", "alpha"))

		assert.False(t, s.HasNode("a"))
		assert.Equal(t, []string{"base", "alpha", "b", "c"}, s.NodeIDs())
		assert.True(t, s.HasEdge("base", "alpha"))
		assert.True(t, s.HasEdge("alpha", "b"))
		for _, e := range s.Edges() {
			assert.NotEqual(t, "a", e.From)
			assert.NotEqual(t, "a", e.To)
		}
		require.NoError(t, s.CheckIntegrity())
	})

	t.Run("duplicate leaves store untouched", func(t *testing.T) {
		s := newTestStore(t)
		before := s.Snapshot()

		err := s.RenameNode("a", "b")
		assert.True(t, errors.Is(err, errors.ErrDuplicateID))
		assert.Equal(t, before, s.Snapshot())
	})

	t.Run("missing node", func(t *testing.T) {
		s := newTestStore(t)
		assert.True(t, errors.IsNotFoundError(s.RenameNode("ghost", "x")))
	})
}

func TestRemoveNodesCascades(t *testing.T) {
	s := newTestStore(t)
	removed := s.RemoveNodes(map[string]struct{}{"a": {}, "ghost": {}})

	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{"base", "b", "c"}, s.NodeIDs())
	assert.Equal(t, 0, s.EdgeCount(), "both edges touched a")
	require.NoError(t, s.CheckIntegrity())
}

func TestRemoveEdgesMatching(t *testing.T) {
	s := newTestStore(t)
	n := s.RemoveEdgesMatching(func(e Edge) bool { return e.From == "a" })

	assert.Equal(t, 1, n)
	assert.True(t, s.HasEdge("base", "a"))
	assert.False(t, s.HasEdge("a", "b"))
}

func TestRestyleEdgesInto(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AddEdge(Edge{From: "c", To: "b"}))

	n := s.RestyleEdgesInto(map[string]struct{}{"b": {}}, LinkStraight)

	assert.Equal(t, 2, n)
	e, _ := s.FindEdge("base", "a")
	assert.Equal(t, LinkCurve, e.Style)
	e, _ = s.FindEdge("c", "b")
	assert.Equal(t, LinkStraight, e.Style)
}

func TestParseEnums(t *testing.T) {
	r, err := ParseRole(" Base ")
	require.NoError(t, err)
	assert.Equal(t, RoleBase, r)

	_, err = ParseShape("hexagon")
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))

	l, err := ParseLinkStyle("ELBOW")
	require.NoError(t, err)
	assert.Equal(t, LinkElbow, l)
}

func TestSides(t *testing.T) {
	assert.Equal(t, 0, Node{Shape: ShapeRect, PolySides: 5}.Sides(), "sides ignored unless poly")
	assert.Equal(t, 5, Node{Shape: ShapePoly, PolySides: 5}.Sides())
	assert.Equal(t, DefaultPolySides, Node{Shape: ShapePoly}.Sides())
	assert.Equal(t, MaxPolySides, ClampSides(40))
	assert.Equal(t, MinPolySides, ClampSides(1))
}

func TestNewNodeIDIsUnused(t *testing.T) {
	s := newTestStore(t)
	id := s.NewNodeID()
	assert.Contains(t, id, generatedIDPrefix)
	assert.False(t, s.HasNode(id))
}
