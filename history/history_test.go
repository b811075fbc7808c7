package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/skilltree/graph"
)

func snap(ids ...string) graph.Snapshot {
	s := graph.Snapshot{}
	for _, id := range ids {
		s.Nodes = append(s.Nodes, graph.Node{ID: id, Extras: map[string]string{}})
	}
	return s
}

func TestUndoRedo(t *testing.T) {
	h := New(0)
	h.Reset(snap())
	require.True(t, h.Commit(snap("a")))
	require.True(t, h.Commit(snap("a", "b")))
	assert.Equal(t, 2, h.Len())

	got, ok := h.Undo()
	require.True(t, ok)
	assert.True(t, Equal(snap("a"), got))
	assert.True(t, h.CanRedo())

	got, ok = h.Undo()
	require.True(t, ok)
	assert.True(t, Equal(snap(), got))
	assert.False(t, h.CanUndo())

	_, ok = h.Undo()
	assert.False(t, ok)

	got, ok = h.Redo()
	require.True(t, ok)
	assert.True(t, Equal(snap("a"), got))
	assert.Equal(t, 1, h.RedoLen())
}

func TestCommitClearsRedo(t *testing.T) {
	h := New(0)
	h.Reset(snap())
	h.Commit(snap("a"))
	h.Undo()
	require.True(t, h.CanRedo())

	h.Commit(snap("c"))

	assert.False(t, h.CanRedo())
	_, ok := h.Redo()
	assert.False(t, ok)
}

func TestCommitSkipsUnchangedState(t *testing.T) {
	h := New(0)
	h.Reset(graph.Snapshot{})

	assert.False(t, h.Commit(graph.Snapshot{Nodes: []graph.Node{}, Edges: []graph.Edge{}}),
		"empty and nil collections are the same state")
	h.Commit(snap("a"))
	assert.False(t, h.Commit(snap("a")))
	assert.Equal(t, 1, h.Len())
}

func TestEntriesAreIndependentCopies(t *testing.T) {
	h := New(0)
	h.Reset(snap())
	s := snap("a")
	h.Commit(s)

	s.Nodes[0].Extras["k"] = "mutated"
	s.Nodes[0].Label = "mutated"

	cur := h.Current()
	assert.Empty(t, cur.Nodes[0].Extras)
	assert.Empty(t, cur.Nodes[0].Label)

	cur.Nodes[0].Label = "again"
	assert.Empty(t, h.Current().Nodes[0].Label)
}

func TestLimitDropsOldestEntries(t *testing.T) {
	h := New(2)
	h.Reset(snap())
	h.Commit(snap("a"))
	h.Commit(snap("a", "b"))
	h.Commit(snap("a", "b", "c"))

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, 2, h.Limit())

	h.Undo()
	got, ok := h.Undo()
	require.True(t, ok)
	assert.True(t, Equal(snap("a"), got), "the empty baseline was dropped")
	assert.False(t, h.CanUndo())
}

func TestSetLimitTrimsExistingEntries(t *testing.T) {
	h := New(0)
	h.Reset(snap())
	for _, id := range []string{"a", "b", "c", "d"} {
		h.Commit(snap(id))
	}
	require.Equal(t, 4, h.Len())

	h.SetLimit(2)
	assert.Equal(t, 2, h.Limit())
	assert.Equal(t, 2, h.Len())

	got, ok := h.Undo()
	require.True(t, ok)
	assert.True(t, Equal(snap("c"), got))
	got, ok = h.Undo()
	require.True(t, ok)
	assert.True(t, Equal(snap("b"), got))
	assert.False(t, h.CanUndo())
}

func TestReplaceKeepsUndoAndRedo(t *testing.T) {
	h := New(0)
	h.Commit(snap("a"))
	h.Commit(snap("a", "b"))
	_, ok := h.Undo()
	require.True(t, ok)

	h.Replace(snap("x"))

	assert.True(t, Equal(snap("x"), h.Current()))
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, 1, h.RedoLen())

	prev, ok := h.Undo()
	require.True(t, ok)
	assert.True(t, Equal(snap(), prev))
	next, ok := h.Redo()
	require.True(t, ok)
	assert.True(t, Equal(snap("x"), next))
}
