// Package history keeps the undo/redo sequence of committed graph states.
//
// Every entry is an independent deep copy; the stack never aliases the live
// store. Callers commit only at commit points (structural edits, confirmed
// field edits), so one user action maps to one undo step.
package history

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/teranos/skilltree/graph"
)

// Stack holds the current committed state and the states on either side of
// it.
type Stack struct {
	current graph.Snapshot
	undo    []graph.Snapshot
	redo    []graph.Snapshot
	limit   int
}

// New creates a stack holding at most limit undo entries. limit <= 0 keeps
// every entry.
func New(limit int) *Stack {
	return &Stack{limit: limit}
}

// Limit returns the maximum undo depth (0 = unbounded).
func (h *Stack) Limit() int {
	return h.limit
}

// SetLimit changes the maximum undo depth, dropping the oldest entries that
// no longer fit.
func (h *Stack) SetLimit(limit int) {
	h.limit = limit
	if limit > 0 && len(h.undo) > limit {
		h.undo = h.undo[len(h.undo)-limit:]
	}
}

// Reset discards all entries and makes snap the baseline.
func (h *Stack) Reset(snap graph.Snapshot) {
	h.current = snap.Clone()
	h.undo = nil
	h.redo = nil
}

// Current returns a copy of the last committed state.
func (h *Stack) Current() graph.Snapshot {
	return h.current.Clone()
}

// Commit records snap as the new current state and clears redo. A snapshot
// equal to the current one is not recorded; Commit reports whether an entry
// was added.
func (h *Stack) Commit(snap graph.Snapshot) bool {
	if Equal(h.current, snap) {
		return false
	}
	h.undo = append(h.undo, h.current)
	if h.limit > 0 && len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
	h.current = snap.Clone()
	h.redo = nil
	return true
}

// Replace overwrites the current state without touching undo or redo. Used
// when a restored entry has to be adjusted to the current activation policy.
func (h *Stack) Replace(snap graph.Snapshot) {
	h.current = snap.Clone()
}

// Undo steps back one entry and returns the state to restore.
func (h *Stack) Undo() (graph.Snapshot, bool) {
	if len(h.undo) == 0 {
		return graph.Snapshot{}, false
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, h.current)
	h.current = prev
	return prev.Clone(), true
}

// Redo re-applies the most recently undone entry.
func (h *Stack) Redo() (graph.Snapshot, bool) {
	if len(h.redo) == 0 {
		return graph.Snapshot{}, false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, h.current)
	h.current = next
	return next.Clone(), true
}

func (h *Stack) CanUndo() bool { return len(h.undo) > 0 }

func (h *Stack) CanRedo() bool { return len(h.redo) > 0 }

// Len returns the number of undo entries.
func (h *Stack) Len() int { return len(h.undo) }

// RedoLen returns the number of redo entries.
func (h *Stack) RedoLen() int { return len(h.redo) }

// Equal compares two snapshots, treating nil and empty collections alike.
func Equal(a, b graph.Snapshot) bool {
	return cmp.Equal(a, b, cmpopts.EquateEmpty())
}
