// Package selection tracks which nodes the editor is operating on.
//
// A Model holds identifiers only. Nodes are looked up in the graph store when
// needed, so a selection never keeps a node alive or sees a stale copy.
package selection

// Mode distinguishes the inspector layouts.
type Mode int

const (
	ModeEmpty Mode = iota
	ModeSingle
	ModeMulti
)

// String returns the lowercase mode name used in logs.
func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeMulti:
		return "multi"
	default:
		return "empty"
	}
}

// Model is an ordered set of selected node ids plus a primary id, the node
// most recently touched.
type Model struct {
	primary string
	ids     []string
	set     map[string]struct{}
}

// New creates an empty selection.
func New() *Model {
	return &Model{set: make(map[string]struct{})}
}

// Primary returns the most recently selected id.
func (m *Model) Primary() (string, bool) {
	return m.primary, m.primary != ""
}

// IDs returns the selected ids in selection order.
func (m *Model) IDs() []string {
	out := make([]string, len(m.ids))
	copy(out, m.ids)
	return out
}

// Set returns the selected ids as a set.
func (m *Model) Set() map[string]struct{} {
	out := make(map[string]struct{}, len(m.set))
	for id := range m.set {
		out[id] = struct{}{}
	}
	return out
}

// Mode reports whether nothing, one node or several nodes are selected.
func (m *Model) Mode() Mode {
	switch len(m.ids) {
	case 0:
		return ModeEmpty
	case 1:
		return ModeSingle
	default:
		return ModeMulti
	}
}

// Len returns the number of selected ids.
func (m *Model) Len() int {
	return len(m.ids)
}

// Contains reports whether id is selected.
func (m *Model) Contains(id string) bool {
	_, ok := m.set[id]
	return ok
}

// Select replaces the selection with id.
func (m *Model) Select(id string) {
	m.Clear()
	m.Add(id)
}

// Add extends the selection with id and makes it primary.
func (m *Model) Add(id string) {
	if id == "" {
		return
	}
	if !m.Contains(id) {
		m.set[id] = struct{}{}
		m.ids = append(m.ids, id)
	}
	m.primary = id
}

// Toggle adds id, or removes it when already selected. Returns whether id is
// selected afterwards.
func (m *Model) Toggle(id string) bool {
	if m.Contains(id) {
		m.Remove(id)
		return false
	}
	m.Add(id)
	return m.Contains(id)
}

// Remove drops id. When it was primary, the last remaining id takes over.
func (m *Model) Remove(id string) {
	if !m.Contains(id) {
		return
	}
	delete(m.set, id)
	for i, sel := range m.ids {
		if sel == id {
			m.ids = append(m.ids[:i], m.ids[i+1:]...)
			break
		}
	}
	if m.primary == id {
		m.primary = ""
		if n := len(m.ids); n > 0 {
			m.primary = m.ids[n-1]
		}
	}
}

// Clear empties the selection.
func (m *Model) Clear() {
	m.primary = ""
	m.ids = nil
	m.set = make(map[string]struct{})
}

// Rename follows an identifier change, keeping position and primary status.
func (m *Model) Rename(oldID, newID string) {
	if !m.Contains(oldID) || oldID == newID {
		return
	}
	delete(m.set, oldID)
	m.set[newID] = struct{}{}
	for i, sel := range m.ids {
		if sel == oldID {
			m.ids[i] = newID
		}
	}
	if m.primary == oldID {
		m.primary = newID
	}
}

// Prune drops every id for which exists reports false, e.g. after an undo
// restored a graph without them. Returns the number of ids dropped.
func (m *Model) Prune(exists func(id string) bool) int {
	dropped := 0
	for _, id := range m.IDs() {
		if !exists(id) {
			m.Remove(id)
			dropped++
		}
	}
	return dropped
}
