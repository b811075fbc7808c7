// Package sym defines canonical glyphs for skilltree operations and markers.
// These symbols are shared by the console renderer, CLI help text and the
// structured "symbol" log field, so log lines can be filtered by concern.
package sym

// Graph glyphs
const (
	Node   = "◉" // node in the tree
	Base   = "◆" // base (starter) node, active without parents
	Edge   = "⟶" // prerequisite relation parent -> child
	Active = "●" // unlocked
	Locked = "○" // not unlocked
)

// Editor glyphs
const (
	Select   = "▣" // selection changes
	Commit   = "✓" // history commit point
	Undo     = "↶"
	Redo     = "↷"
	Tree     = "❖" // named tree documents
	AM       = "≡" // configuration
	DB       = "⊔" // database / storage
	Exchange = "⇄" // import / export
)

// Names maps each glyph to a short lowercase name for machine output.
var Names = map[string]string{
	Node:     "node",
	Base:     "base",
	Edge:     "edge",
	Active:   "active",
	Locked:   "locked",
	Select:   "select",
	Commit:   "commit",
	Undo:     "undo",
	Redo:     "redo",
	Tree:     "tree",
	AM:       "am",
	DB:       "db",
	Exchange: "exchange",
}

// ActivationGlyph returns the glyph for an activation state.
func ActivationGlyph(active bool) string {
	if active {
		return Active
	}
	return Locked
}
