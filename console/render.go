package console

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/skilltree/editor"
	"github.com/teranos/skilltree/graph"
	"github.com/teranos/skilltree/selection"
	"github.com/teranos/skilltree/sym"
)

func (c *Console) prompt() {
	fmt.Fprintf(c.out, "%s> ", pterm.LightCyan(c.name))
}

func (c *Console) notice(symbol, format string, args ...interface{}) {
	fmt.Fprintf(c.out, "%s %s\n", symbol, fmt.Sprintf(format, args...))
}

func (c *Console) warn(format string, args ...interface{}) {
	fmt.Fprintf(c.out, "%s %s\n", pterm.Yellow("!"), fmt.Sprintf(format, args...))
}

func (c *Console) question(message string) {
	fmt.Fprintf(c.out, "%s %s [y/N] ", pterm.Yellow("?"), message)
}

func (c *Console) errorLine(message, detail string) {
	fmt.Fprintf(c.out, "%s %s\n", pterm.Red("✗"), pterm.Red(message))
	if detail != "" && detail != message {
		fmt.Fprintf(c.out, "  %s\n", pterm.Gray(detail))
	}
}

// status is the one-line summary printed after each committed change.
func (c *Console) status() {
	nodes := c.session.Nodes()
	active := 0
	for _, n := range nodes {
		if n.IsActive {
			active++
		}
	}
	undo, redo := c.session.HistoryDepth()
	line := fmt.Sprintf("%s %d nodes, %d edges, %d active  %s %d  %s %d",
		sym.Commit, len(nodes), len(c.session.Edges()), active, sym.Undo, undo, sym.Redo, redo)
	if sel := c.session.Selection(); sel.Len() > 0 {
		line += fmt.Sprintf("  %s %s", sym.Select, strings.Join(sel.IDs(), ","))
	}
	if c.session.Dirty() {
		line += "  " + pterm.Yellow("(uncommitted)")
	}
	fmt.Fprintln(c.out, pterm.Gray(line))
}

// renderTree prints every node as a table row.
func (c *Console) renderTree() error {
	sel := c.session.Selection()
	return WriteTree(c.out, c.session.Nodes(), c.session.ParentsOf, sel.Contains)
}

// WriteTree renders nodes as a table: activation marker, id, label, role,
// shape, parents and attributes. selected may be nil.
func WriteTree(w io.Writer, nodes []graph.Node, parentsOf func(id string) []string, selected func(id string) bool) error {
	data := pterm.TableData{{"", "id", "label", "role", "shape", "parents", "attrs"}}
	for _, n := range nodes {
		marker := sym.ActivationGlyph(n.IsActive)
		if n.IsBase() {
			marker = sym.Base
		}
		if selected != nil && selected(n.ID) {
			marker += sym.Select
		}
		data = append(data, []string{
			marker,
			n.ID,
			n.Label,
			string(n.Role),
			shapeName(n),
			strings.Join(parentsOf(n.ID), ","),
			attrSummary(n.Extras),
		})
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

func (c *Console) renderInspection(in editor.Inspection) {
	switch in.Mode {
	case selection.ModeEmpty:
		c.notice(sym.Select, "nothing selected")
	case selection.ModeSingle:
		v := in.Single
		n := v.Node
		c.field("id", n.ID)
		c.field("label", n.Label)
		c.field("description", n.Description)
		c.field("role", string(n.Role))
		c.field("shape", string(n.Shape))
		if v.ShowSides {
			c.field("sides", strconv.Itoa(n.Sides()))
		}
		c.field("link style", string(n.LinkStyle))
		c.field("icon", n.IconPath)
		c.field("position", fmt.Sprintf("%g, %g", n.X, n.Y))
		c.field("parents", v.ParentSummary)
		c.field("active", fmt.Sprintf("%s %t", sym.ActivationGlyph(n.IsActive), n.IsActive))
		hint := v.ActivationHint
		if !v.CanActivate {
			hint = pterm.Yellow(hint)
		}
		c.field("activation", hint)
		for _, k := range sortedKeys(n.Extras) {
			c.field("  "+k, n.Extras[k])
		}
	case selection.ModeMulti:
		m := in.Multi
		c.field("selected", fmt.Sprintf("%d: %s", m.Count, strings.Join(m.IDs, ", ")))
		c.field("role", mixed(m.Role))
		c.field("shape", mixed(m.Shape))
		if m.ShowSides {
			c.field("sides", mixed(m.Sides))
		}
		c.field("link style", mixed(m.LinkStyle))
		c.field("icon", mixed(m.Icon))
	}
}

func (c *Console) field(name, value string) {
	fmt.Fprintf(c.out, "  %s %s\n", pterm.LightCyan(fmt.Sprintf("%-12s", name)), value)
}

// mixed renders a merged selection value; differing values show as "(mixed)".
func mixed[T comparable](v selection.Value[T]) string {
	got, ok := v.Get()
	if !ok {
		return "(mixed)"
	}
	return fmt.Sprint(got)
}

func shapeName(n graph.Node) string {
	if n.Shape == graph.ShapePoly {
		return fmt.Sprintf("poly/%d", n.Sides())
	}
	return string(n.Shape)
}

func attrSummary(extras map[string]string) string {
	keys := sortedKeys(extras)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+extras[k])
	}
	return strings.Join(parts, " ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
