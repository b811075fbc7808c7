package console

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/teranos/skilltree/activation"
	"github.com/teranos/skilltree/errors"
	"github.com/teranos/skilltree/graph"
	"github.com/teranos/skilltree/sym"
)

type command struct {
	usage   string
	help    string
	minArgs int
	run     func(ctx context.Context, c *Console, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"add":        {"add [id] [label]", "add a node and select it", 0, cmdAdd},
		"link":       {"link <from> <to>", "make <from> a parent of <to>", 2, cmdLink},
		"unlink":     {"unlink <from> <to>", "remove the edge <from> -> <to>", 2, cmdUnlink},
		"parents":    {"parents <id> [parent...]", "replace the parents of <id>", 1, cmdParents},
		"select":     {"select <id...>", "select nodes, the first one becomes primary", 1, cmdSelect},
		"toggle":     {"toggle <id>", "add or remove a node from the selection", 1, cmdToggle},
		"clear":      {"clear", "clear the selection", 0, cmdClear},
		"rename":     {"rename <old> <new>", "change a node id", 2, cmdRename},
		"role":       {"role <normal|base>", "set the role of the selection", 1, cmdRole},
		"shape":      {"shape <circle|rect|poly>", "set the shape of the selection", 1, cmdShape},
		"sides":      {"sides <n>", "set polygon sides (3-12) of the selection", 1, cmdSides},
		"icon":       {"icon [path]", "set or clear the icon of the selection", 0, cmdIcon},
		"style":      {"style <curve|straight|elbow>", "set how links into the selection are drawn", 1, cmdStyle},
		"activate":   {"activate [id]", "unlock a node", 0, cmdActivate},
		"deactivate": {"deactivate [id]", "lock a node and everything that depends on it", 0, cmdDeactivate},
		"label":      {"label <text>", "edit the label (live, see commit)", 1, cmdLabel},
		"desc":       {"desc <text>", "edit the description (live, see commit)", 1, cmdDesc},
		"commit":     {"commit", "commit live label and description edits", 0, cmdCommit},
		"pos":        {"pos <x> <y>", "move the selected node", 2, cmdPos},
		"attr":       {"attr add|rename|set|del ...", "edit custom attributes of the selected node", 2, cmdAttr},
		"delete":     {"delete [id]", "delete a node, or the whole selection", 0, cmdDelete},
		"undo":       {"undo", "undo the last change", 0, cmdUndo},
		"redo":       {"redo", "redo the last undone change", 0, cmdRedo},
		"policy":     {"policy <any|all>", "change the activation policy", 1, cmdPolicy},
		"inspect":    {"inspect", "show the selection in detail", 0, cmdInspect},
		"show":       {"show", "list every node", 0, cmdShow},
		"save":       {"save", "store the tree", 0, cmdSave},
		"help":       {"help", "list commands", 0, cmdHelp},
		"quit":       {"quit", "leave the editor", 0, cmdQuit},
	}
	commands["exit"] = commands["quit"]
}

func cmdAdd(_ context.Context, c *Console, args []string) error {
	n := graph.Node{}
	if len(args) > 0 {
		n.ID = args[0]
	}
	if len(args) > 1 {
		n.Label = strings.Join(args[1:], " ")
	}
	id, err := c.session.AddNode(n)
	if err != nil {
		return err
	}
	c.notice(sym.Node, "added %s", id)
	return c.session.Select(id)
}

func cmdLink(_ context.Context, c *Console, args []string) error {
	return c.session.AddEdge(args[0], args[1])
}

func cmdUnlink(_ context.Context, c *Console, args []string) error {
	removed, err := c.session.RemoveEdge(args[0], args[1])
	if err == nil && !removed {
		c.notice(sym.Edge, "%s is not a parent of %s", args[0], args[1])
	}
	return err
}

func cmdParents(_ context.Context, c *Console, args []string) error {
	return c.session.SetParents(args[0], args[1:])
}

func cmdSelect(_ context.Context, c *Console, args []string) error {
	if err := c.session.Select(args[0]); err != nil {
		return err
	}
	for _, id := range args[1:] {
		if c.session.Selection().Contains(id) {
			continue
		}
		if _, err := c.session.ToggleSelect(id); err != nil {
			return err
		}
	}
	return nil
}

func cmdToggle(_ context.Context, c *Console, args []string) error {
	_, err := c.session.ToggleSelect(args[0])
	return err
}

func cmdClear(_ context.Context, c *Console, _ []string) error {
	c.session.ClearSelection()
	return nil
}

func cmdRename(_ context.Context, c *Console, args []string) error {
	return c.session.RenameNode(args[0], args[1])
}

func cmdRole(_ context.Context, c *Console, args []string) error {
	role, err := graph.ParseRole(args[0])
	if err != nil {
		return err
	}
	if c.bulk() {
		return c.bulkDone(c.session.SetRoleAll(role))
	}
	id, err := c.target(nil)
	if err != nil {
		return err
	}
	return c.session.SetRole(id, role)
}

func cmdShape(_ context.Context, c *Console, args []string) error {
	shape, err := graph.ParseShape(args[0])
	if err != nil {
		return err
	}
	if c.bulk() {
		return c.bulkDone(c.session.SetShapeAll(shape))
	}
	id, err := c.target(nil)
	if err != nil {
		return err
	}
	return c.session.SetShape(id, shape)
}

func cmdSides(_ context.Context, c *Console, args []string) error {
	if c.bulk() {
		return c.bulkDone(c.session.SetSidesAll(args[0]))
	}
	id, err := c.target(nil)
	if err != nil {
		return err
	}
	return c.session.SetSides(id, args[0])
}

func cmdIcon(_ context.Context, c *Console, args []string) error {
	path := strings.Join(args, " ")
	if c.bulk() {
		return c.bulkDone(c.session.SetIconAll(path))
	}
	id, err := c.target(nil)
	if err != nil {
		return err
	}
	return c.session.SetIcon(id, path)
}

func cmdStyle(_ context.Context, c *Console, args []string) error {
	style, err := graph.ParseLinkStyle(args[0])
	if err != nil {
		return err
	}
	if c.bulk() {
		return c.bulkDone(c.session.SetLinkStyleAll(style))
	}
	id, err := c.target(nil)
	if err != nil {
		return err
	}
	return c.session.SetLinkStyle(id, style)
}

func cmdActivate(_ context.Context, c *Console, args []string) error {
	id, err := c.target(args)
	if err != nil {
		return err
	}
	active, err := c.session.SetActive(id, true)
	if err != nil {
		return err
	}
	if !active {
		c.warn("%s stays locked: %s", id, c.session.Config().Policy.Describe())
	}
	return nil
}

func cmdDeactivate(_ context.Context, c *Console, args []string) error {
	id, err := c.target(args)
	if err != nil {
		return err
	}
	_, err = c.session.SetActive(id, false)
	return err
}

func cmdLabel(_ context.Context, c *Console, args []string) error {
	id, err := c.target(nil)
	if err != nil {
		return err
	}
	return c.session.EditLabel(id, strings.Join(args, " "))
}

func cmdDesc(_ context.Context, c *Console, args []string) error {
	id, err := c.target(nil)
	if err != nil {
		return err
	}
	return c.session.EditDescription(id, strings.Join(args, " "))
}

func cmdCommit(_ context.Context, c *Console, _ []string) error {
	return c.session.CommitEdit()
}

func cmdPos(_ context.Context, c *Console, args []string) error {
	id, err := c.target(nil)
	if err != nil {
		return err
	}
	return c.session.SetPosition(id, args[0], args[1])
}

func cmdAttr(_ context.Context, c *Console, args []string) error {
	id, err := c.target(nil)
	if err != nil {
		return err
	}
	op, rest := strings.ToLower(args[0]), args[1:]
	need := func(n int, usage string) error {
		if len(rest) < n {
			return errors.WithHintf(errors.NewInvalidRequestError("attr %s needs %d arguments", op, n),
				"usage: attr %s", usage)
		}
		return nil
	}
	switch op {
	case "add":
		if err := need(2, "add <key> <value>"); err != nil {
			return err
		}
		return c.session.AddAttribute(id, rest[0], strings.Join(rest[1:], " "))
	case "rename":
		if err := need(2, "rename <old> <new>"); err != nil {
			return err
		}
		return c.session.RenameAttribute(id, rest[0], rest[1])
	case "set":
		if err := need(2, "set <key> <value>"); err != nil {
			return err
		}
		return c.session.SetAttribute(id, rest[0], strings.Join(rest[1:], " "))
	case "del":
		return c.session.DeleteAttribute(id, rest[0])
	default:
		return errors.WithHint(errors.NewInvalidRequestError("unknown attr operation %q", op),
			"use add, rename, set or del")
	}
}

func cmdDelete(_ context.Context, c *Console, args []string) error {
	var (
		deleted bool
		err     error
	)
	if len(args) > 0 {
		deleted, err = c.session.DeleteNode(args[0])
	} else {
		if c.session.Selection().Len() == 0 {
			_, err := c.target(nil)
			return err
		}
		deleted, err = c.session.DeleteSelection()
	}
	if err == nil && !deleted {
		c.notice(sym.Tree, "nothing deleted")
	}
	return err
}

func cmdUndo(_ context.Context, c *Console, _ []string) error {
	ok, err := c.session.Undo()
	if err == nil && !ok {
		c.notice(sym.Undo, "nothing to undo")
	}
	return err
}

func cmdRedo(_ context.Context, c *Console, _ []string) error {
	ok, err := c.session.Redo()
	if err == nil && !ok {
		c.notice(sym.Redo, "nothing to redo")
	}
	return err
}

func cmdPolicy(_ context.Context, c *Console, args []string) error {
	p, err := activation.ParsePolicy(args[0])
	if err != nil {
		return err
	}
	return c.session.SetPolicy(p)
}

func cmdInspect(_ context.Context, c *Console, _ []string) error {
	c.renderInspection(c.session.Inspect())
	return nil
}

func cmdShow(_ context.Context, c *Console, _ []string) error {
	return c.renderTree()
}

func cmdSave(ctx context.Context, c *Console, _ []string) error {
	if c.saver == nil {
		return errors.WithHint(errors.NewInvalidRequestError("no tree storage configured"),
			"use skilltree tree export to write the tree to a file")
	}
	if err := c.session.CommitEdit(); err != nil {
		return err
	}
	snap := c.session.Committed()
	if err := c.saver.Save(ctx, c.name, snap); err != nil {
		return err
	}
	c.saved = snap
	c.notice(sym.DB, "saved %s (%d nodes)", c.name, len(snap.Nodes))
	return nil
}

func cmdHelp(_ context.Context, c *Console, _ []string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		if name != "exit" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(c.out, "  %-30s %s\n", commands[name].usage, commands[name].help)
	}
	return nil
}

func cmdQuit(_ context.Context, c *Console, _ []string) error {
	if c.session.Dirty() || c.Unsaved() {
		if !c.confirm("Discard unsaved changes?") {
			return nil
		}
	}
	c.session.Close()
	c.done = true
	return nil
}

// bulkDone reports the outcome of a bulk edit.
func (c *Console) bulkDone(n int, err error) error {
	if err != nil {
		return err
	}
	c.notice(sym.Select, "updated %d nodes", n)
	return nil
}
