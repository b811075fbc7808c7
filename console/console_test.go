package console

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/skilltree/activation"
	"github.com/teranos/skilltree/editor"
	"github.com/teranos/skilltree/errors"
	"github.com/teranos/skilltree/graph"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

type memorySaver struct {
	saves map[string]graph.Snapshot
}

func (s *memorySaver) Save(_ context.Context, name string, snap graph.Snapshot) error {
	if s.saves == nil {
		s.saves = make(map[string]graph.Snapshot)
	}
	s.saves[name] = snap
	return nil
}

func newConsole(t *testing.T, opts ...Option) (*Console, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	c, err := New("warrior", graph.Snapshot{}, editor.DefaultConfig(), append([]Option{WithOutput(&out)}, opts...)...)
	require.NoError(t, err)
	return c, &out
}

// script runs the given lines through Run and returns the console output.
func script(t *testing.T, c *Console, out *bytes.Buffer, lines ...string) string {
	t.Helper()
	input := strings.Join(lines, "\n") + "\n"
	require.NoError(t, c.Run(context.Background(), strings.NewReader(input), nil))
	return out.String()
}

func node(t *testing.T, c *Console, id string) graph.Node {
	t.Helper()
	n, ok := c.Session().Node(id)
	require.True(t, ok, "node %s missing", id)
	return n
}

func TestBuildTree(t *testing.T) {
	c, out := newConsole(t)

	output := script(t, c, out,
		"add base Basics",
		"role base",
		"activate",
		`add slash "Wide Slash"`,
		"link base slash",
		"activate slash",
		"show",
	)

	assert.True(t, node(t, c, "base").IsActive)
	slash := node(t, c, "slash")
	assert.Equal(t, "Wide Slash", slash.Label)
	assert.True(t, slash.IsActive)
	assert.Equal(t, []string{"base"}, c.Session().ParentsOf("slash"))

	assert.Contains(t, output, "added slash")
	assert.Contains(t, output, "2 nodes, 1 edges, 2 active")
	assert.Contains(t, output, "Wide Slash")
}

func TestRefusedActivationWarns(t *testing.T) {
	c, out := newConsole(t)

	output := script(t, c, out, "add orphan", "activate")

	assert.False(t, node(t, c, "orphan").IsActive)
	assert.Contains(t, output, "orphan stays locked")
	assert.Contains(t, output, "Requires active parents or Base role")
}

func TestDeactivationCascades(t *testing.T) {
	c, out := newConsole(t)

	script(t, c, out,
		"add base", "role base", "activate",
		"add a", "link base a", "activate",
		"add b", "link a b", "activate",
		"deactivate a",
	)

	assert.True(t, node(t, c, "base").IsActive)
	assert.False(t, node(t, c, "a").IsActive)
	assert.False(t, node(t, c, "b").IsActive)
}

func TestDuplicateIDShowsMessage(t *testing.T) {
	c, out := newConsole(t)

	output := script(t, c, out, "add a", "add a", "add b", "rename b a")

	assert.Contains(t, output, "ID already exists!")
	assert.Len(t, c.Session().Nodes(), 2)
	node(t, c, "b")
}

func TestBulkEditsApplyToSelection(t *testing.T) {
	c, out := newConsole(t)

	output := script(t, c, out,
		"add a", "add b", "add c",
		"select a b",
		"shape poly",
		"sides 8",
		"style elbow",
	)

	for _, id := range []string{"a", "b"} {
		n := node(t, c, id)
		assert.Equal(t, graph.ShapePoly, n.Shape)
		assert.Equal(t, 8, n.PolySides)
		assert.Equal(t, graph.LinkElbow, n.LinkStyle)
	}
	assert.Equal(t, graph.ShapeCircle, node(t, c, "c").Shape)
	assert.Contains(t, output, "updated 2 nodes")

	undo, _ := c.Session().HistoryDepth()
	assert.Equal(t, 6, undo, "three adds plus one entry per bulk edit")
}

func TestSidesRejectsMalformedNumber(t *testing.T) {
	c, out := newConsole(t)

	output := script(t, c, out, "add a", "shape poly", "sides many")

	assert.Equal(t, 6, node(t, c, "a").PolySides)
	assert.Contains(t, output, "✗")
}

func TestDeleteSelectionAsks(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		c, out := newConsole(t)
		output := script(t, c, out, "add a", "add b", "select a b", "delete", "y")

		assert.Empty(t, c.Session().Nodes())
		assert.Contains(t, output, "Delete 2 selected nodes? [y/N]")
		assert.Equal(t, 0, c.Session().Selection().Len())
	})

	t.Run("declined", func(t *testing.T) {
		c, out := newConsole(t)
		output := script(t, c, out, "add a", "add b", "select a b", "delete", "n")

		assert.Len(t, c.Session().Nodes(), 2)
		assert.Contains(t, output, "nothing deleted")
	})

	t.Run("single node", func(t *testing.T) {
		c, out := newConsole(t)
		output := script(t, c, out, "add a", "add b", "link a b", "delete a", "yes")

		assert.Len(t, c.Session().Nodes(), 1)
		assert.Empty(t, c.Session().Edges())
		assert.Contains(t, output, `Delete node "a"?`)
	})
}

func TestUndoRedo(t *testing.T) {
	c, out := newConsole(t)

	output := script(t, c, out, "add a", "undo", "undo", "redo", "redo")

	assert.Len(t, c.Session().Nodes(), 1)
	assert.Contains(t, output, "nothing to undo")
	assert.Contains(t, output, "nothing to redo")
}

func TestLiveLabelEdit(t *testing.T) {
	c, out := newConsole(t)

	script(t, c, out, "add a", "label Fire Ball", "desc burns things")
	assert.Equal(t, "Fire Ball", node(t, c, "a").Label)
	assert.True(t, c.Session().Dirty())

	require.NoError(t, c.Execute(context.Background(), "commit"))
	assert.False(t, c.Session().Dirty())
	assert.Equal(t, "Fire Ball", c.Session().Committed().Nodes[0].Label)
	assert.Equal(t, "burns things", c.Session().Committed().Nodes[0].Description)
}

func TestAttributes(t *testing.T) {
	c, out := newConsole(t)

	output := script(t, c, out,
		"add a",
		"attr add cost 3",
		"attr set cost 4",
		"attr rename cost price",
		"attr add price 9",
		"attr frob x",
	)

	assert.Equal(t, map[string]string{"price": "4"}, node(t, c, "a").Extras)
	assert.Contains(t, output, "Key already exists.")
	assert.Contains(t, output, "use add, rename, set or del")
}

func TestInspect(t *testing.T) {
	c, out := newConsole(t)

	output := script(t, c, out,
		"add a", "add b", "shape rect",
		"select a b",
		"inspect",
	)
	assert.Contains(t, output, "2: a, b")
	assert.Contains(t, output, "(mixed)")

	out.Reset()
	require.NoError(t, c.Execute(context.Background(), "select b"))
	require.NoError(t, c.Execute(context.Background(), "inspect"))
	assert.Contains(t, out.String(), "(none)")
	assert.Contains(t, out.String(), "rect")
}

func TestExecuteErrors(t *testing.T) {
	c, _ := newConsole(t)
	ctx := context.Background()

	err := c.Execute(ctx, "frobnicate")
	assert.True(t, errors.IsInvalidRequestError(err))

	err = c.Execute(ctx, `add "unterminated`)
	assert.True(t, errors.IsInvalidRequestError(err))

	err = c.Execute(ctx, "link a")
	assert.True(t, errors.IsInvalidRequestError(err))

	err = c.Execute(ctx, "role base")
	assert.True(t, errors.IsInvalidRequestError(err), "nothing selected")

	err = c.Execute(ctx, "link a b")
	assert.True(t, errors.IsNotFoundError(err))

	err = c.Execute(ctx, "save")
	assert.True(t, errors.IsInvalidRequestError(err), "no saver")

	assert.NoError(t, c.Execute(ctx, "   "))
	assert.NoError(t, c.Execute(ctx, "help"))
}

func TestSaveAndQuit(t *testing.T) {
	saver := &memorySaver{}
	c, out := newConsole(t, WithSaver(saver))

	output := script(t, c, out, "add a", "label Alpha", "save", "quit", "add never")

	require.Contains(t, saver.saves, "warrior")
	saved := saver.saves["warrior"]
	require.Len(t, saved.Nodes, 1)
	assert.Equal(t, "Alpha", saved.Nodes[0].Label, "save commits live edits")
	assert.True(t, c.Done())
	assert.True(t, c.Session().Closed())
	assert.Contains(t, output, "saved warrior")
	assert.NotContains(t, output, "Discard unsaved changes?")
}

func TestQuitWithUnsavedChanges(t *testing.T) {
	c, out := newConsole(t)
	output := script(t, c, out, "add a", "quit", "n")
	assert.Contains(t, output, "Discard unsaved changes?")
	assert.False(t, c.Done())

	c, out = newConsole(t)
	script(t, c, out, "add a", "quit", "y")
	assert.True(t, c.Done())
}

func TestRunAppliesReloadedConfig(t *testing.T) {
	c, out := newConsole(t)
	r, w := io.Pipe()
	reloads := make(chan editor.Config)
	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background(), r, reloads) }()

	cfg := editor.DefaultConfig()
	cfg.Policy = activation.AllParents
	cfg.HistoryLimit = 3
	select {
	case reloads <- cfg:
	case <-time.After(5 * time.Second):
		t.Fatal("console did not accept the reload")
	}

	_, err := io.WriteString(w, "quit\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("console did not stop")
	}
	assert.Equal(t, activation.AllParents, c.Session().Config().Policy)
	assert.Equal(t, 3, c.Session().Config().HistoryLimit)
	assert.Contains(t, out.String(), "configuration reloaded")
}

func TestRunStopsOnCancel(t *testing.T) {
	c, _ := newConsole(t)
	r, w := io.Pipe()
	defer w.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Run(ctx, r, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
