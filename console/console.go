// Package console is the interactive tree editor behind `skilltree edit`.
//
// A Console owns one editor session. Command lines are split with shell
// quoting rules and dispatched to session operations. Stdin lines and config
// reloads arrive on channels and are handled one at a time in Run, so the
// session is only ever touched from that loop.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/teranos/skilltree/editor"
	"github.com/teranos/skilltree/errors"
	"github.com/teranos/skilltree/graph"
	grapherror "github.com/teranos/skilltree/graph/error"
	"github.com/teranos/skilltree/history"
	"github.com/teranos/skilltree/logger"
	"github.com/teranos/skilltree/sym"
)

// TreeSaver persists the edited tree. db.TreeStore satisfies it.
type TreeSaver interface {
	Save(ctx context.Context, name string, snap graph.Snapshot) error
}

// Console is one interactive editing session.
type Console struct {
	name    string
	session *editor.Session
	saver   TreeSaver
	out     io.Writer
	logger  *zap.SugaredLogger

	lines   chan string
	saved   graph.Snapshot
	changed bool // a render was requested since the last status line
	done    bool
}

// Option configures a Console.
type Option func(*Console)

// WithOutput sets where rendering and prompts are written (default stdout).
func WithOutput(w io.Writer) Option {
	return func(c *Console) {
		c.out = w
	}
}

// WithSaver enables the save command.
func WithSaver(s TreeSaver) Option {
	return func(c *Console) {
		c.saver = s
	}
}

// WithLogger sets the console logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Console) {
		if log != nil {
			c.logger = log
		}
	}
}

// New opens snap for editing under name.
func New(name string, snap graph.Snapshot, cfg editor.Config, opts ...Option) (*Console, error) {
	c := &Console{
		name:   name,
		out:    os.Stdout,
		logger: logger.AddSymbol(logger.ComponentLogger("console"), sym.Tree),
	}
	for _, opt := range opts {
		opt(c)
	}

	session, err := editor.Open(snap,
		editor.WithConfig(cfg),
		editor.WithLogger(c.logger),
		editor.WithRenderer(func() { c.changed = true }),
		editor.WithConfirmer(c.confirm),
	)
	if err != nil {
		return nil, err
	}
	c.session = session
	c.saved = session.Committed()
	return c, nil
}

// Session exposes the underlying editing session.
func (c *Console) Session() *editor.Session { return c.session }

// Done reports whether quit was accepted.
func (c *Console) Done() bool { return c.done }

// Unsaved reports whether the committed tree differs from the last save.
func (c *Console) Unsaved() bool {
	return !history.Equal(c.saved, c.session.Committed())
}

// Run reads commands from in until quit, end of input or ctx cancellation.
// Configurations received on reloads are applied between commands.
func (c *Console) Run(ctx context.Context, in io.Reader, reloads <-chan editor.Config) error {
	c.lines = make(chan string)
	go c.readLines(ctx, in)

	fmt.Fprintf(c.out, "%s editing %s (%d nodes). Type help for commands.\n",
		sym.Tree, c.name, len(c.session.Nodes()))
	c.prompt()
	for !c.done {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case line, ok := <-c.lines:
			if !ok {
				return nil
			}
			c.Execute(ctx, line)
			if !c.done {
				c.prompt()
			}

		case cfg := <-reloads:
			if err := c.session.Reconfigure(cfg); err != nil {
				c.fail(err)
				continue
			}
			c.notice(sym.AM, "configuration reloaded (policy %s, history %d)", cfg.Policy, cfg.HistoryLimit)
			c.flush()
		}
	}
	return nil
}

func (c *Console) readLines(ctx context.Context, in io.Reader) {
	defer close(c.lines)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case c.lines <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		c.logger.Warnw("Input read failed", logger.FieldError, err)
	}
}

// Execute runs a single command line. Errors are printed and returned.
func (c *Console) Execute(ctx context.Context, line string) error {
	args, err := shellquote.Split(line)
	if err != nil {
		err = errors.WithHint(errors.NewInvalidRequestError("cannot parse %q: %v", line, err),
			"check for an unclosed quote")
		c.fail(err)
		return err
	}
	if len(args) == 0 {
		return nil
	}

	name := strings.ToLower(args[0])
	cmd, ok := commands[name]
	if !ok {
		err := errors.WithHint(errors.NewInvalidRequestError("unknown command %q", name),
			"type help for the list of commands")
		c.fail(err)
		return err
	}
	if len(args)-1 < cmd.minArgs {
		err := errors.WithHintf(errors.NewInvalidRequestError("%s needs more arguments", name),
			"usage: %s", cmd.usage)
		c.fail(err)
		return err
	}

	c.logger.Debugw("Command", logger.FieldOperation, name, "args", len(args)-1)
	if err := cmd.run(ctx, c, args[1:]); err != nil {
		c.fail(err)
		return err
	}
	c.flush()
	return nil
}

// confirm asks on the output and reads the answer from the next input line.
func (c *Console) confirm(message string) bool {
	c.question(message)
	if c.lines == nil {
		return false
	}
	answer, ok := <-c.lines
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// fail prints err in user terms. Anything that is not a user error is also
// logged.
func (c *Console) fail(err error) {
	ge := grapherror.Classify(err)
	c.errorLine(ge.ToUIMessage(), err.Error())
	if !ge.IsUserError() {
		c.logger.Errorw("Command failed", ge.ToLogFields()...)
	}
}

// flush prints the status line once after any number of renders.
func (c *Console) flush() {
	if !c.changed {
		return
	}
	c.changed = false
	c.status()
}

// target is the node single-node commands act on: the explicit id argument
// when given, else the primary selection.
func (c *Console) target(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if id, ok := c.session.Selection().Primary(); ok {
		return id, nil
	}
	return "", errors.WithHint(errors.NewInvalidRequestError("nothing selected"),
		"select a node first: select <id>")
}

// bulk reports whether selection-wide commands should use the bulk editors.
func (c *Console) bulk() bool {
	return c.session.Selection().Len() > 1
}
