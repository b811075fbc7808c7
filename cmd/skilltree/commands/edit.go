package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/skilltree/am"
	"github.com/teranos/skilltree/console"
	"github.com/teranos/skilltree/db"
	"github.com/teranos/skilltree/editor"
	"github.com/teranos/skilltree/errors"
	"github.com/teranos/skilltree/graph"
	"github.com/teranos/skilltree/logger"
	"github.com/teranos/skilltree/sym"
)

// EditCmd opens the interactive editor
var EditCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: sym.Node + " Edit a tree interactively",
	Long: sym.Node + ` edit - Edit a tree interactively

Opens the named tree (or a new, empty one) in a line-based editor. Type
'help' at the prompt for the command list and 'save' to store the tree.
Changes to am.toml are applied to the running session.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	name := args[0]
	cfg, err := sessionConfig()
	if err != nil {
		return err
	}

	store, closeStore, err := openTreeStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snap, err := store.Load(ctx, name)
	if errors.Is(err, db.ErrTreeNotFound) {
		snap = graph.Snapshot{}
	} else if err != nil {
		return err
	}

	reloads := watchConfig(ctx)

	c, err := console.New(name, snap, cfg,
		console.WithSaver(store),
		console.WithOutput(cmd.OutOrStdout()),
	)
	if err != nil {
		return err
	}
	return c.Run(ctx, cmd.InOrStdin(), reloads)
}

// watchConfig streams validated editor settings whenever a merged config
// file changes. It returns nil when no config file exists to watch.
func watchConfig(ctx context.Context) <-chan editor.Config {
	log := logger.AddSymbol(logger.ComponentLogger("edit"), sym.AM)

	var paths []string
	for _, f := range am.ConfigFiles() {
		paths = append(paths, f.Path)
	}
	if len(paths) == 0 {
		log.Debugw("No config files, hot reload disabled")
		return nil
	}
	watcher, err := am.NewConfigWatcher(paths...)
	if err != nil {
		log.Warnw("Config hot reload disabled", logger.FieldError, err)
		return nil
	}

	reloads := make(chan editor.Config)
	watcher.OnReload(func(cfg *am.Config) error {
		ec, err := cfg.SessionConfig()
		if err != nil {
			return err
		}
		select {
		case reloads <- ec:
		case <-ctx.Done():
		}
		return nil
	})
	am.SetGlobalWatcher(watcher)
	watcher.Start()

	go func() {
		<-ctx.Done()
		watcher.Stop()
		am.SetGlobalWatcher(nil)
	}()
	return reloads
}
