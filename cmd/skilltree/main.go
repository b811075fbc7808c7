package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/skilltree/am"
	"github.com/teranos/skilltree/cmd/skilltree/commands"
	"github.com/teranos/skilltree/logger"
)

var rootCmd = &cobra.Command{
	Use:   "skilltree",
	Short: "skilltree - Skill and technology tree editor",
	Long: `skilltree - Build and edit skill trees: nodes unlock once their
prerequisites are unlocked.

Available commands:
  tree    - Create, list, import, export and check stored trees
  edit    - Open a tree in the interactive editor
  am      - Manage skilltree configuration ("I am")
  db      - Show database status
  version - Show version information

Examples:
  skilltree tree new warrior        # Create an empty tree
  skilltree edit warrior            # Edit it interactively
  skilltree tree export warrior w.yaml
  skilltree am show                 # Show current configuration`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")

		jsonOutput := false
		if cfg, err := am.Load(); err == nil {
			jsonOutput = cfg.Log.JSON
			logger.SetTheme(cfg.GetLogTheme())
		}
		if err := logger.InitializeWithVerbosity(jsonOutput, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().StringVar(&commands.DBPath, "db", "", "Database path (overrides database.path)")

	rootCmd.AddCommand(commands.TreeCmd)
	rootCmd.AddCommand(commands.EditCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
