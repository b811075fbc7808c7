package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/skilltree/db"
	"github.com/teranos/skilltree/errors"
	"github.com/teranos/skilltree/logger"
	"github.com/teranos/skilltree/sym"
)

// DbCmd represents the db (database) command
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: sym.DB + " Manage the skilltree database",
	Long: sym.DB + ` db - Manage the skilltree database

Examples:
  skilltree db status             # Show path, schema version and tree count
  skilltree db migrate            # Apply pending schema migrations`,
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database path, migrations and tree count",
	Args:  cobra.NoArgs,
	RunE:  runDbStatus,
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Args:  cobra.NoArgs,
	RunE:  runDbMigrate,
}

func init() {
	DbCmd.AddCommand(dbStatusCmd)
	DbCmd.AddCommand(dbMigrateCmd)
}

func runDbStatus(cmd *cobra.Command, args []string) error {
	path, err := databasePath()
	if err != nil {
		return err
	}
	// Open without migrating so pending migrations stay visible
	database, err := db.Open(path, logger.Logger)
	if err != nil {
		return errors.Wrapf(err, "failed to open database at %s", path)
	}
	defer database.Close()

	all, err := db.Migrations()
	if err != nil {
		return err
	}
	applied, err := db.AppliedVersions(database)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s Database Status\n", sym.DB)
	fmt.Fprintf(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")
	fmt.Fprintf(out, "Database Path:  %s\n", path)
	fmt.Fprintf(out, "Migrations:     %d of %d applied\n", len(applied), len(all))

	if len(applied) < len(all) {
		fmt.Fprintln(out, "Trees:          (schema not current, run 'skilltree db migrate')")
		return nil
	}
	infos, err := db.NewTreeStore(database, nil).List(cmd.Context())
	if err != nil {
		return err
	}
	nodes := 0
	for _, info := range infos {
		nodes += info.Nodes
	}
	fmt.Fprintf(out, "Trees:          %d (%d nodes)\n", len(infos), nodes)
	return nil
}

func runDbMigrate(cmd *cobra.Command, args []string) error {
	database, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	applied, err := db.AppliedVersions(database)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Schema current (%d migrations)\n", sym.Commit, len(applied))
	return nil
}
