package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/skilltree/activation"
	"github.com/teranos/skilltree/console"
	"github.com/teranos/skilltree/db"
	"github.com/teranos/skilltree/editor"
	"github.com/teranos/skilltree/errors"
	"github.com/teranos/skilltree/exchange"
	"github.com/teranos/skilltree/graph"
	"github.com/teranos/skilltree/logger"
	"github.com/teranos/skilltree/sym"
)

// TreeCmd represents the tree command
var TreeCmd = &cobra.Command{
	Use:   "tree",
	Short: sym.Tree + " Manage stored skill trees",
	Long: sym.Tree + ` tree - Manage stored skill trees

Trees are stored by name in the skilltree database (database.path).

Examples:
  skilltree tree new warrior                  # Create an empty tree
  skilltree tree list                         # List stored trees
  skilltree tree show warrior                 # Print the nodes of a tree
  skilltree tree export warrior w.toml        # Write a tree to a file
  skilltree tree import w.yaml mage           # Store a file as tree "mage"
  skilltree tree check warrior --fix          # Repair activation violations`,
}

var treeNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create an empty tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runTreeNew,
}

var treeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored trees",
	Args:  cobra.NoArgs,
	RunE:  runTreeList,
}

var treeShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print the nodes of a tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runTreeShow,
}

var treeExportCmd = &cobra.Command{
	Use:   "export <name> [file]",
	Short: sym.Exchange + " Write a tree as JSON, YAML or TOML",
	Long:  "Write a stored tree to a file, or to stdout when no file is given. The format follows the file extension unless --format is set.",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runTreeExport,
}

var treeImportCmd = &cobra.Command{
	Use:   "import <file> [name]",
	Short: sym.Exchange + " Store a JSON, YAML or TOML tree",
	Long: `Read a tree document and store it. The name defaults to the document's
name, then the file name. Nodes that break the activation policy are
deactivated before saving.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runTreeImport,
}

var treeDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a stored tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runTreeDelete,
}

var treeCheckCmd = &cobra.Command{
	Use:   "check <name>",
	Short: "Report nodes that break the activation policy",
	Args:  cobra.ExactArgs(1),
	RunE:  runTreeCheck,
}

var (
	treeForce  bool
	treeFormat string
	treeFix    bool
)

func init() {
	treeNewCmd.Flags().BoolVar(&treeForce, "force", false, "Replace an existing tree")
	treeImportCmd.Flags().BoolVar(&treeForce, "force", false, "Replace an existing tree")
	treeExportCmd.Flags().StringVar(&treeFormat, "format", "", "Output format: json, yaml, toml")
	treeImportCmd.Flags().StringVar(&treeFormat, "format", "", "Input format: json, yaml, toml")
	treeCheckCmd.Flags().BoolVar(&treeFix, "fix", false, "Deactivate offending nodes and save")

	TreeCmd.AddCommand(treeNewCmd)
	TreeCmd.AddCommand(treeListCmd)
	TreeCmd.AddCommand(treeShowCmd)
	TreeCmd.AddCommand(treeExportCmd)
	TreeCmd.AddCommand(treeImportCmd)
	TreeCmd.AddCommand(treeDeleteCmd)
	TreeCmd.AddCommand(treeCheckCmd)
}

func runTreeNew(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openTreeStore()
	if err != nil {
		return err
	}
	defer closeStore()

	name := args[0]
	if err := refuseOverwrite(cmd, store, name); err != nil {
		return err
	}
	if err := store.Save(cmd.Context(), name, graph.Snapshot{}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Created tree %s\n", sym.Commit, name)
	return nil
}

func runTreeList(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openTreeStore()
	if err != nil {
		return err
	}
	defer closeStore()

	infos, err := store.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No trees stored yet. Create one with: skilltree tree new <name>")
		return nil
	}

	data := pterm.TableData{{"name", "nodes", "edges", "active", "updated"}}
	for _, info := range infos {
		data = append(data, []string{
			info.Name,
			fmt.Sprint(info.Nodes),
			fmt.Sprint(info.Edges),
			fmt.Sprint(info.Active),
			info.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func runTreeShow(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openTreeStore()
	if err != nil {
		return err
	}
	defer closeStore()

	snap, err := store.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	g, err := graph.FromSnapshot(snap)
	if err != nil {
		return errors.Wrapf(err, "tree %s is corrupt", args[0])
	}
	return console.WriteTree(cmd.OutOrStdout(), g.Nodes(), g.ParentsOf, nil)
}

func runTreeExport(cmd *cobra.Command, args []string) error {
	target := "-"
	if len(args) == 2 {
		target = args[1]
	}
	format, err := pickFormat(target)
	if err != nil {
		return err
	}

	store, closeStore, err := openTreeStore()
	if err != nil {
		return err
	}
	defer closeStore()

	snap, err := store.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	doc := exchange.NewDocument(args[0], snap)

	if target == "-" {
		return exchange.Export(cmd.OutOrStdout(), doc, format)
	}
	f, err := os.Create(target)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", target)
	}
	if err := exchange.Export(f, doc, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "failed to write %s", target)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s Exported %s to %s (%s)\n", sym.Exchange, args[0], target, format)
	return nil
}

func runTreeImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	format, err := pickFormat(path)
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "failed to open %s", path)
		}
		defer f.Close()
		in = f
	}
	doc, err := exchange.Import(in, format)
	if err != nil {
		return errors.Wrapf(err, "failed to import %s", path)
	}

	name := doc.Name
	if len(args) == 2 {
		name = args[1]
	}
	if strings.TrimSpace(name) == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	cfg, err := sessionConfig()
	if err != nil {
		return err
	}
	session, err := editor.Open(doc.Snapshot(), editor.WithConfig(cfg))
	if err != nil {
		return err
	}
	defer session.Close()

	store, closeStore, err := openTreeStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := refuseOverwrite(cmd, store, name); err != nil {
		return err
	}
	snap := session.Committed()
	if err := store.Save(cmd.Context(), name, snap); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Imported %s (%d nodes, %d edges)\n", sym.Exchange, name, len(snap.Nodes), len(snap.Edges))
	return nil
}

func runTreeDelete(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openTreeStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted tree %s\n", sym.Commit, args[0])
	return nil
}

func runTreeCheck(cmd *cobra.Command, args []string) error {
	cfg, err := sessionConfig()
	if err != nil {
		return err
	}
	store, closeStore, err := openTreeStore()
	if err != nil {
		return err
	}
	defer closeStore()

	name := args[0]
	snap, err := store.Load(cmd.Context(), name)
	if err != nil {
		return err
	}
	g, err := graph.FromSnapshot(snap)
	if err != nil {
		return errors.Wrapf(err, "tree %s is corrupt", name)
	}

	engine := activation.NewEngine(g, cfg.Policy, logger.ComponentLogger("check"))
	violations := engine.Violations()
	out := cmd.OutOrStdout()
	if len(violations) == 0 {
		fmt.Fprintf(out, "%s %s is consistent (%d nodes, policy %s)\n", sym.Commit, name, g.Len(), cfg.Policy)
		return nil
	}

	fmt.Fprintf(out, "%s %d active nodes break the %q policy: %s\n",
		sym.Locked, len(violations), cfg.Policy, strings.Join(violations, ", "))
	if !treeFix {
		return errors.WithHint(errors.Newf("tree %s has %d activation violations", name, len(violations)),
			"rerun with --fix to deactivate them")
	}

	n := engine.Normalize()
	if err := store.Save(cmd.Context(), name, g.Snapshot()); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s Deactivated %d nodes and saved %s\n", sym.Commit, n, name)
	return nil
}

// pickFormat honours --format, else the file extension. "-" (stdin/stdout)
// defaults to JSON.
func pickFormat(path string) (exchange.Format, error) {
	if treeFormat != "" {
		return exchange.ParseFormat(treeFormat)
	}
	if path == "-" {
		return exchange.FormatJSON, nil
	}
	return exchange.FormatFromPath(path)
}

func refuseOverwrite(cmd *cobra.Command, store *db.TreeStore, name string) error {
	if treeForce {
		return nil
	}
	exists, err := store.Exists(cmd.Context(), name)
	if err != nil {
		return err
	}
	if exists {
		return errors.WithHintf(errors.Newf("tree %s already exists", name),
			"pass --force to replace it, or 'skilltree tree delete %s' first", name)
	}
	return nil
}
