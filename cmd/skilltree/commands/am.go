package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/skilltree/am"
	"github.com/teranos/skilltree/errors"
	"github.com/teranos/skilltree/sym"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: sym.AM + " Manage skilltree configuration",
	Long: sym.AM + ` am - Manage skilltree configuration ("I am")

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (SKILLTREE_* prefix)
3. Project config (./am.toml, searched up from the working directory)
4. User config (~/.skilltree/am.toml)
5. System config (/etc/skilltree/config.toml)
6. Default values

Examples:
  skilltree am show                         # Show current configuration
  skilltree am show --format json           # Show configuration in JSON format
  skilltree am get editor.activation_policy # Get specific config value
  skilltree am set editor.history_limit 50  # Write to ~/.skilltree/am.toml
  skilltree am validate                     # Validate current configuration`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the effective skilltree configuration from all sources",
	Args:  cobra.NoArgs,
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., database.path, editor.history_limit)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value in the user configuration",
	Long: `Write a configuration value to ~/.skilltree/am.toml. The previous file is
kept as am.toml.back1 (up to three backups). Running editors pick up the
change without a restart.`,
	Args: cobra.ExactArgs(2),
	RunE: runAmSet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Args:  cobra.NoArgs,
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	Long: `Show the configuration cascade, the files that were merged, and the
source of every effective setting.`,
	Args: cobra.NoArgs,
	RunE: runAmWhere,
}

var configFormat string

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amSetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	if _, err := am.Load(); err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	settings := am.GetViper().AllSettings()
	out := cmd.OutOrStdout()

	switch configFormat {
	case "json":
		data, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(out, string(data))

	case "yaml":
		data, err := yaml.Marshal(settings)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(out, "# skilltree configuration\n%s", string(data))

	case "toml":
		data, err := toml.Marshal(settings)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(out, "# skilltree configuration\n%s", string(data))

	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", configFormat)
	}
	return nil
}

func runAmGet(cmd *cobra.Command, args []string) error {
	if _, err := am.Load(); err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	key := args[0]
	if !am.GetViper().IsSet(key) {
		return errors.WithHint(errors.NewNotFoundError("configuration key %q not found", key),
			"run 'skilltree am show' to list every key")
	}
	fmt.Fprintln(cmd.OutOrStdout(), am.Get(key))
	return nil
}

func runAmSet(cmd *cobra.Command, args []string) error {
	path, err := am.SetUserValue(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s (%s)\n", sym.AM, args[0], args[1], path)
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	if _, err := am.Load(); err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	intro := am.GetConfigIntrospection()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  1. [DEFAULT]  Built-in defaults")
	fmt.Fprintf(out, "  2. [SYSTEM]   %s\n", am.SystemConfigPath)
	fmt.Fprintf(out, "  3. [USER]     ~/%s/%s\n", am.UserConfigDir, am.ConfigFileName)
	fmt.Fprintf(out, "  4. [PROJECT]  ./%s (searches up directories)\n", am.ConfigFileName)
	fmt.Fprintf(out, "  5. [ENV]      %s_* environment variables\n", am.EnvPrefix)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Files merged:")
	if len(intro.Files) == 0 {
		fmt.Fprintln(out, "  (none, using defaults)")
	}
	for _, f := range intro.Files {
		fmt.Fprintf(out, "  [%s] %s\n", f.Source, f.Path)
	}
	fmt.Fprintln(out)

	// Group settings by source, in cascade order
	order := []am.ConfigSource{am.SourceDefault, am.SourceSystem, am.SourceUser, am.SourceProject, am.SourceEnvironment}
	bySource := make(map[am.ConfigSource][]am.SettingInfo)
	for _, s := range intro.Settings {
		bySource[s.Source] = append(bySource[s.Source], s)
	}

	fmt.Fprintln(out, "Active configuration:")
	for _, source := range order {
		settings := bySource[source]
		if len(settings) == 0 {
			continue
		}
		fmt.Fprintf(out, "  [%s]\n", source)
		for _, s := range settings {
			if s.SourcePath != "" && source != am.SourceDefault {
				fmt.Fprintf(out, "    %s = %v  (%s)\n", s.Key, s.Value, s.SourcePath)
			} else {
				fmt.Fprintf(out, "    %s = %v\n", s.Key, s.Value)
			}
		}
	}
	return nil
}
