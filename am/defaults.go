package am

import (
	"fmt"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.path", DefaultDBName)

	// Editor defaults
	v.SetDefault("editor.activation_policy", "any")
	v.SetDefault("editor.history_limit", 200)
	v.SetDefault("editor.preview_rate", 30.0)
	v.SetDefault("editor.confirm_deletes", true)

	// New node defaults
	v.SetDefault("defaults.shape", "circle")
	v.SetDefault("defaults.link_style", "curve")
	v.SetDefault("defaults.poly_sides", 6)

	// Logging defaults
	v.SetDefault("log.json", false)
	v.SetDefault("log.theme", "plain")
}

// BindSensitiveEnvVars explicitly binds configuration that is commonly
// overridden per shell to environment variables
func BindSensitiveEnvVars(v *viper.Viper) {
	v.BindEnv("database.path", EnvPrefix+"_DATABASE_PATH")
	v.BindEnv("log.json", EnvPrefix+"_LOG_JSON")
}

// GetDatabasePath returns the configured database path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return DefaultDBName // Fallback default
	}
	return c.Database.Path
}

// GetLogTheme returns the console log theme (default: plain)
func (c *Config) GetLogTheme() string {
	if c.Log.Theme == "" {
		return "plain"
	}
	return c.Log.Theme
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Database: %s, Editor: {Policy: %s, HistoryLimit: %d}, Defaults: {Shape: %s}}",
		c.Database.Path, c.Editor.ActivationPolicy, c.Editor.HistoryLimit, c.Defaults.Shape)
}
