// Package am loads the skilltree configuration ("am" as in "I am configured
// like this") from TOML files and SKILLTREE_* environment variables.
package am

// Config represents the skilltree configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Editor   EditorConfig   `mapstructure:"editor"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig configures the SQLite tree library
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// EditorConfig configures editing sessions
type EditorConfig struct {
	ActivationPolicy string  `mapstructure:"activation_policy"` // "any" or "all"
	HistoryLimit     int     `mapstructure:"history_limit"`     // undo entries kept, 0 = unbounded
	PreviewRate      float64 `mapstructure:"preview_rate"`      // live redraws per second, 0 = unthrottled
	ConfirmDeletes   bool    `mapstructure:"confirm_deletes"`   // ask before deleting a single node
}

// DefaultsConfig holds field values for newly added nodes
type DefaultsConfig struct {
	Shape     string `mapstructure:"shape"`
	LinkStyle string `mapstructure:"link_style"`
	PolySides int    `mapstructure:"poly_sides"`
}

// LogConfig configures console logging
type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Theme string `mapstructure:"theme"` // plain or color
}

// File names and locations
const (
	ConfigFileName   = "am.toml"
	UserConfigDir    = ".skilltree"
	SystemConfigPath = "/etc/skilltree/config.toml"
	DefaultDBName    = "skilltree.db"
	EnvPrefix        = "SKILLTREE"
)

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)
