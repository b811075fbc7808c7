package am

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/teranos/skilltree/errors"
	"github.com/teranos/skilltree/logger"
	"github.com/teranos/skilltree/sym"
)

// createBackup creates rotating backups (.back1, .back2, .back3) before modifying config
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil // No file to backup
	}

	// Rotate backups: .back3 -> delete, .back2 -> .back3, .back1 -> .back2, current -> .back1
	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		logger.Warnw("Failed to delete old config backup", logger.FieldPath, back3, logger.FieldError, err)
	}
	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}
	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(back1, content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}

// loadOrInitializeUserConfig loads ~/.skilltree/am.toml as a raw tree, or an
// empty one if it doesn't exist
func loadOrInitializeUserConfig() (map[string]interface{}, string, error) {
	configPath := UserConfigPath()
	if configPath == "" {
		return nil, "", errors.New("could not determine home directory")
	}
	if err := os.MkdirAll(filepath.Dir(configPath), DefaultDirPermissions); err != nil {
		return nil, "", errors.Wrapf(err, "failed to create %s directory", UserConfigDir)
	}

	config := make(map[string]interface{})
	if data, err := os.ReadFile(configPath); err == nil {
		if err := toml.Unmarshal(data, &config); err != nil {
			return nil, "", errors.Wrapf(err, "failed to parse %s", configPath)
		}
	}
	return config, configPath, nil
}

// saveUserConfig writes the config with backup
func saveUserConfig(config map[string]interface{}, configPath string) error {
	if err := createBackup(configPath); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	// Mark this as our own write to prevent reload loops
	if w := GetGlobalWatcher(); w != nil {
		w.MarkOwnWrite()
	}

	if err := os.WriteFile(configPath, data, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to write user config")
	}
	return nil
}

// parseValue converts raw to the type of the key's default value. Unknown
// keys are rejected.
func parseValue(key, raw string) (interface{}, error) {
	defaults := viper.New()
	SetDefaults(defaults)
	if !defaults.IsSet(key) {
		return nil, errors.WithHint(errors.NewNotFoundError("unknown config key %q", key),
			"run 'skilltree am show' to list keys")
	}

	raw = strings.TrimSpace(raw)
	switch defaults.Get(key).(type) {
	case bool:
		b, err := strconv.ParseBool(raw)
		return b, errors.Wrapf(err, "%s expects true or false", key)
	case int:
		n, err := strconv.Atoi(raw)
		return n, errors.Wrapf(err, "%s expects an integer", key)
	case float64:
		f, err := strconv.ParseFloat(raw, 64)
		return f, errors.Wrapf(err, "%s expects a number", key)
	default:
		return raw, nil
	}
}

// SetUserValue stores key = raw in ~/.skilltree/am.toml. The resulting
// configuration is validated before anything is written. Returns the file
// path written.
func SetUserValue(key, raw string) (string, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	value, err := parseValue(key, raw)
	if err != nil {
		return "", err
	}

	config, configPath, err := loadOrInitializeUserConfig()
	if err != nil {
		return "", errors.Wrap(err, "failed to load user config")
	}
	setNested(config, strings.Split(key, "."), value)

	// Validate the user file layered over defaults
	v := viper.New()
	SetDefaults(v)
	if err := v.MergeConfigMap(config); err != nil {
		return "", errors.Wrap(err, "failed to merge user config")
	}
	cfg, err := LoadWithViper(v)
	if err != nil {
		return "", err
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	if err := saveUserConfig(config, configPath); err != nil {
		return "", err
	}
	logger.WithSymbol(sym.AM).Infow("Config value saved",
		logger.FieldKey, key,
		logger.FieldPath, configPath,
	)
	return configPath, nil
}

// setNested assigns value at the dotted path, creating tables as needed.
func setNested(config map[string]interface{}, path []string, value interface{}) {
	for _, section := range path[:len(path)-1] {
		next, ok := config[section].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			config[section] = next
		}
		config = next
	}
	config[path[len(path)-1]] = value
}
