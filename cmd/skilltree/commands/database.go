package commands

import (
	"database/sql"

	"github.com/teranos/skilltree/am"
	"github.com/teranos/skilltree/db"
	"github.com/teranos/skilltree/editor"
	"github.com/teranos/skilltree/errors"
	"github.com/teranos/skilltree/logger"
)

// DBPath overrides database.path when set (the --db flag).
var DBPath string

// databasePath resolves the database file: --db, then configuration.
func databasePath() (string, error) {
	if DBPath != "" {
		return DBPath, nil
	}
	cfg, err := am.Load()
	if err != nil {
		return "", errors.Wrap(err, "failed to load configuration")
	}
	return cfg.GetDatabasePath(), nil
}

// openDatabase opens and migrates the configured database.
func openDatabase() (*sql.DB, error) {
	path, err := databasePath()
	if err != nil {
		return nil, err
	}
	database, err := db.OpenWithMigrations(path, logger.Logger)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database at %s", path)
	}
	return database, nil
}

// openTreeStore opens the tree library. The returned func closes it.
func openTreeStore() (*db.TreeStore, func(), error) {
	database, err := openDatabase()
	if err != nil {
		return nil, nil, err
	}
	return db.NewTreeStore(database, nil), func() { database.Close() }, nil
}

// sessionConfig reads the editor settings from configuration.
func sessionConfig() (editor.Config, error) {
	cfg, err := am.Load()
	if err != nil {
		return editor.Config{}, errors.Wrap(err, "failed to load configuration")
	}
	ec, err := cfg.SessionConfig()
	if err != nil {
		return editor.Config{}, errors.Wrap(err, "invalid configuration")
	}
	return ec, nil
}
