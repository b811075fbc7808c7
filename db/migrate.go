package db

import (
	"database/sql"
	"embed"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/skilltree/errors"
	"github.com/teranos/skilltree/logger"
	"github.com/teranos/skilltree/sym"
)

//go:embed sqlite/migrations/*.sql
var migrations embed.FS

const migrationsDir = "sqlite/migrations"

// Migration is one embedded schema step.
type Migration struct {
	Version string // numeric prefix, e.g. "001"
	File    string
}

// Migrations lists the embedded migrations in apply order.
// 000_create_schema_migrations.sql always sorts first.
func Migrations() ([]Migration, error) {
	entries, err := migrations.ReadDir(migrationsDir)
	if err != nil {
		return nil, errors.Wrap(err, "read migrations")
	}
	var out []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		out = append(out, Migration{
			Version: strings.SplitN(entry.Name(), "_", 2)[0],
			File:    entry.Name(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].File < out[j].File })
	return out, nil
}

// AppliedVersions returns the versions recorded in schema_migrations. A
// database that was never migrated has none.
func AppliedVersions(db *sql.DB) ([]string, error) {
	var tables int
	if err := db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_migrations'",
	).Scan(&tables); err != nil {
		return nil, errors.Wrap(err, "inspect schema")
	}
	if tables == 0 {
		return nil, nil
	}

	rows, err := db.Query("SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, errors.Wrap(err, "query schema_migrations")
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, errors.Wrap(err, "scan version")
		}
		versions = append(versions, v)
	}
	return versions, errors.Wrap(rows.Err(), "iterate schema_migrations")
}

// Migrate runs all pending migrations, each in its own transaction.
// If log is provided, logs migration progress; otherwise operates silently.
func Migrate(db *sql.DB, log *zap.SugaredLogger) error {
	all, err := Migrations()
	if err != nil {
		return err
	}
	applied, err := AppliedVersions(db)
	if err != nil {
		return err
	}
	done := make(map[string]struct{}, len(applied))
	for _, v := range applied {
		done[v] = struct{}{}
	}
	if len(done) == 0 && len(all) > 0 && all[0].Version != "000" {
		return errors.Newf("schema_migrations table missing, but first migration is not 000: %s", all[0].File)
	}

	ran := 0
	for _, m := range all {
		if _, ok := done[m.Version]; ok {
			if log != nil {
				log.Debugw("Skipping migration (already applied)",
					"migration", m.File,
					"version", m.Version,
				)
			}
			continue
		}
		if err := apply(db, m); err != nil {
			return err
		}
		ran++
		if log != nil {
			log.Infow("Applied migration",
				"migration", m.File,
				"version", m.Version,
			)
		}
	}

	if log != nil {
		log.Infow("Migrations complete",
			logger.FieldSymbol, sym.DB,
			"total_migrations", len(all),
			"applied_now", ran,
		)
	}
	return nil
}

func apply(db *sql.DB, m Migration) error {
	body, err := migrations.ReadFile(path.Join(migrationsDir, m.File))
	if err != nil {
		return errors.Wrapf(err, "read %s", m.File)
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrapf(err, "begin tx for %s", m.File)
	}
	if _, err := tx.Exec(string(body)); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "execute %s", m.File)
	}
	// 000 creates the table, then records itself
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.Version); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "record %s", m.File)
	}
	return errors.Wrapf(tx.Commit(), "commit %s", m.File)
}
