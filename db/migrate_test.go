package db

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenWithMigrations(t *testing.T) {
	t.Run("successfully opens database and runs migrations", func(t *testing.T) {
		tmpDir := t.TempDir()
		dbPath := filepath.Join(tmpDir, "test.db")

		db, err := OpenWithMigrations(dbPath, nil)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		for _, table := range []string{"schema_migrations", "trees"} {
			var exists int
			err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&exists)
			require.NoError(t, err)
			assert.Equal(t, 1, exists, "%s table should exist after migrations", table)
		}
	})

	t.Run("wraps migration errors with context", func(t *testing.T) {
		tmpDir := t.TempDir()
		dbPath := filepath.Join(tmpDir, "test.db")

		db, err := Open(dbPath, nil)
		require.NoError(t, err)
		_, err = db.Exec("CREATE TABLE schema_migrations (bad_schema TEXT)")
		require.NoError(t, err)
		db.Close()

		db, err = OpenWithMigrations(dbPath, nil)
		require.Error(t, err)
		assert.Nil(t, db)

		detailed := fmt.Sprintf("%+v", err)
		assert.Contains(t, detailed, "migrate")
		assert.Contains(t, detailed, "migrate.go", "stack should reference source file")
	})
}

func TestMigrate(t *testing.T) {
	t.Run("records every embedded migration", func(t *testing.T) {
		tmpDir := t.TempDir()
		db, err := Open(filepath.Join(tmpDir, "test.db"), nil)
		require.NoError(t, err)
		defer db.Close()

		before, err := AppliedVersions(db)
		require.NoError(t, err)
		assert.Empty(t, before)

		require.NoError(t, Migrate(db, nil))

		all, err := Migrations()
		require.NoError(t, err)
		require.NotEmpty(t, all)
		assert.Equal(t, "000", all[0].Version)

		applied, err := AppliedVersions(db)
		require.NoError(t, err)
		require.Len(t, applied, len(all))
		for i, m := range all {
			assert.Equal(t, m.Version, applied[i])
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		tmpDir := t.TempDir()
		db, err := Open(filepath.Join(tmpDir, "test.db"), nil)
		require.NoError(t, err)
		defer db.Close()

		require.NoError(t, Migrate(db, nil))
		require.NoError(t, Migrate(db, nil), "running migrations multiple times should be safe")
	})

	t.Run("fails on a closed database", func(t *testing.T) {
		tmpDir := t.TempDir()
		db, err := Open(filepath.Join(tmpDir, "test.db"), nil)
		require.NoError(t, err)
		db.Close()

		err = Migrate(db, nil)
		require.Error(t, err)
		assert.True(t, IsDatabaseClosed(err))
	})
}
