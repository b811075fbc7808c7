package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teranos/skilltree/errors"
	"github.com/teranos/skilltree/graph"
)

func setupTreeStore(t *testing.T) *TreeStore {
	t.Helper()
	db, err := OpenWithMigrations(filepath.Join(t.TempDir(), "trees.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTreeStore(db, zap.NewNop().Sugar())
}

func sampleTree() graph.Snapshot {
	return graph.Snapshot{
		Nodes: []graph.Node{
			{ID: "root", Role: graph.RoleBase, IsActive: true, Shape: graph.ShapeCircle, LinkStyle: graph.LinkCurve},
			{ID: "leaf", Shape: graph.ShapePoly, PolySides: 5, LinkStyle: graph.LinkElbow,
				Extras: map[string]string{"cost": "2"}},
		},
		Edges: []graph.Edge{{From: "root", To: "leaf", Style: graph.LinkElbow}},
	}
}

func TestTreeStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	store := setupTreeStore(t)

	require.NoError(t, store.Save(ctx, " warrior ", sampleTree()))

	got, err := store.Load(ctx, "warrior")
	require.NoError(t, err)
	assert.Equal(t, sampleTree().Edges, got.Edges)
	require.Len(t, got.Nodes, 2)
	assert.Equal(t, "leaf", got.Nodes[1].ID)
	assert.Equal(t, 5, got.Nodes[1].PolySides)
	assert.Equal(t, "2", got.Nodes[1].Extras["cost"])

	exists, err := store.Exists(ctx, "warrior")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestTreeStoreSaveReplaces(t *testing.T) {
	ctx := context.Background()
	store := setupTreeStore(t)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return created }
	require.NoError(t, store.Save(ctx, "mage", sampleTree()))

	store.now = func() time.Time { return created.Add(time.Hour) }
	smaller := graph.Snapshot{Nodes: []graph.Node{{ID: "only"}}}
	require.NoError(t, store.Save(ctx, "mage", smaller))

	infos, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, 1, infos[0].Nodes)
	assert.Equal(t, 0, infos[0].Edges)
	assert.True(t, infos[0].CreatedAt.Equal(created), "created timestamp survives updates")
	assert.True(t, infos[0].UpdatedAt.Equal(created.Add(time.Hour)))
}

func TestTreeStoreList(t *testing.T) {
	ctx := context.Background()
	store := setupTreeStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, name := range []string{"a", "b", "c"} {
		at := base.Add(time.Duration(i) * time.Minute)
		store.now = func() time.Time { return at }
		require.NoError(t, store.Save(ctx, name, sampleTree()))
	}

	infos, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, "c", infos[0].Name, "most recently updated first")
	assert.Equal(t, 2, infos[0].Nodes)
	assert.Equal(t, 1, infos[0].Edges)
	assert.Equal(t, 1, infos[0].Active)
}

func TestTreeStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := setupTreeStore(t)

	_, err := store.Load(ctx, "ghost")
	assert.True(t, errors.Is(err, ErrTreeNotFound))
	assert.True(t, errors.IsNotFoundError(err))

	err = store.Delete(ctx, "ghost")
	assert.True(t, errors.Is(err, ErrTreeNotFound))

	_, err = store.Load(ctx, "   ")
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestTreeStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := setupTreeStore(t)
	require.NoError(t, store.Save(ctx, "rogue", sampleTree()))

	require.NoError(t, store.Delete(ctx, "rogue"))

	exists, err := store.Exists(ctx, "rogue")
	require.NoError(t, err)
	assert.False(t, exists)
}

// Minimal sqlmock tests to verify failure handling and SQL structure

func TestTreeStoreSave_Sqlmock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewTreeStore(db, zap.NewNop().Sugar())
	mock.ExpectExec("INSERT INTO trees").
		WithArgs("paladin", sqlmock.AnyArg(), 2, 1, 1, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(sql.ErrConnDone)

	err = store.Save(context.Background(), "paladin", sampleTree())

	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrConnDone))
	assert.Contains(t, err.Error(), "save tree paladin")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTreeStoreLoad_SqlmockCorruptDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewTreeStore(db, zap.NewNop().Sugar())
	mock.ExpectQuery("SELECT document FROM trees").
		WithArgs("druid").
		WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow("{not json"))

	_, err = store.Load(context.Background(), "druid")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `decode tree "druid"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTreeStoreDelete_SqlmockClosed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewTreeStore(db, zap.NewNop().Sugar())
	mock.ExpectExec("DELETE FROM trees").
		WithArgs("bard").
		WillReturnError(errString("sql: database is closed"))

	err = store.Delete(context.Background(), "bard")

	assert.True(t, errors.Is(err, ErrDatabaseClosed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTreeStoreList_SqlmockCorruptTimestamp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewTreeStore(db, zap.NewNop().Sugar())
	mock.ExpectQuery("SELECT name, node_count").
		WillReturnRows(sqlmock.NewRows([]string{"name", "node_count", "edge_count", "active_count", "created_at", "updated_at"}).
			AddRow("monk", 1, 0, 0, "2026-03-01T12:00:00.000000000Z", "yesterday"))

	infos, err := store.List(context.Background())

	require.Error(t, err)
	assert.Nil(t, infos)
	assert.Contains(t, err.Error(), `tree "monk" has a corrupt updated_at`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
