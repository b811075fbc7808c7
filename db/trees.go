package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/skilltree/errors"
	"github.com/teranos/skilltree/graph"
	"github.com/teranos/skilltree/logger"
	"github.com/teranos/skilltree/sym"
)

// TreeInfo is a listing entry.
type TreeInfo struct {
	Name      string
	Nodes     int
	Edges     int
	Active    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// TreeStore persists whole trees as JSON documents, one row per tree name.
type TreeStore struct {
	db     *sql.DB
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewTreeStore wraps an open, migrated database. log may be nil.
func NewTreeStore(db *sql.DB, log *zap.SugaredLogger) *TreeStore {
	if log == nil {
		log = logger.AddSymbol(logger.ComponentLogger("db"), sym.DB)
	}
	return &TreeStore{db: db, logger: log, now: time.Now}
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.WithHint(errors.NewInvalidRequestError("tree name is empty"),
			"pass a tree name, e.g. skilltree edit warrior")
	}
	return name, nil
}

// Save stores snap under name, replacing any previous version. The created
// timestamp of an existing tree is kept.
func (s *TreeStore) Save(ctx context.Context, name string, snap graph.Snapshot) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	doc, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrapf(err, "encode tree %q", name)
	}

	active := 0
	for _, n := range snap.Nodes {
		if n.IsActive {
			active++
		}
	}
	ts := s.now().UTC().Format(timeLayout)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO trees (name, document, node_count, edge_count, active_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			document = excluded.document,
			node_count = excluded.node_count,
			edge_count = excluded.edge_count,
			active_count = excluded.active_count,
			updated_at = excluded.updated_at`,
		name, string(doc), len(snap.Nodes), len(snap.Edges), active, ts, ts)
	if err != nil {
		return wrapClosed(err, "save tree "+name)
	}

	s.logger.Debugw("Saved tree",
		logger.FieldTree, name,
		logger.FieldCount, len(snap.Nodes),
	)
	return nil
}

// Load returns the stored tree. Unknown names yield ErrTreeNotFound.
func (s *TreeStore) Load(ctx context.Context, name string) (graph.Snapshot, error) {
	name, err := cleanName(name)
	if err != nil {
		return graph.Snapshot{}, err
	}

	var doc string
	err = s.db.QueryRowContext(ctx, "SELECT document FROM trees WHERE name = ?", name).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return graph.Snapshot{}, errors.WithHint(errors.Wrapf(ErrTreeNotFound, "%q", name),
			"run 'skilltree tree list' to see saved trees")
	}
	if err != nil {
		return graph.Snapshot{}, wrapClosed(err, "load tree "+name)
	}

	var snap graph.Snapshot
	if err := json.Unmarshal([]byte(doc), &snap); err != nil {
		return graph.Snapshot{}, errors.Wrapf(err, "decode tree %q", name)
	}
	return snap, nil
}

// Exists reports whether a tree is stored under name.
func (s *TreeStore) Exists(ctx context.Context, name string) (bool, error) {
	name, err := cleanName(name)
	if err != nil {
		return false, err
	}
	var exists bool
	err = s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM trees WHERE name = ?)", name).Scan(&exists)
	if err != nil {
		return false, wrapClosed(err, "check tree "+name)
	}
	return exists, nil
}

// List returns every stored tree, most recently updated first.
func (s *TreeStore) List(ctx context.Context) ([]TreeInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, node_count, edge_count, active_count, created_at, updated_at
		FROM trees
		ORDER BY updated_at DESC, name`)
	if err != nil {
		return nil, wrapClosed(err, "list trees")
	}
	defer rows.Close()

	var out []TreeInfo
	for rows.Next() {
		var info TreeInfo
		var created, updated string
		if err := rows.Scan(&info.Name, &info.Nodes, &info.Edges, &info.Active, &created, &updated); err != nil {
			return nil, errors.Wrap(err, "scan tree row")
		}
		if info.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, errors.Wrapf(err, "tree %q has a corrupt created_at", info.Name)
		}
		if info.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
			return nil, errors.Wrapf(err, "tree %q has a corrupt updated_at", info.Name)
		}
		out = append(out, info)
	}
	return out, errors.Wrap(rows.Err(), "iterate trees")
}

// Delete removes a stored tree.
func (s *TreeStore) Delete(ctx context.Context, name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM trees WHERE name = ?", name)
	if err != nil {
		return wrapClosed(err, "delete tree "+name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return errors.Wrapf(ErrTreeNotFound, "%q", name)
	}
	s.logger.Infow("Deleted tree", logger.FieldTree, name)
	return nil
}
