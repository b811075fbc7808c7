// Package ident renames and deletes identifiers while keeping every reference
// to them intact: edge endpoints and selection membership for node ids,
// attribute maps for extras keys.
package ident

import (
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/skilltree/errors"
	"github.com/teranos/skilltree/graph"
	"github.com/teranos/skilltree/logger"
	"github.com/teranos/skilltree/selection"
)

// Registry performs reference-repairing identifier changes on one store and
// its selection. Every method either succeeds fully or leaves both untouched.
type Registry struct {
	store  *graph.Store
	sel    *selection.Model
	logger *zap.SugaredLogger
}

// NewRegistry binds a registry to store and sel. log may be nil.
func NewRegistry(store *graph.Store, sel *selection.Model, log *zap.SugaredLogger) *Registry {
	if log == nil {
		log = logger.ComponentLogger("ident")
	}
	return &Registry{store: store, sel: sel, logger: log}
}

// Bind points the registry at another store.
func (r *Registry) Bind(store *graph.Store) {
	r.store = store
}

// RenameNode changes a node id. newID is trimmed; an empty, unchanged or
// taken id is rejected. Edges and the selection follow the new id.
func (r *Registry) RenameNode(oldID, newID string) error {
	newID = strings.TrimSpace(newID)
	if !r.store.HasNode(oldID) {
		return errors.Wrapf(errors.ErrNodeNotFound, "%q", oldID)
	}
	if newID == "" {
		return errors.WithHint(errors.NewInvalidRequestError("node id is empty"),
			"node ids cannot be blank")
	}
	if newID == oldID {
		return errors.NewInvalidRequestError("node id %q is unchanged", oldID)
	}
	if r.store.HasNode(newID) {
		return errors.WithHint(errors.Wrapf(errors.ErrDuplicateID, "node %q", newID),
			"ID already exists!")
	}

	if err := r.store.RenameNode(oldID, newID); err != nil {
		return err
	}
	r.sel.Rename(oldID, newID)

	r.logger.Debugw("Renamed node",
		logger.FieldNodeID, oldID,
		logger.FieldNewID, newID,
	)
	return nil
}

// DeleteNode removes a node with its incident edges and drops it from the
// selection.
func (r *Registry) DeleteNode(id string) error {
	return r.DeleteNodes([]string{id})
}

// DeleteNodes removes every listed node with all incident edges. Unknown ids
// are rejected before anything is removed.
func (r *Registry) DeleteNodes(ids []string) error {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if !r.store.HasNode(id) {
			return errors.Wrapf(errors.ErrNodeNotFound, "%q", id)
		}
		set[id] = struct{}{}
	}

	edgesBefore := r.store.EdgeCount()
	removed := r.store.RemoveNodes(set)
	for id := range set {
		r.sel.Remove(id)
	}

	r.logger.Debugw("Deleted nodes",
		logger.FieldCount, removed,
		"edges_removed", edgesBefore-r.store.EdgeCount(),
	)
	return nil
}

// RenameAttributeKey moves a value to a new key on the same node.
func (r *Registry) RenameAttributeKey(nodeID, oldKey, newKey string) error {
	newKey = strings.TrimSpace(newKey)
	n, ok := r.store.FindNode(nodeID)
	if !ok {
		return errors.Wrapf(errors.ErrNodeNotFound, "%q", nodeID)
	}
	value, ok := n.Extras[oldKey]
	if !ok {
		return errors.NewNotFoundError("attribute %q on node %q", oldKey, nodeID)
	}
	if newKey == "" || newKey == oldKey {
		return errors.Wrapf(errors.ErrInvalidKey, "%q", newKey)
	}
	if _, taken := n.Extras[newKey]; taken {
		return errors.WithHint(errors.Wrapf(errors.ErrDuplicateKey, "%q", newKey),
			"Key already exists.")
	}

	r.store.MutateNode(nodeID, func(n *graph.Node) {
		delete(n.Extras, oldKey)
		n.Extras[newKey] = value
	})
	r.logger.Debugw("Renamed attribute",
		logger.FieldNodeID, nodeID,
		logger.FieldKey, newKey,
	)
	return nil
}

// AddAttribute adds a key/value pair. Both are trimmed; the key must be
// non-empty and not yet present.
func (r *Registry) AddAttribute(nodeID, key, value string) error {
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	n, ok := r.store.FindNode(nodeID)
	if !ok {
		return errors.Wrapf(errors.ErrNodeNotFound, "%q", nodeID)
	}
	if key == "" {
		return errors.Wrap(errors.ErrInvalidKey, "empty key")
	}
	if _, taken := n.Extras[key]; taken {
		return errors.WithHint(errors.Wrapf(errors.ErrDuplicateKey, "%q", key),
			"Key already exists.")
	}

	r.store.MutateNode(nodeID, func(n *graph.Node) { n.Extras[key] = value })
	return nil
}

// SetAttribute overwrites the value of an existing key.
func (r *Registry) SetAttribute(nodeID, key, value string) error {
	n, ok := r.store.FindNode(nodeID)
	if !ok {
		return errors.Wrapf(errors.ErrNodeNotFound, "%q", nodeID)
	}
	if _, ok := n.Extras[key]; !ok {
		return errors.NewNotFoundError("attribute %q on node %q", key, nodeID)
	}
	r.store.MutateNode(nodeID, func(n *graph.Node) { n.Extras[key] = value })
	return nil
}

// DeleteAttribute removes a key.
func (r *Registry) DeleteAttribute(nodeID, key string) error {
	n, ok := r.store.FindNode(nodeID)
	if !ok {
		return errors.Wrapf(errors.ErrNodeNotFound, "%q", nodeID)
	}
	if _, ok := n.Extras[key]; !ok {
		return errors.NewNotFoundError("attribute %q on node %q", key, nodeID)
	}
	r.store.MutateNode(nodeID, func(n *graph.Node) { delete(n.Extras, key) })
	return nil
}
