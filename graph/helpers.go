package graph

import (
	"strings"

	"github.com/google/uuid"
)

// NewNodeID mints an id that is not yet used by the store.
func (s *Store) NewNodeID() string {
	for {
		id := generatedIDPrefix + strings.SplitN(uuid.NewString(), "-", 2)[0]
		if !s.HasNode(id) {
			return id
		}
	}
}

// withDefaults fills zero-valued enum fields so every stored node carries a
// concrete role, shape and link style.
func withDefaults(n Node) Node {
	n.ID = strings.TrimSpace(n.ID)
	if !n.Role.Valid() {
		n.Role = DefaultRole
	}
	if !n.Shape.Valid() {
		n.Shape = DefaultShape
	}
	if !n.LinkStyle.Valid() {
		n.LinkStyle = DefaultLinkStyle
	}
	if n.Extras == nil {
		n.Extras = make(map[string]string)
	}
	return n
}

// ClampSides bounds a side count to the polygon range.
func ClampSides(n int) int {
	if n < MinPolySides {
		return MinPolySides
	}
	if n > MaxPolySides {
		return MaxPolySides
	}
	return n
}
