package graph

import (
	"strings"

	"github.com/teranos/skilltree/errors"
)

// Role decides whether a node may be active without parents.
type Role string

const (
	RoleNormal Role = "normal"
	RoleBase   Role = "base" // starter node, unlockable unconditionally
)

// Shape is the node's drawn outline.
type Shape string

const (
	ShapeCircle Shape = "circle"
	ShapeRect   Shape = "rect"
	ShapePoly   Shape = "poly"
)

// LinkStyle is how edges pointing into a node are drawn.
type LinkStyle string

const (
	LinkCurve    LinkStyle = "curve"
	LinkStraight LinkStyle = "straight"
	LinkElbow    LinkStyle = "elbow"
)

// Node is an unlockable item in the tree. Identity is ID; every other field
// is freely mutable.
type Node struct {
	ID          string            `json:"id" yaml:"id" toml:"id"`
	Label       string            `json:"label" yaml:"label" toml:"label"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	X           float64           `json:"x" yaml:"x" toml:"x"`
	Y           float64           `json:"y" yaml:"y" toml:"y"`
	IsActive    bool              `json:"isActive" yaml:"isActive" toml:"isActive"`
	Role        Role              `json:"role" yaml:"role" toml:"role"`
	Shape       Shape             `json:"shape" yaml:"shape" toml:"shape"`
	PolySides   int               `json:"polySides,omitempty" yaml:"polySides,omitempty" toml:"polySides,omitempty"` // only read when Shape == poly
	IconPath    string            `json:"iconPath,omitempty" yaml:"iconPath,omitempty" toml:"iconPath,omitempty"`
	LinkStyle   LinkStyle         `json:"linkStyle" yaml:"linkStyle" toml:"linkStyle"`
	Extras      map[string]string `json:"extras,omitempty" yaml:"extras,omitempty" toml:"extras,omitempty"`
}

// Edge is a prerequisite relation: From must be unlocked before To.
type Edge struct {
	From  string    `json:"from" yaml:"from" toml:"from"`
	To    string    `json:"to" yaml:"to" toml:"to"`
	Style LinkStyle `json:"style" yaml:"style" toml:"style"`
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	out := n
	out.Extras = make(map[string]string, len(n.Extras))
	for k, v := range n.Extras {
		out.Extras[k] = v
	}
	return out
}

// IsBase reports whether the node has the base role.
func (n Node) IsBase() bool {
	return n.Role == RoleBase
}

// Sides returns the effective polygon side count, or 0 for non-polygons.
func (n Node) Sides() int {
	if n.Shape != ShapePoly {
		return 0
	}
	if n.PolySides < MinPolySides {
		return DefaultPolySides
	}
	return n.PolySides
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleNormal || r == RoleBase
}

// Valid reports whether s is a known shape.
func (s Shape) Valid() bool {
	return s == ShapeCircle || s == ShapeRect || s == ShapePoly
}

// Valid reports whether l is a known link style.
func (l LinkStyle) Valid() bool {
	return l == LinkCurve || l == LinkStraight || l == LinkElbow
}

// ParseRole parses a role name, case-insensitively.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", errors.WithHint(
			errors.NewInvalidRequestError("unknown role %q", s),
			"roles are: normal, base")
	}
	return r, nil
}

// ParseShape parses a shape name, case-insensitively.
func ParseShape(s string) (Shape, error) {
	sh := Shape(strings.ToLower(strings.TrimSpace(s)))
	if !sh.Valid() {
		return "", errors.WithHint(
			errors.NewInvalidRequestError("unknown shape %q", s),
			"shapes are: circle, rect, poly")
	}
	return sh, nil
}

// ParseLinkStyle parses a link style name, case-insensitively.
func ParseLinkStyle(s string) (LinkStyle, error) {
	l := LinkStyle(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", errors.WithHint(
			errors.NewInvalidRequestError("unknown link style %q", s),
			"link styles are: curve, straight, elbow")
	}
	return l, nil
}
