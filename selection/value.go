package selection

import "github.com/teranos/skilltree/graph"

// Value is the merged value of one field across a selection: either a value
// every node shares, or Mixed.
type Value[T comparable] struct {
	v     T
	mixed bool
}

// Common wraps a shared value.
func Common[T comparable](v T) Value[T] {
	return Value[T]{v: v}
}

// Mixed marks a field that differs between selected nodes.
func Mixed[T comparable]() Value[T] {
	return Value[T]{mixed: true}
}

// IsMixed reports whether the nodes disagree.
func (v Value[T]) IsMixed() bool {
	return v.mixed
}

// Get returns the shared value; ok is false when mixed.
func (v Value[T]) Get() (T, bool) {
	if v.mixed {
		var zero T
		return zero, false
	}
	return v.v, true
}

// Or returns the shared value, or fallback when mixed.
func (v Value[T]) Or(fallback T) T {
	if v.mixed {
		return fallback
	}
	return v.v
}

// CommonValue merges field across nodes. A node whose field reports absent
// contributes def instead. An empty node list is Mixed.
func CommonValue[T comparable](nodes []graph.Node, field func(graph.Node) (T, bool), def T) Value[T] {
	if len(nodes) == 0 {
		return Mixed[T]()
	}
	pick := func(n graph.Node) T {
		if v, ok := field(n); ok {
			return v
		}
		return def
	}
	first := pick(nodes[0])
	for _, n := range nodes[1:] {
		if pick(n) != first {
			return Mixed[T]()
		}
	}
	return Common(first)
}

// AllSatisfy reports whether pred holds for every node. False for an empty
// list.
func AllSatisfy(nodes []graph.Node, pred func(graph.Node) bool) bool {
	if len(nodes) == 0 {
		return false
	}
	for _, n := range nodes {
		if !pred(n) {
			return false
		}
	}
	return true
}

// Field accessors that mirror the inspector defaults: a blank enum or icon
// counts as absent and is replaced by the default.

func RoleField(n graph.Node) (graph.Role, bool) { return n.Role, n.Role != "" }

func ShapeField(n graph.Node) (graph.Shape, bool) { return n.Shape, n.Shape != "" }

func IconField(n graph.Node) (string, bool) { return n.IconPath, n.IconPath != "" }

func LinkStyleField(n graph.Node) (graph.LinkStyle, bool) { return n.LinkStyle, n.LinkStyle != "" }

func SidesField(n graph.Node) (int, bool) { return n.PolySides, n.PolySides >= graph.MinPolySides }

// IsPoly is the predicate gating the sides control.
func IsPoly(n graph.Node) bool { return n.Shape == graph.ShapePoly }
