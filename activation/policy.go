package activation

import (
	"strings"

	"github.com/teranos/skilltree/errors"
)

// Policy decides whether a non-base node may be active given the activation
// state of its parents.
type Policy string

const (
	// AnyParent allows activation when at least one parent is active, so a
	// node can be reached through alternate unlock paths.
	AnyParent Policy = "any"

	// AllParents requires every parent to be active. A node without parents
	// can never satisfy it (only base nodes start a tree).
	AllParents Policy = "all"

	DefaultPolicy = AnyParent
)

// ParsePolicy parses a policy name as used in configuration.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case AnyParent, AllParents:
		return p, nil
	case "":
		return DefaultPolicy, nil
	default:
		return "", errors.WithHint(
			errors.NewInvalidRequestError("unknown activation policy %q", s),
			"use \"any\" (at least one active parent) or \"all\" (every parent active)")
	}
}

// satisfied applies the policy to the parents' activation states.
func (p Policy) satisfied(parentsActive []bool) bool {
	if len(parentsActive) == 0 {
		return false
	}
	switch p {
	case AllParents:
		for _, active := range parentsActive {
			if !active {
				return false
			}
		}
		return true
	default:
		for _, active := range parentsActive {
			if active {
				return true
			}
		}
		return false
	}
}

// Describe returns the hint shown next to the activation toggle.
func (p Policy) Describe() string {
	if p == AllParents {
		return "Requires all parents active or Base role"
	}
	return "Requires active parents or Base role"
}
