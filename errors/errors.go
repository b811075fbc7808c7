// Package errors provides error handling for skilltree.
//
// This package re-exports github.com/cockroachdb/errors so every package
// gets stack traces, hints and wrapping from one import, and defines the
// sentinel errors of the editor's error taxonomy.
//
// Usage:
//
//	if err := reg.RenameNode(old, new); err != nil {
//	    if errors.Is(err, errors.ErrDuplicateID) {
//	        // revert the input field
//	    }
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New                = crdb.New
	Newf               = crdb.Newf
	Wrap               = crdb.Wrap
	Wrapf              = crdb.Wrapf
	WithStack          = crdb.WithStack
	WithMessage        = crdb.WithMessage
	WithMessagef       = crdb.WithMessagef
	WithSecondaryError = crdb.WithSecondaryError
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is                      = crdb.Is
	IsAny                   = crdb.IsAny
	As                      = crdb.As
	Unwrap                  = crdb.Unwrap
	UnwrapAll               = crdb.UnwrapAll
	GetAllHints             = crdb.GetAllHints
	GetAllDetails           = crdb.GetAllDetails
	FlattenHints            = crdb.FlattenHints
	FlattenDetails          = crdb.FlattenDetails
	GetReportableStackTrace = crdb.GetReportableStackTrace
)

// Assertions
var (
	AssertionFailedf    = crdb.AssertionFailedf
	HasAssertionFailure = crdb.HasAssertionFailure
)

// Generic sentinels.
var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates the request was malformed or invalid
	ErrInvalidRequest = New("invalid request")
)

// Editor taxonomy. User-input errors are returned to the caller and never
// leave partial state behind.
var (
	// ErrDuplicateID indicates a node id collides with an existing node
	ErrDuplicateID = New("duplicate node id")

	// ErrDuplicateKey indicates an extras key already exists on the node
	ErrDuplicateKey = New("duplicate attribute key")

	// ErrDuplicateEdge indicates the prerequisite relation already exists
	ErrDuplicateEdge = New("duplicate edge")

	// ErrInvalidKey indicates an empty or unchanged attribute key
	ErrInvalidKey = New("invalid attribute key")

	// ErrNodeNotFound indicates an operation referenced a missing node id
	ErrNodeNotFound = Wrap(ErrNotFound, "node")

	// ErrMalformedNumber indicates non-numeric input for a numeric field
	ErrMalformedNumber = New("malformed numeric input")

	// ErrInvalidActivation indicates an activation request the policy refused.
	// The engine never surfaces it to users; it only appears in debug logs.
	ErrInvalidActivation = New("activation not permitted")

	// ErrReferentialViolation indicates a broken graph invariant (dangling
	// edge or duplicate id). Reaching it from user input is a bug.
	ErrReferentialViolation = New("referential violation")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsDuplicate reports whether err is any of the collision errors.
func IsDuplicate(err error) bool {
	return err != nil && IsAny(err, ErrDuplicateID, ErrDuplicateKey, ErrDuplicateEdge)
}

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRequest, Newf(format, args...).Error())
}
