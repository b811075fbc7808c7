package db

import (
	"strings"

	"github.com/teranos/skilltree/errors"
)

// ErrDatabaseClosed is returned when a tree is saved or loaded after the
// connection was closed, e.g. a late autosave during shutdown.
var ErrDatabaseClosed = errors.New("database is closed")

// ErrTreeNotFound is returned when no tree is stored under a name.
var ErrTreeNotFound = errors.Wrap(errors.ErrNotFound, "tree")

// IsDatabaseClosed checks if an error indicates the database connection is
// closed. Driver errors are matched by message because database/sql does not
// export a sentinel for them.
func IsDatabaseClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDatabaseClosed) {
		return true
	}
	return strings.Contains(err.Error(), "database is closed")
}

// wrapClosed converts driver "closed" errors to ErrDatabaseClosed.
func wrapClosed(err error, msg string) error {
	if err == nil {
		return nil
	}
	if IsDatabaseClosed(err) && !errors.Is(err, ErrDatabaseClosed) {
		return errors.Wrap(errors.WithSecondaryError(ErrDatabaseClosed, err), msg)
	}
	return errors.Wrap(err, msg)
}
