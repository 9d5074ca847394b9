// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrConflict signals that an operation
// would break referential integrity or a unique constraint.
package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when an identifier does not resolve to a row
// (or to a row visible to the caller, for owner-scoped queries).
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Services translate this
// into a forbidden error.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write cannot be performed because
// of a constraint: a duplicate unique value, or a delete of a row
// that other rows still reference (e.g. a country used by a movie).
var ErrConflict = errors.New("conflict")

// ErrDuplicateRating is returned when a user already has a top-level
// rating for the movie they try to rate again.
var ErrDuplicateRating = errors.New("user already rated this movie")

// MySQL server error numbers mapped to ErrConflict.
const (
	errDupEntry         = 1062
	errRowIsReferenced  = 1451
	errNoReferencedRow  = 1452
	errRowIsReferenced2 = 1217
	errNoReferencedRow2 = 1216
)

// translate maps driver errors onto the package sentinels.  Errors it does
// not recognise are returned unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case errDupEntry, errRowIsReferenced, errRowIsReferenced2, errNoReferencedRow, errNoReferencedRow2:
			return ErrConflict
		}
	}
	return err
}
