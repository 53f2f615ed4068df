// Package repositories implements the data access layer (repository pattern) for VendorHub.
// Each repository type encapsulates all database queries for a domain entity.
// Handlers never issue SQL directly; all database access goes through this layer, which makes query logic testable in isolation and prevents accidental cross-domain data access.
package repositories

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound is returned by Update and Delete when no row matches the given
// id. Get methods return (nil, nil) instead so callers can distinguish a miss
// from a failed mutation.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint
// (vendor email, gateway payment id).
var ErrDuplicate = errors.New("record already exists")

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (class 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
