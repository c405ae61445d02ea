package store

import (
	"errors"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// InsertResult distinguishes a stored row from a benign duplicate
type InsertResult int

const (
	// InsertSkipped means the store is disabled and nothing was written
	InsertSkipped InsertResult = iota
	InsertInserted
	InsertDuplicate
)

func (r InsertResult) String() string {
	switch r {
	case InsertInserted:
		return "inserted"
	case InsertDuplicate:
		return "duplicate"
	default:
		return "skipped"
	}
}

// pqUniqueViolation is the Postgres SQLSTATE for unique_violation
const pqUniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique constraint failure from either driver
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return false
}
