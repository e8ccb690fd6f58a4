package repositories

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError is returned for unexpected database errors.
	// It can be used to wrap more specific driver errors.
	ErrDatabaseError = errors.New("database error")

	// ErrDuplicateKey is returned when an insert/update violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")

	// ErrStorageUnavailable is returned when the database cannot be reached.
	// Callers may retry; every other repository error is surfaced as-is.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// SQLExecutor defines an interface that can be satisfied by *sql.DB or *sql.Tx.
// This allows repository methods to be used within transactions or with a direct DB connection.
type SQLExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Query(query string, args ...interface{}) (*sql.Rows, error)
}

// wrapDBError classifies a driver error into one of the repository sentinels.
// Unique violations map to ErrDuplicateKey, connection-class failures to
// ErrStorageUnavailable, everything else to ErrDatabaseError.
func wrapDBError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, op, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "23505":
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, op, pqErr.Constraint)
		case pqErr.Code.Class() == "08": // connection exceptions
			return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, op, err)
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrDatabaseError, op, err)
}
