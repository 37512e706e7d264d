package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateKey is a generic sentinel for unique-constraint violations.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrInvalidInput is a generic sentinel for invalid input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrLockUnavailable marks a row lock that could not be acquired within
	// the storage layer's wait policy, including deadlock victims.
	ErrLockUnavailable = errors.New("lock unavailable")
)

// Postgres SQLSTATE codes the payment path cares about.
const (
	pgUniqueViolation  = "23505"
	pgLockNotAvailable = "55P03"
	pgDeadlockDetected = "40P01"
)

// TranslatePG maps driver-level Postgres errors onto the package sentinels so
// callers can branch with errors.Is. Unrecognized errors pass through as-is.
func TranslatePG(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s", ErrDuplicateKey, pgErr.ConstraintName)
	case pgLockNotAvailable, pgDeadlockDetected:
		return fmt.Errorf("%w: %s", ErrLockUnavailable, pgErr.Message)
	}
	return err
}
