// Package pgerr classifies PostgreSQL driver errors for the repositories.
package pgerr

import (
	"errors"
	"strings"

	"freight/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// Map wraps err for op. Serialization failures and deadlocks become a
// ConcurrencyConflictError so callers can retry; everything else is a
// StoreError.
func Map(entity, op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
			return errs.NewConcurrencyConflictErrorWithCause(entity, "", err)
		}
	}
	return errs.NewStoreError(op, err)
}

// IsUniqueViolation reports whether err was caused by a unique constraint,
// optionally a specific one.
func IsUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
		return constraint == "" || strings.EqualFold(pgErr.ConstraintName, constraint)
	}
	return constraint == "" && errors.Is(err, gorm.ErrDuplicatedKey)
}
