// Package pgutil holds helpers shared by the gorm repositories: unique
// violation detection and uuid array arguments.
package pgutil

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// UniqueViolation reports whether err is a unique constraint violation and,
// when postgres says so, which constraint fired.
func UniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}
	return "", false
}

// UUIDArray encodes ids as a postgres array literal for `= ANY(?)`.
func UUIDArray(ids []kernel.UUID) any {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return pq.Array(out)
}

// NullableUUID converts an optional id to the column value.
func NullableUUID(id *kernel.UUID) any {
	if id == nil {
		return nil
	}
	return id.Bytes()
}
