package errs_test

import (
	"errors"
	"testing"

	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeometryError(t *testing.T) {
	err := errs.NewGeometryError("ring has 2 distinct points")

	assert.Equal(t, "geometry is malformed: ring has 2 distinct points", err.Error())
	require.ErrorIs(t, err, errs.ErrGeometry)
}

func TestNoZonesAvailableError(t *testing.T) {
	t.Run("with date", func(t *testing.T) {
		err := errs.NewNoZonesAvailableError("2025-03-04")
		assert.Equal(t, "no zones available: date is 2025-03-04", err.Error())
		require.ErrorIs(t, err, errs.ErrNoZonesAvailable)
	})

	t.Run("without date", func(t *testing.T) {
		err := errs.NewNoZonesAvailableError("")
		assert.Equal(t, "no zones available", err.Error())
	})
}

func TestTemplateNotFoundError(t *testing.T) {
	err := errs.NewTemplateNotFoundError("holiday\nspecial")

	assert.Equal(t, "zone template not found: holiday special", err.Error())
	require.ErrorIs(t, err, errs.ErrTemplateNotFound)
}

func TestConflictError(t *testing.T) {
	t.Run("NewConflictError", func(t *testing.T) {
		err := errs.NewConflictError(errs.MsgResourceCommitted, "run", "42")

		assert.Equal(t,
			"conflict: driver or vehicle already committed for this date (run 42)",
			err.Error())
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("NewConflictErrorWithCause", func(t *testing.T) {
		cause := errors.New("duplicate key")
		err := errs.NewConflictErrorWithCause(errs.MsgResourceCommitted, "run", "42", cause)

		assert.Contains(t, err.Error(), "(cause: duplicate key)")
		assert.Equal(t, cause, err.Cause)
	})

	t.Run("errors.As recovers identifiers", func(t *testing.T) {
		var wrapped error = errs.NewConflictError(errs.MsgResourceCommitted, "run", "7")

		var conflict *errs.ConflictError
		require.ErrorAs(t, wrapped, &conflict)
		assert.Equal(t, "7", conflict.ID)
	})
}

func TestCapacityExceededError(t *testing.T) {
	err := errs.NewCapacityExceededError("weight_kg", 120.5, 100)

	assert.Equal(t, "capacity exceeded: weight_kg required 120.500, capacity 100.000", err.Error())
	require.ErrorIs(t, err, errs.ErrCapacityExceeded)
}

func TestInvalidStateError(t *testing.T) {
	err := errs.NewInvalidStateError("run", "abc", "DRAFT", "run must be ASSIGNED")

	assert.Equal(t, "invalid state: run abc is DRAFT: run must be ASSIGNED", err.Error())
	require.ErrorIs(t, err, errs.ErrInvalidState)

	noID := errs.NewInvalidStateError("status", "", "COMPLETED", "terminal")
	assert.Equal(t, "invalid state: status is COMPLETED: terminal", noID.Error())
}

func TestExternalServiceError(t *testing.T) {
	err := errs.NewExternalServiceError("route optimizer", errors.New("timeout"))

	assert.Equal(t, "external service failed: route optimizer (cause: timeout)", err.Error())
	require.ErrorIs(t, err, errs.ErrExternalService)
}
