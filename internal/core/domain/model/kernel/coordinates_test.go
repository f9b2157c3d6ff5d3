package kernel_test

import (
	"math"
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCoordinates(t *testing.T) {
	t.Run("valid point", func(t *testing.T) {
		c, err := kernel.NewCoordinates(-97.74, 30.27)

		require.NoError(t, err)
		require.NoError(t, c.Validate())
		assert.InDelta(t, -97.74, c.Lng(), 1e-9)
		assert.InDelta(t, 30.27, c.Lat(), 1e-9)
	})

	t.Run("origin is a real coordinate", func(t *testing.T) {
		c, err := kernel.NewCoordinates(0, 0)

		require.NoError(t, err)
		require.NoError(t, c.Validate())
	})

	t.Run("out of range components are joined", func(t *testing.T) {
		_, err := kernel.NewCoordinates(181, -91)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Contains(t, err.Error(), "longitude")
		assert.Contains(t, err.Error(), "latitude")
	})

	t.Run("NaN is rejected", func(t *testing.T) {
		_, err := kernel.NewCoordinates(math.NaN(), 10)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestCoordinates_IsEqual(t *testing.T) {
	a, _ := kernel.NewCoordinates(1, 2)
	b, _ := kernel.NewCoordinates(1, 2)
	c, _ := kernel.NewCoordinates(2, 1)

	eq, err := a.IsEqual(b)
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = a.IsEqual(c)
	require.NoError(t, err)
	assert.False(t, eq)

	_, err = a.IsEqual(kernel.Coordinates{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
