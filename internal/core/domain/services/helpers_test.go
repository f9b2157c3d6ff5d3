package services_test

import (
	"testing"

	"dispatch/internal/core/domain/geo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/zone"

	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) kernel.Date {
	t.Helper()
	d, err := kernel.ParseDate(s)
	require.NoError(t, err)
	return d
}

func mustCoords(t *testing.T, lng, lat float64) kernel.Coordinates {
	t.Helper()
	c, err := kernel.NewCoordinates(lng, lat)
	require.NoError(t, err)
	return c
}

func mustZone(t *testing.T, name string, displayOrder int, drivers int, ring geo.Ring) *zone.Zone {
	t.Helper()
	days, err := zone.NewWeekdays("mon", "tue", "wed", "thu")
	require.NoError(t, err)
	z, err := zone.NewZone(zone.Params{
		Name:              name,
		Boundary:          ring,
		ActiveDays:        days,
		TargetDriverCount: drivers,
		DisplayOrder:      displayOrder,
	})
	require.NoError(t, err)
	return z
}

// zonedOrder returns an order at (lng, lat) assigned to z.
func zonedOrder(t *testing.T, z *zone.Zone, lng, lat float64) *order.Order {
	t.Helper()
	o := newOrder(t, 1, 0.01)
	require.NoError(t, o.SetCoordinates(mustCoords(t, lng, lat)))
	require.NoError(t, o.AssignZone(z.ID()))
	return o
}

func newOrder(t *testing.T, weightKg, volumeM3 float64) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), order.Details{
		CustomerName:  "Customer",
		CustomerPhone: "+15125550100",
		Address:       "1 Main St",
		ScheduledDate: mustDate(t, "2025-03-04"),
		WeightKg:      weightKg,
		VolumeM3:      volumeM3,
	})
	require.NoError(t, err)
	return o
}
