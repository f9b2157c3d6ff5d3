package commands_test

import (
	"context"
	"testing"

	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/run"
	"dispatch/internal/core/domain/model/zone"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Points inside the built-in weekday North and South zones and one far
// outside the service area.
const (
	northLng, northLat = -97.75, 30.40
	southLng, southLat = -97.75, 30.20
	farLng, farLat     = -99.00, 31.50
)

type repos struct {
	zones  *MockZoneRepository
	orders *MockOrderRepository
	runs   *MockRunRepository
	fleet  *MockFleetRepository
}

func newRepos() repos {
	return repos{
		zones:  new(MockZoneRepository),
		orders: new(MockOrderRepository),
		runs:   new(MockRunRepository),
		fleet:  new(MockFleetRepository),
	}
}

// newUoW wires repository getters; transaction calls are set by each test.
func newUoW(r repos) *MockUoW {
	uow := new(MockUoW)
	uow.On("ZoneRepository").Return(r.zones).Maybe()
	uow.On("OrderRepository").Return(r.orders).Maybe()
	uow.On("RunRepository").Return(r.runs).Maybe()
	uow.On("FleetRepository").Return(r.fleet).Maybe()
	return uow
}

// expectTx allows any number of successful transactions on uow.
func expectTx(uow *MockUoW) {
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Commit", mock.Anything).Return(nil)
	uow.On("Rollback", mock.Anything).Return(nil)
}

func factoryFor(uow *MockUoW) *MockUoWFactory {
	f := new(MockUoWFactory)
	f.On("Create").Return(uow)
	return f
}

func tuesday(t *testing.T) kernel.Date {
	t.Helper()
	d, err := kernel.ParseDate("2025-03-04")
	require.NoError(t, err)
	return d
}

func weekdayZones(t *testing.T) []*zone.Zone {
	t.Helper()
	tmpl, err := zone.NewTemplateCatalog().Get(zone.TemplateWeekday)
	require.NoError(t, err)
	zones, err := tmpl.Instantiate(nil, 0)
	require.NoError(t, err)
	return zones
}

func newOrder(t *testing.T, weightKg float64) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), order.Details{
		CustomerName:  "Customer",
		CustomerPhone: "+15125550100",
		Address:       "1 Congress Ave",
		ScheduledDate: tuesday(t),
		WeightKg:      weightKg,
		VolumeM3:      0.05,
	})
	require.NoError(t, err)
	return o
}

func orderAt(t *testing.T, lng, lat float64) *order.Order {
	t.Helper()
	o := newOrder(t, 2)
	c, err := kernel.NewCoordinates(lng, lat)
	require.NoError(t, err)
	require.NoError(t, o.SetCoordinates(c))
	return o
}

func zonedOrder(t *testing.T, z *zone.Zone, lng, lat float64) *order.Order {
	t.Helper()
	o := orderAt(t, lng, lat)
	require.NoError(t, o.AssignZone(z.ID()))
	return o
}

func draftRun(t *testing.T, zoneID kernel.UUID, orders ...*order.Order) *run.DeliveryRun {
	t.Helper()
	r, err := run.NewDraftRun(tuesday(t), &zoneID)
	require.NoError(t, err)
	for _, o := range orders {
		_, err = r.AppendOrders(o.ID())
		require.NoError(t, err)
	}
	return r
}

func assignedRun(t *testing.T, driver *fleet.Driver, vehicle *fleet.Vehicle, orders ...*order.Order) *run.DeliveryRun {
	t.Helper()
	r := draftRun(t, kernel.NewUUID(), orders...)
	require.NoError(t, r.Assign(driver.ID(), vehicle.ID()))
	return r
}

func newDriver(t *testing.T) *fleet.Driver {
	t.Helper()
	d, err := fleet.NewDriver(kernel.NewUUID(), "Maria Lopez", "+15125550142")
	require.NoError(t, err)
	return d
}

func newVehicle(t *testing.T, capacityKg float64) *fleet.Vehicle {
	t.Helper()
	v, err := fleet.NewVehicle(kernel.NewUUID(), "TX-VAN1", capacityKg, 10)
	require.NoError(t, err)
	return v
}

func ids(orders ...*order.Order) []kernel.UUID {
	out := make([]kernel.UUID, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID())
	}
	return out
}

var anyCtx = mock.MatchedBy(func(context.Context) bool { return true })
