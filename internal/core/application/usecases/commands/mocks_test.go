package commands_test

import (
	"context"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/run"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockZoneRepository struct{ mock.Mock }

func (m *MockZoneRepository) Add(ctx context.Context, z *zone.Zone) error {
	return m.Called(ctx, z).Error(0)
}

func (m *MockZoneRepository) Update(ctx context.Context, z *zone.Zone) error {
	return m.Called(ctx, z).Error(0)
}

func (m *MockZoneRepository) Get(ctx context.Context, id kernel.UUID) (*zone.Zone, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*zone.Zone), args.Error(1)
}

func (m *MockZoneRepository) ListActiveFor(ctx context.Context, date kernel.Date) ([]*zone.Zone, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*zone.Zone), args.Error(1)
}

func (m *MockZoneRepository) NextDisplayOrder(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) orders(args mock.Arguments) ([]*order.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListForDate(ctx context.Context, date kernel.Date) ([]*order.Order, error) {
	return m.orders(m.Called(ctx, date))
}

func (m *MockOrderRepository) ListUnzoned(ctx context.Context, date kernel.Date) ([]*order.Order, error) {
	return m.orders(m.Called(ctx, date))
}

func (m *MockOrderRepository) ListZonedWithoutRun(
	ctx context.Context,
	date kernel.Date,
	zoneID kernel.UUID,
) ([]*order.Order, error) {
	return m.orders(m.Called(ctx, date, zoneID))
}

func (m *MockOrderRepository) ListByRun(ctx context.Context, runID kernel.UUID) ([]*order.Order, error) {
	return m.orders(m.Called(ctx, runID))
}

func (m *MockOrderRepository) ListWithoutCoordinates(
	ctx context.Context,
	from kernel.Date,
	limit int,
) ([]*order.Order, error) {
	return m.orders(m.Called(ctx, from, limit))
}

func (m *MockOrderRepository) AssignZoneIfUnassigned(
	ctx context.Context,
	zoneID kernel.UUID,
	orderIDs []kernel.UUID,
) (int64, error) {
	args := m.Called(ctx, zoneID, orderIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) MoveZone(ctx context.Context, orderID, from, to kernel.UUID) (bool, error) {
	args := m.Called(ctx, orderID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) AttachToRun(
	ctx context.Context,
	runID kernel.UUID,
	zoneID kernel.UUID,
	orderIDs []kernel.UUID,
	firstSequence int,
) ([]kernel.UUID, error) {
	args := m.Called(ctx, runID, zoneID, orderIDs, firstSequence)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

func (m *MockOrderRepository) DetachFromRun(ctx context.Context, runID kernel.UUID) (int64, error) {
	args := m.Called(ctx, runID)
	return args.Get(0).(int64), args.Error(1)
}

type MockRunRepository struct{ mock.Mock }

func (m *MockRunRepository) Add(ctx context.Context, r *run.DeliveryRun) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRunRepository) Update(ctx context.Context, r *run.DeliveryRun) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRunRepository) run(args mock.Arguments) (*run.DeliveryRun, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*run.DeliveryRun), args.Error(1)
}

func (m *MockRunRepository) Get(ctx context.Context, id kernel.UUID) (*run.DeliveryRun, error) {
	return m.run(m.Called(ctx, id))
}

func (m *MockRunRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*run.DeliveryRun, error) {
	return m.run(m.Called(ctx, id))
}

func (m *MockRunRepository) FindActiveForZone(
	ctx context.Context,
	zoneID kernel.UUID,
	date kernel.Date,
) (*run.DeliveryRun, error) {
	return m.run(m.Called(ctx, zoneID, date))
}

func (m *MockRunRepository) ListForDate(ctx context.Context, date kernel.Date) ([]*run.DeliveryRun, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*run.DeliveryRun), args.Error(1)
}

type MockFleetRepository struct{ mock.Mock }

func (m *MockFleetRepository) AddDriver(ctx context.Context, d *fleet.Driver) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockFleetRepository) GetDriver(ctx context.Context, id kernel.UUID) (*fleet.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fleet.Driver), args.Error(1)
}

func (m *MockFleetRepository) AddVehicle(ctx context.Context, v *fleet.Vehicle) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockFleetRepository) GetVehicle(ctx context.Context, id kernel.UUID) (*fleet.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fleet.Vehicle), args.Error(1)
}

// MockUoW satisfies every unit of work interface of the commands package.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) ZoneRepository() ports.ZoneRepository {
	return m.Called().Get(0).(ports.ZoneRepository)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}

func (m *MockUoW) RunRepository() ports.RunRepository {
	return m.Called().Get(0).(ports.RunRepository)
}

func (m *MockUoW) FleetRepository() ports.FleetRepository {
	return m.Called().Get(0).(ports.FleetRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	return m.Called().Get(0).(commands.UoW)
}

type MockZoneUoWFactory struct{ mock.Mock }

func (m *MockZoneUoWFactory) Create() commands.ZoneUoW {
	return m.Called().Get(0).(commands.ZoneUoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	return m.Called().Get(0).(commands.OrderUoW)
}

type MockFleetUoWFactory struct{ mock.Mock }

func (m *MockFleetUoWFactory) Create() commands.FleetUoW {
	return m.Called().Get(0).(commands.FleetUoW)
}

type MockRouteOptimizer struct{ mock.Mock }

func (m *MockRouteOptimizer) Optimize(
	ctx context.Context,
	stops []ports.Stop,
	constraints ports.VehicleConstraints,
) (ports.RoutePlan, error) {
	args := m.Called(ctx, stops, constraints)
	return args.Get(0).(ports.RoutePlan), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) SendCustomerNotice(
	ctx context.Context,
	o *order.Order,
	window ports.DeliveryWindow,
) (ports.NoticeResult, error) {
	args := m.Called(ctx, o, window)
	return args.Get(0).(ports.NoticeResult), args.Error(1)
}

func (m *MockNotifier) SendDriverNotice(
	ctx context.Context,
	r *run.DeliveryRun,
	d *fleet.Driver,
) (ports.NoticeResult, error) {
	args := m.Called(ctx, r, d)
	return args.Get(0).(ports.NoticeResult), args.Error(1)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, event ports.RunEvent) error {
	return m.Called(ctx, event).Error(0)
}

type MockGeocoder struct{ mock.Mock }

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (kernel.Coordinates, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(kernel.Coordinates), args.Error(1)
}
