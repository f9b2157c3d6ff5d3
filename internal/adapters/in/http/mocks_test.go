package http_test

import (
	"context"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/run"
	"dispatch/internal/core/domain/model/zone"

	"github.com/stretchr/testify/mock"
)

type MockApplyZoneTemplate struct{ mock.Mock }

func (m *MockApplyZoneTemplate) Handle(ctx context.Context, cmd commands.ApplyZoneTemplateCommand) ([]*zone.Zone, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*zone.Zone), args.Error(1)
}

type MockDeactivateZone struct{ mock.Mock }

func (m *MockDeactivateZone) Handle(ctx context.Context, cmd commands.DeactivateZoneCommand) (*zone.Zone, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*zone.Zone), args.Error(1)
}

type MockAutoAssignZones struct{ mock.Mock }

func (m *MockAutoAssignZones) Handle(ctx context.Context, cmd commands.AutoAssignZonesCommand) (commands.ZoneAssignmentResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.ZoneAssignmentResult), args.Error(1)
}

type MockCreateDraftRuns struct{ mock.Mock }

func (m *MockCreateDraftRuns) Handle(ctx context.Context, cmd commands.CreateDraftRunsCommand) ([]commands.RunSummary, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]commands.RunSummary), args.Error(1)
}

type MockAssignDriverAndVehicle struct{ mock.Mock }

func (m *MockAssignDriverAndVehicle) Handle(ctx context.Context, cmd commands.AssignDriverAndVehicleCommand) (*run.DeliveryRun, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*run.DeliveryRun), args.Error(1)
}

type MockChangeRunStatus struct{ mock.Mock }

func (m *MockChangeRunStatus) Handle(ctx context.Context, cmd commands.ChangeRunStatusCommand) (*run.DeliveryRun, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*run.DeliveryRun), args.Error(1)
}

type MockFinalizeRun struct{ mock.Mock }

func (m *MockFinalizeRun) Handle(ctx context.Context, cmd commands.FinalizeRunCommand) (commands.FinalizeResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.FinalizeResult), args.Error(1)
}

type MockCreateOrder struct{ mock.Mock }

func (m *MockCreateOrder) Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockCreateDriver struct{ mock.Mock }

func (m *MockCreateDriver) Handle(ctx context.Context, cmd commands.CreateDriverCommand) (*fleet.Driver, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fleet.Driver), args.Error(1)
}

type MockGeocodeOrders struct{ mock.Mock }

func (m *MockGeocodeOrders) Handle(ctx context.Context, cmd commands.GeocodeOrdersCommand) (commands.GeocodeResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.GeocodeResult), args.Error(1)
}

type MockGetRunsForDate struct{ mock.Mock }

func (m *MockGetRunsForDate) Handle(ctx context.Context, query queries.GetRunsForDateQuery) ([]queries.GetRunsForDateQueryResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queries.GetRunsForDateQueryResponse), args.Error(1)
}
