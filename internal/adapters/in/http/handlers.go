package http

import (
	"context"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/run"
	"dispatch/internal/core/domain/model/zone"
)

// The server depends on these instead of the concrete handlers so routes can
// be exercised without a database.
type (
	ApplyZoneTemplateHandler interface {
		Handle(ctx context.Context, cmd commands.ApplyZoneTemplateCommand) ([]*zone.Zone, error)
	}
	DeactivateZoneHandler interface {
		Handle(ctx context.Context, cmd commands.DeactivateZoneCommand) (*zone.Zone, error)
	}
	AutoAssignZonesHandler interface {
		Handle(ctx context.Context, cmd commands.AutoAssignZonesCommand) (commands.ZoneAssignmentResult, error)
	}
	CreateDraftRunsHandler interface {
		Handle(ctx context.Context, cmd commands.CreateDraftRunsCommand) ([]commands.RunSummary, error)
	}
	RebalanceZonesHandler interface {
		Handle(ctx context.Context, cmd commands.RebalanceZonesCommand) (commands.RebalanceResult, error)
	}
	AssignDriverAndVehicleHandler interface {
		Handle(ctx context.Context, cmd commands.AssignDriverAndVehicleCommand) (*run.DeliveryRun, error)
	}
	ChangeRunStatusHandler interface {
		Handle(ctx context.Context, cmd commands.ChangeRunStatusCommand) (*run.DeliveryRun, error)
	}
	FinalizeRunHandler interface {
		Handle(ctx context.Context, cmd commands.FinalizeRunCommand) (commands.FinalizeResult, error)
	}
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}
	CreateDriverHandler interface {
		Handle(ctx context.Context, cmd commands.CreateDriverCommand) (*fleet.Driver, error)
	}
	CreateVehicleHandler interface {
		Handle(ctx context.Context, cmd commands.CreateVehicleCommand) (*fleet.Vehicle, error)
	}
	GeocodeOrdersHandler interface {
		Handle(ctx context.Context, cmd commands.GeocodeOrdersCommand) (commands.GeocodeResult, error)
	}
	GetActiveZonesHandler interface {
		Handle(ctx context.Context, query queries.GetActiveZonesQuery) ([]queries.GetActiveZonesQueryResponse, error)
	}
	GetFleetAvailabilityHandler interface {
		Handle(ctx context.Context, query queries.GetFleetAvailabilityQuery) (queries.GetFleetAvailabilityQueryResponse, error)
	}
	GetRunsForDateHandler interface {
		Handle(ctx context.Context, query queries.GetRunsForDateQuery) ([]queries.GetRunsForDateQueryResponse, error)
	}
)

// Handlers bundles the use cases the server exposes.
type Handlers struct {
	ApplyZoneTemplate      ApplyZoneTemplateHandler
	DeactivateZone         DeactivateZoneHandler
	AutoAssignZones        AutoAssignZonesHandler
	CreateDraftRuns        CreateDraftRunsHandler
	RebalanceZones         RebalanceZonesHandler
	AssignDriverAndVehicle AssignDriverAndVehicleHandler
	ChangeRunStatus        ChangeRunStatusHandler
	FinalizeRun            FinalizeRunHandler
	CreateOrder            CreateOrderHandler
	CreateDriver           CreateDriverHandler
	CreateVehicle          CreateVehicleHandler
	GeocodeOrders          GeocodeOrdersHandler
	GetActiveZones         GetActiveZonesHandler
	GetFleetAvailability   GetFleetAvailabilityHandler
	GetRunsForDate         GetRunsForDateHandler

	// Events is optional; without it the event stream answers 503.
	Events EventSubscriber
}
