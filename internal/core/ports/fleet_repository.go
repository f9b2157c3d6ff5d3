package ports

import (
	"context"

	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"
)

// FleetRepository persists drivers and vehicles.
type FleetRepository interface {
	AddDriver(ctx context.Context, driver *fleet.Driver) error
	GetDriver(ctx context.Context, id kernel.UUID) (*fleet.Driver, error)
	AddVehicle(ctx context.Context, vehicle *fleet.Vehicle) error
	GetVehicle(ctx context.Context, id kernel.UUID) (*fleet.Vehicle, error)
}
