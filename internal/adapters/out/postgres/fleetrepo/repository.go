package fleetrepo

import (
	"context"
	"errors"

	"dispatch/internal/adapters/out/postgres/pgutil"
	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

type GormFleetRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormFleetRepository(db *gorm.DB, tracker aggregateTracker) *GormFleetRepository {
	return &GormFleetRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormFleetRepository) AddDriver(ctx context.Context, driver *fleet.Driver) error {
	if err := driver.Validate(); err != nil {
		return err
	}

	dto := driverFromDomain(driver)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(driver.ID(), driver)
	return nil
}

func (r *GormFleetRepository) GetDriver(ctx context.Context, id kernel.UUID) (*fleet.Driver, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DriverDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("driver", id.String())
		}
		return nil, err
	}

	return driverToDomain(dto)
}

// AddVehicle rejects a second vehicle with the same plate.
func (r *GormFleetRepository) AddVehicle(ctx context.Context, vehicle *fleet.Vehicle) error {
	if err := vehicle.Validate(); err != nil {
		return err
	}

	dto := vehicleFromDomain(vehicle)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if _, ok := pgutil.UniqueViolation(err); ok {
			return errs.NewConflictErrorWithCause("plate already registered", "vehicle", vehicle.Plate(), err)
		}
		return err
	}

	r.tracker.TrackAggregate(vehicle.ID(), vehicle)
	return nil
}

func (r *GormFleetRepository) GetVehicle(ctx context.Context, id kernel.UUID) (*fleet.Vehicle, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto VehicleDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("vehicle", id.String())
		}
		return nil, err
	}

	return vehicleToDomain(dto)
}
