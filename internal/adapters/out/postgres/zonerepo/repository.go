package zonerepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

type GormZoneRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormZoneRepository(db *gorm.DB, tracker aggregateTracker) *GormZoneRepository {
	return &GormZoneRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormZoneRepository) Add(ctx context.Context, aggregate *zone.Zone) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update only writes the active flag.
func (r *GormZoneRepository) Update(ctx context.Context, aggregate *zone.Zone) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&ZoneDTO{}).
		Where("id = ?", aggregate.ID().Bytes()).
		Update("is_active", aggregate.IsActive())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("zone", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormZoneRepository) Get(ctx context.Context, id kernel.UUID) (*zone.Zone, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ZoneDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("zone", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormZoneRepository) ListActiveFor(ctx context.Context, date kernel.Date) ([]*zone.Zone, error) {
	if err := date.Validate(); err != nil {
		return nil, err
	}

	var dtos []ZoneDTO
	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND ? = ANY(active_days)", true, date.Weekday()).
		Order("display_order, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	zones := make([]*zone.Zone, 0, len(dtos))
	for _, dto := range dtos {
		z, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}

	return zones, nil
}

// catalogLockKey identifies the advisory lock taken by NextDisplayOrder.
const catalogLockKey int64 = 0x7a6f6e6573

// NextDisplayOrder takes a transaction-scoped advisory lock before reading
// the maximum, so concurrent template applications get disjoint ranges. The
// lock is held until the surrounding transaction ends.
func (r *GormZoneRepository) NextDisplayOrder(ctx context.Context) (int, error) {
	if err := r.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(?)", catalogLockKey).Error; err != nil {
		return 0, err
	}

	var next int
	if err := r.db.WithContext(ctx).Model(&ZoneDTO{}).
		Select("COALESCE(MAX(display_order) + 1, 0)").
		Scan(&next).Error; err != nil {
		return 0, err
	}
	return next, nil
}
