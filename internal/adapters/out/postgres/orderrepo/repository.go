package orderrepo

import (
	"context"
	"errors"

	"dispatch/internal/adapters/out/postgres/pgutil"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if _, ok := pgutil.UniqueViolation(err); ok {
			return errs.NewConflictErrorWithCause("order already exists", "order", aggregate.ID().String(), err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes details and coordinates. Membership columns are left to the
// conditional methods.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("customer_name", "customer_phone", "address", "scheduled_date", "lng", "lat", "weight_kg", "volume_m3").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) ListForDate(ctx context.Context, date kernel.Date) ([]*order.Order, error) {
	return r.find(ctx, r.db.Where("scheduled_date = ?", date.Time()).Order("id"))
}

func (r *GormOrderRepository) ListUnzoned(ctx context.Context, date kernel.Date) ([]*order.Order, error) {
	return r.find(ctx, r.db.Where("scheduled_date = ? AND zone_id IS NULL", date.Time()).Order("id"))
}

func (r *GormOrderRepository) ListZonedWithoutRun(
	ctx context.Context,
	date kernel.Date,
	zoneID kernel.UUID,
) ([]*order.Order, error) {
	return r.find(ctx, r.db.
		Where("scheduled_date = ? AND zone_id = ? AND run_id IS NULL", date.Time(), zoneID.Bytes()).
		Order("id"))
}

func (r *GormOrderRepository) ListByRun(ctx context.Context, runID kernel.UUID) ([]*order.Order, error) {
	return r.find(ctx, r.db.Where("run_id = ?", runID.Bytes()).Order("run_sequence, id"))
}

func (r *GormOrderRepository) ListWithoutCoordinates(
	ctx context.Context,
	from kernel.Date,
	limit int,
) ([]*order.Order, error) {
	return r.find(ctx, r.db.
		Where("scheduled_date >= ? AND (lng IS NULL OR lat IS NULL)", from.Time()).
		Order("scheduled_date, id").
		Limit(limit))
}

// AssignZoneIfUnassigned only touches rows whose zone_id is still NULL; a
// concurrent writer that got there first keeps its zone.
func (r *GormOrderRepository) AssignZoneIfUnassigned(
	ctx context.Context,
	zoneID kernel.UUID,
	orderIDs []kernel.UUID,
) (int64, error) {
	if len(orderIDs) == 0 {
		return 0, nil
	}
	if err := zoneID.Validate(); err != nil {
		return 0, err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ANY(?) AND zone_id IS NULL", pgutil.UUIDArray(orderIDs)).
		Update("zone_id", zoneID.Bytes())
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *GormOrderRepository) MoveZone(
	ctx context.Context,
	orderID kernel.UUID,
	from kernel.UUID,
	to kernel.UUID,
) (bool, error) {
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND zone_id = ? AND run_id IS NULL", orderID.Bytes(), from.Bytes()).
		Update("zone_id", to.Bytes())
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *GormOrderRepository) AttachToRun(
	ctx context.Context,
	runID kernel.UUID,
	zoneID kernel.UUID,
	orderIDs []kernel.UUID,
	firstSequence int,
) ([]kernel.UUID, error) {
	attached := make([]kernel.UUID, 0, len(orderIDs))
	seq := firstSequence
	for _, id := range orderIDs {
		result := r.db.WithContext(ctx).Model(&OrderDTO{}).
			Where("id = ? AND zone_id = ? AND run_id IS NULL", id.Bytes(), zoneID.Bytes()).
			Updates(map[string]any{"run_id": runID.Bytes(), "run_sequence": seq})
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 1 {
			attached = append(attached, id)
			seq++
		}
	}
	return attached, nil
}

// DetachFromRun clears run membership of every order on runID.
func (r *GormOrderRepository) DetachFromRun(ctx context.Context, runID kernel.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("run_id = ?", runID.Bytes()).
		Updates(map[string]any{"run_id": nil, "run_sequence": 0})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *GormOrderRepository) find(ctx context.Context, query *gorm.DB) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := query.WithContext(ctx).Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}
