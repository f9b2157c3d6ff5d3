package runrepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"dispatch/internal/adapters/out/postgres/pgutil"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/run"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Partial unique indexes on delivery_runs, created by the migration.
const (
	IndexDriverPerDate    = "ux_delivery_runs_driver_date"
	IndexVehiclePerDate   = "ux_delivery_runs_vehicle_date"
	IndexActiveZonePerDay = "ux_delivery_runs_zone_date_active"
)

// IndexDDL creates the indexes that enforce, inside postgres, that a driver
// or vehicle is on at most one non-cancelled run per date and that a zone
// has at most one active run per date.
func IndexDDL() []string {
	active := make([]string, 0, 4)
	for _, s := range run.ActiveStatuses() {
		active = append(active, strconv.Itoa(int(s)))
	}
	return []string{
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s ON delivery_runs (scheduled_date, driver_id)
			WHERE status <> %d AND driver_id IS NOT NULL`, IndexDriverPerDate, int(run.Cancelled)),
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s ON delivery_runs (scheduled_date, vehicle_id)
			WHERE status <> %d AND vehicle_id IS NOT NULL`, IndexVehiclePerDate, int(run.Cancelled)),
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s ON delivery_runs (zone_id, scheduled_date)
			WHERE status IN (%s) AND zone_id IS NOT NULL`, IndexActiveZonePerDay, strings.Join(active, ", ")),
	}
}

type GormRunRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormRunRepository(db *gorm.DB, tracker aggregateTracker) *GormRunRepository {
	return &GormRunRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormRunRepository) Add(ctx context.Context, aggregate *run.DeliveryRun) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return translate(err, aggregate)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormRunRepository) Update(ctx context.Context, aggregate *run.DeliveryRun) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&RunDTO{}).
		Where("id = ?", dto.ID).
		Select("status", "driver_id", "vehicle_id", "estimated_duration_minutes", "total_distance_km", "updated_at").
		Updates(&dto)
	if result.Error != nil {
		return translate(result.Error, aggregate)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("run", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormRunRepository) Get(ctx context.Context, id kernel.UUID) (*run.DeliveryRun, error) {
	return r.get(ctx, r.db, id)
}

// GetForUpdate takes a row lock with SELECT ... FOR UPDATE.
func (r *GormRunRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*run.DeliveryRun, error) {
	return r.get(ctx, r.db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}), id)
}

func (r *GormRunRepository) FindActiveForZone(
	ctx context.Context,
	zoneID kernel.UUID,
	date kernel.Date,
) (*run.DeliveryRun, error) {
	var dto RunDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("zone_id = ? AND scheduled_date = ? AND status IN ?", zoneID.Bytes(), date.Time(), activeStatusValues()).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("run", fmt.Sprintf("active run for zone %s on %s", zoneID, date))
		}
		return nil, err
	}

	return r.withOrders(ctx, dto)
}

func (r *GormRunRepository) ListForDate(ctx context.Context, date kernel.Date) ([]*run.DeliveryRun, error) {
	var dtos []RunDTO
	if err := r.db.WithContext(ctx).
		Where("scheduled_date = ?", date.Time()).
		Order("run_number").
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return nil, nil
	}

	runIDs := make([]uuid.UUID, len(dtos))
	for i, dto := range dtos {
		runIDs[i] = dto.ID
	}

	var members []membership
	if err := r.db.WithContext(ctx).Table("orders").
		Select("id, run_id").
		Where("run_id IN ?", runIDs).
		Order("run_sequence, id").
		Scan(&members).Error; err != nil {
		return nil, err
	}

	byRun := make(map[uuid.UUID][]kernel.UUID, len(dtos))
	for _, m := range members {
		id, err := kernel.UUIDFromBytes(m.ID[:])
		if err != nil {
			return nil, err
		}
		byRun[m.RunID] = append(byRun[m.RunID], id)
	}

	runs := make([]*run.DeliveryRun, 0, len(dtos))
	for _, dto := range dtos {
		dr, err := toDomain(dto, byRun[dto.ID])
		if err != nil {
			return nil, err
		}
		runs = append(runs, dr)
	}
	return runs, nil
}

type membership struct {
	ID    uuid.UUID
	RunID uuid.UUID
}

func (r *GormRunRepository) get(ctx context.Context, db *gorm.DB, id kernel.UUID) (*run.DeliveryRun, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RunDTO
	if err := db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("run", id.String())
		}
		return nil, err
	}

	return r.withOrders(ctx, dto)
}

func (r *GormRunRepository) withOrders(ctx context.Context, dto RunDTO) (*run.DeliveryRun, error) {
	var raw []uuid.UUID
	if err := r.db.WithContext(ctx).Table("orders").
		Where("run_id = ?", dto.ID).
		Order("run_sequence, id").
		Pluck("id", &raw).Error; err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(raw))
	for _, b := range raw {
		id, err := kernel.UUIDFromBytes(b[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return toDomain(dto, ids)
}

// translate maps unique violations to conflicts naming the rule that fired.
func translate(err error, aggregate *run.DeliveryRun) error {
	constraint, ok := pgutil.UniqueViolation(err)
	if !ok {
		return err
	}

	id := aggregate.ID().String()
	switch constraint {
	case IndexActiveZonePerDay:
		return errs.NewConflictErrorWithCause(errs.MsgDuplicateRunForDay, "run", id, err)
	case IndexDriverPerDate, IndexVehiclePerDate:
		return errs.NewConflictErrorWithCause(errs.MsgResourceCommitted, "run", id, err)
	}
	return errs.NewConflictErrorWithCause("run already exists", "run", id, err)
}

func activeStatusValues() []int {
	statuses := run.ActiveStatuses()
	out := make([]int, len(statuses))
	for i, s := range statuses {
		out[i] = int(s)
	}
	return out
}
