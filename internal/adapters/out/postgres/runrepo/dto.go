// Package runrepo persists delivery runs with gorm and turns violations of
// the per-date exclusivity indexes into conflict errors.
package runrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/run"

	"github.com/google/uuid"
)

// RunDTO is the delivery_runs row. Order membership lives on orders.run_id.
type RunDTO struct {
	ID                       uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RunNumber                string     `gorm:"not null;uniqueIndex"`
	ScheduledDate            time.Time  `gorm:"type:date;not null;index"`
	Status                   int        `gorm:"not null"`
	ZoneID                   *uuid.UUID `gorm:"type:uuid"`
	DriverID                 *uuid.UUID `gorm:"type:uuid"`
	VehicleID                *uuid.UUID `gorm:"type:uuid"`
	EstimatedDurationMinutes *float64
	TotalDistanceKm          *float64
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

func (RunDTO) TableName() string {
	return "delivery_runs"
}

func fromDomain(r *run.DeliveryRun) RunDTO {
	return RunDTO{
		ID:                       r.ID().Bytes(),
		RunNumber:                r.RunNumber(),
		ScheduledDate:            r.ScheduledDate().Time(),
		Status:                   int(r.Status()),
		ZoneID:                   optionalID(r.ZoneID()),
		DriverID:                 optionalID(r.DriverID()),
		VehicleID:                optionalID(r.VehicleID()),
		EstimatedDurationMinutes: r.EstimatedDurationMinutes(),
		TotalDistanceKm:          r.TotalDistanceKm(),
	}
}

func toDomain(dto RunDTO, orderIDs []kernel.UUID) (*run.DeliveryRun, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var ids [3]*kernel.UUID
	for i, raw := range []*uuid.UUID{dto.ZoneID, dto.DriverID, dto.VehicleID} {
		if raw == nil {
			continue
		}
		v, idErr := kernel.UUIDFromBytes(raw[:])
		if idErr != nil {
			return nil, idErr
		}
		ids[i] = &v
	}

	return run.RestoreRun(run.RestoreParams{
		ID:                       id,
		RunNumber:                dto.RunNumber,
		ScheduledDate:            kernel.DateFromTime(dto.ScheduledDate),
		Status:                   run.Status(dto.Status),
		ZoneID:                   ids[0],
		DriverID:                 ids[1],
		VehicleID:                ids[2],
		OrderIDs:                 orderIDs,
		EstimatedDurationMinutes: dto.EstimatedDurationMinutes,
		TotalDistanceKm:          dto.TotalDistanceKm,
	})
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}
