package queries

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/run"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetRunsForDateQueryHandler struct {
	db *gorm.DB
}

func NewGetRunsForDateQueryHandler(db *gorm.DB) GetRunsForDateQueryHandler {
	return GetRunsForDateQueryHandler{db: db}
}

// Handle returns the date's runs ordered by run number. Load totals skip
// NaN weights and volumes the same way capacity validation does.
func (h GetRunsForDateQueryHandler) Handle(
	ctx context.Context,
	query GetRunsForDateQuery,
) ([]GetRunsForDateQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	excluded := -1
	if !query.IncludeCancelled() {
		excluded = int(run.Cancelled)
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			r.id,
			r.run_number,
			r.status,
			r.zone_id,
			COALESCE(z.name, ''),
			r.driver_id,
			COALESCE(d.name, ''),
			r.vehicle_id,
			COALESCE(v.plate, ''),
			COUNT(o.id),
			COALESCE(SUM(o.weight_kg) FILTER (WHERE o.weight_kg <> 'NaN'), 0),
			COALESCE(SUM(o.volume_m3) FILTER (WHERE o.volume_m3 <> 'NaN'), 0),
			r.estimated_duration_minutes,
			r.total_distance_km
		FROM delivery_runs r
		LEFT JOIN zones z ON z.id = r.zone_id
		LEFT JOIN drivers d ON d.id = r.driver_id
		LEFT JOIN vehicles v ON v.id = r.vehicle_id
		LEFT JOIN orders o ON o.run_id = r.id
		WHERE r.scheduled_date = ? AND r.status <> ?
		GROUP BY r.id, z.name, d.name, v.plate
		ORDER BY r.run_number
	`, query.Date().Time(), excluded).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]GetRunsForDateQueryResponse, 0)
	for rows.Next() {
		var r GetRunsForDateQueryResponse
		var id uuid.UUID
		var zoneID, driverID, vehicleID *uuid.UUID
		var status int

		err = rows.Scan(
			&id,
			&r.RunNumber,
			&status,
			&zoneID,
			&r.ZoneName,
			&driverID,
			&r.DriverName,
			&vehicleID,
			&r.VehiclePlate,
			&r.OrderCount,
			&r.TotalWeightKg,
			&r.TotalVolumeM3,
			&r.EstimatedDurationMinutes,
			&r.TotalDistanceKm,
		)
		if err != nil {
			return nil, err
		}

		runID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		r.ID = runID
		r.Status = run.Status(status).String()

		if r.ZoneID, err = optionalUUID(zoneID); err != nil {
			return nil, err
		}
		if r.DriverID, err = optionalUUID(driverID); err != nil {
			return nil, err
		}
		if r.VehicleID, err = optionalUUID(vehicleID); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

func optionalUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
