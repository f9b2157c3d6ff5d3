package queries

import (
	"context"

	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/run"
	"dispatch/internal/core/domain/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetFleetAvailabilityQueryHandler struct {
	db *gorm.DB
}

func NewGetFleetAvailabilityQueryHandler(db *gorm.DB) GetFleetAvailabilityQueryHandler {
	return GetFleetAvailabilityQueryHandler{db: db}
}

// Handle builds a FleetAvailabilityIndex from the date's committed runs and
// splits the fleet into busy and free. Inactive drivers and vehicles that
// are not committed appear in neither list.
func (h GetFleetAvailabilityQueryHandler) Handle(
	ctx context.Context,
	query GetFleetAvailabilityQuery,
) (GetFleetAvailabilityQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetFleetAvailabilityQueryResponse{}, err
	}

	runs, err := h.committedRuns(ctx, query.Date())
	if err != nil {
		return GetFleetAvailabilityQueryResponse{}, err
	}
	index := services.NewFleetAvailabilityIndex(query.Date(), runs)

	drivers, err := h.drivers(ctx)
	if err != nil {
		return GetFleetAvailabilityQueryResponse{}, err
	}
	vehicles, err := h.vehicles(ctx)
	if err != nil {
		return GetFleetAvailabilityQueryResponse{}, err
	}

	response := GetFleetAvailabilityQueryResponse{
		Date:         query.Date(),
		BusyDrivers:  make([]DriverAvailability, 0),
		FreeDrivers:  make([]DriverAvailability, 0),
		BusyVehicles: make([]VehicleAvailability, 0),
		FreeVehicles: make([]VehicleAvailability, 0),
	}

	driversByID := make(map[kernel.UUID]*fleet.Driver, len(drivers))
	for _, d := range drivers {
		driversByID[d.ID()] = d
	}
	for _, id := range index.BusyDriverIDs() {
		d, ok := driversByID[id]
		if !ok {
			continue
		}
		runID, _ := index.DriverRun(id)
		response.BusyDrivers = append(response.BusyDrivers, driverAvailability(d, &runID))
	}
	for _, d := range index.FreeDrivers(drivers) {
		response.FreeDrivers = append(response.FreeDrivers, driverAvailability(d, nil))
	}

	vehiclesByID := make(map[kernel.UUID]*fleet.Vehicle, len(vehicles))
	for _, v := range vehicles {
		vehiclesByID[v.ID()] = v
	}
	for _, id := range index.BusyVehicleIDs() {
		v, ok := vehiclesByID[id]
		if !ok {
			continue
		}
		runID, _ := index.VehicleRun(id)
		response.BusyVehicles = append(response.BusyVehicles, vehicleAvailability(v, &runID))
	}
	for _, v := range index.FreeVehicles(vehicles) {
		response.FreeVehicles = append(response.FreeVehicles, vehicleAvailability(v, nil))
	}

	return response, nil
}

func (h GetFleetAvailabilityQueryHandler) committedRuns(ctx context.Context, date kernel.Date) ([]*run.DeliveryRun, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			run_number,
			status,
			driver_id,
			vehicle_id
		FROM delivery_runs
		WHERE scheduled_date = ?
			AND status <> ?
			AND driver_id IS NOT NULL
	`, date.Time(), int(run.Cancelled)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]*run.DeliveryRun, 0)
	for rows.Next() {
		var id, driverID, vehicleID uuid.UUID
		var runNumber string
		var status int

		if err = rows.Scan(&id, &runNumber, &status, &driverID, &vehicleID); err != nil {
			return nil, err
		}

		ids := make([]kernel.UUID, 0, 3)
		for _, raw := range []uuid.UUID{id, driverID, vehicleID} {
			v, idErr := kernel.UUIDFromBytes(raw[:])
			if idErr != nil {
				return nil, idErr
			}
			ids = append(ids, v)
		}

		r, restoreErr := run.RestoreRun(run.RestoreParams{
			ID:            ids[0],
			RunNumber:     runNumber,
			ScheduledDate: date,
			Status:        run.Status(status),
			DriverID:      &ids[1],
			VehicleID:     &ids[2],
		})
		if restoreErr != nil {
			return nil, restoreErr
		}
		runs = append(runs, r)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

func (h GetFleetAvailabilityQueryHandler) drivers(ctx context.Context) ([]*fleet.Driver, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, name, phone, status
		FROM drivers
		ORDER BY name, id
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drivers := make([]*fleet.Driver, 0)
	for rows.Next() {
		var id uuid.UUID
		var name, phone string
		var status int

		if err = rows.Scan(&id, &name, &phone, &status); err != nil {
			return nil, err
		}
		driverID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		d, restoreErr := fleet.RestoreDriver(driverID, name, phone, fleet.Status(status))
		if restoreErr != nil {
			return nil, restoreErr
		}
		drivers = append(drivers, d)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return drivers, nil
}

func (h GetFleetAvailabilityQueryHandler) vehicles(ctx context.Context) ([]*fleet.Vehicle, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, plate, capacity_kg, capacity_cubic_m, status
		FROM vehicles
		ORDER BY plate
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := make([]*fleet.Vehicle, 0)
	for rows.Next() {
		var id uuid.UUID
		var plate string
		var capacityKg, capacityCubicM float64
		var status int

		if err = rows.Scan(&id, &plate, &capacityKg, &capacityCubicM, &status); err != nil {
			return nil, err
		}
		vehicleID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		v, restoreErr := fleet.RestoreVehicle(vehicleID, plate, capacityKg, capacityCubicM, fleet.Status(status))
		if restoreErr != nil {
			return nil, restoreErr
		}
		vehicles = append(vehicles, v)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return vehicles, nil
}

func driverAvailability(d *fleet.Driver, runID *kernel.UUID) DriverAvailability {
	return DriverAvailability{
		ID:     d.ID(),
		Name:   d.Name(),
		Phone:  d.Phone(),
		Status: d.Status().String(),
		RunID:  runID,
	}
}

func vehicleAvailability(v *fleet.Vehicle, runID *kernel.UUID) VehicleAvailability {
	return VehicleAvailability{
		ID:             v.ID(),
		Plate:          v.Plate(),
		CapacityKg:     v.CapacityKg(),
		CapacityCubicM: v.CapacityCubicM(),
		Status:         v.Status().String(),
		RunID:          runID,
	}
}
