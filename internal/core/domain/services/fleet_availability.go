package services

import (
	"sort"

	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/run"
)

// FleetAvailabilityIndex records which drivers and vehicles are committed to
// a non-cancelled run on one date. It is derived from run records only and
// is never mutated after construction.
type FleetAvailabilityIndex struct {
	date     kernel.Date
	drivers  map[kernel.UUID]kernel.UUID
	vehicles map[kernel.UUID]kernel.UUID
}

// NewFleetAvailabilityIndex indexes runs scheduled on date. Runs on other
// dates and cancelled runs are ignored.
func NewFleetAvailabilityIndex(date kernel.Date, runs []*run.DeliveryRun) FleetAvailabilityIndex {
	idx := FleetAvailabilityIndex{
		date:     date,
		drivers:  make(map[kernel.UUID]kernel.UUID),
		vehicles: make(map[kernel.UUID]kernel.UUID),
	}

	for _, r := range runs {
		if r.Status() == run.Cancelled || !r.ScheduledDate().IsEqual(date) {
			continue
		}
		if id := r.DriverID(); id != nil {
			idx.drivers[*id] = r.ID()
		}
		if id := r.VehicleID(); id != nil {
			idx.vehicles[*id] = r.ID()
		}
	}
	return idx
}

func (i FleetAvailabilityIndex) Date() kernel.Date {
	return i.date
}

// BusyDriverIDs is sorted by string form for stable output.
func (i FleetAvailabilityIndex) BusyDriverIDs() []kernel.UUID {
	return sortedKeys(i.drivers)
}

func (i FleetAvailabilityIndex) BusyVehicleIDs() []kernel.UUID {
	return sortedKeys(i.vehicles)
}

// DriverRun returns the run the driver is committed to.
func (i FleetAvailabilityIndex) DriverRun(driverID kernel.UUID) (kernel.UUID, bool) {
	id, ok := i.drivers[driverID]
	return id, ok
}

func (i FleetAvailabilityIndex) VehicleRun(vehicleID kernel.UUID) (kernel.UUID, bool) {
	id, ok := i.vehicles[vehicleID]
	return id, ok
}

// FreeDrivers filters drivers down to the active ones not committed on the date.
func (i FleetAvailabilityIndex) FreeDrivers(drivers []*fleet.Driver) []*fleet.Driver {
	out := make([]*fleet.Driver, 0, len(drivers))
	for _, d := range drivers {
		if _, busy := i.drivers[d.ID()]; !busy && d.IsActive() {
			out = append(out, d)
		}
	}
	return out
}

func (i FleetAvailabilityIndex) FreeVehicles(vehicles []*fleet.Vehicle) []*fleet.Vehicle {
	out := make([]*fleet.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if _, busy := i.vehicles[v.ID()]; !busy && v.IsActive() {
			out = append(out, v)
		}
	}
	return out
}

func sortedKeys(m map[kernel.UUID]kernel.UUID) []kernel.UUID {
	out := make([]kernel.UUID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Slice(out, func(a, b int) bool {
		return out[a].String() < out[b].String()
	})
	return out
}
