package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetFleetAvailabilityQueryIsNotConstructed = errors.New(
		"GetFleetAvailabilityQuery must be created via NewGetFleetAvailabilityQuery constructor",
	)
)

// GetFleetAvailabilityQuery reports which drivers and vehicles are committed
// to a non-cancelled run on a date and which active ones are still free.
type GetFleetAvailabilityQuery struct {
	date  kernel.Date
	guard guard.ConstructorGuard
}

func NewGetFleetAvailabilityQuery(date kernel.Date) (GetFleetAvailabilityQuery, error) {
	if err := date.Validate(); err != nil {
		return GetFleetAvailabilityQuery{}, err
	}
	return GetFleetAvailabilityQuery{date: date, guard: guard.NewConstructorGuard()}, nil
}

func (q GetFleetAvailabilityQuery) Validate() error {
	return q.guard.Validate(ErrGetFleetAvailabilityQueryIsNotConstructed)
}

func (q GetFleetAvailabilityQuery) Date() kernel.Date {
	return q.date
}

// DriverAvailability is a driver row. RunID is set for busy drivers.
type DriverAvailability struct {
	ID     kernel.UUID
	Name   string
	Phone  string
	Status string
	RunID  *kernel.UUID
}

type VehicleAvailability struct {
	ID             kernel.UUID
	Plate          string
	CapacityKg     float64
	CapacityCubicM float64
	Status         string
	RunID          *kernel.UUID
}

type GetFleetAvailabilityQueryResponse struct {
	Date         kernel.Date
	BusyDrivers  []DriverAvailability
	FreeDrivers  []DriverAvailability
	BusyVehicles []VehicleAvailability
	FreeVehicles []VehicleAvailability
}
