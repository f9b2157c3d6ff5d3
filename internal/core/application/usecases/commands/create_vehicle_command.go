package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCreateVehicleCommandIsNotConstructed = errors.New(
	"CreateVehicleCommand must be created via NewCreateVehicleCommand constructor",
)

type CreateVehicleCommand struct {
	vehicleID      kernel.UUID
	plate          string
	capacityKg     float64
	capacityCubicM float64

	guard guard.ConstructorGuard
}

func NewCreateVehicleCommand(
	vehicleID kernel.UUID,
	plate string,
	capacityKg float64,
	capacityCubicM float64,
) (CreateVehicleCommand, error) {
	v, err := fleet.NewVehicle(vehicleID, plate, capacityKg, capacityCubicM)
	if err != nil {
		return CreateVehicleCommand{}, err
	}
	return CreateVehicleCommand{
		vehicleID:      v.ID(),
		plate:          v.Plate(),
		capacityKg:     v.CapacityKg(),
		capacityCubicM: v.CapacityCubicM(),
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c CreateVehicleCommand) Validate() error {
	return c.guard.Validate(ErrCreateVehicleCommandIsNotConstructed)
}

func (c CreateVehicleCommand) VehicleID() kernel.UUID {
	return c.vehicleID
}

func (c CreateVehicleCommand) Plate() string {
	return c.plate
}

func (c CreateVehicleCommand) CapacityKg() float64 {
	return c.capacityKg
}

func (c CreateVehicleCommand) CapacityCubicM() float64 {
	return c.capacityCubicM
}
