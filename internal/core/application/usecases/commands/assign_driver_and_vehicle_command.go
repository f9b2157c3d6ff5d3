package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrAssignDriverAndVehicleCommandIsNotConstructed = errors.New(
	"AssignDriverAndVehicleCommand must be created via NewAssignDriverAndVehicleCommand constructor",
)

// AssignDriverAndVehicleCommand binds a driver and a vehicle to a run for
// the run's scheduled date.
//
// Example:
//
//	cmd, err := NewAssignDriverAndVehicleCommand(runID, driverID, vehicleID)
//	if err != nil {
//	    return err
//	}
//	r, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrConflict) {
//	    // pick another driver or vehicle
//	}
type AssignDriverAndVehicleCommand struct {
	runID     kernel.UUID
	driverID  kernel.UUID
	vehicleID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignDriverAndVehicleCommand(
	runID kernel.UUID,
	driverID kernel.UUID,
	vehicleID kernel.UUID,
) (AssignDriverAndVehicleCommand, error) {
	if err := errors.Join(runID.Validate(), driverID.Validate(), vehicleID.Validate()); err != nil {
		return AssignDriverAndVehicleCommand{}, err
	}

	return AssignDriverAndVehicleCommand{
		runID:     runID,
		driverID:  driverID,
		vehicleID: vehicleID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AssignDriverAndVehicleCommand) Validate() error {
	return c.guard.Validate(ErrAssignDriverAndVehicleCommandIsNotConstructed)
}

func (c AssignDriverAndVehicleCommand) RunID() kernel.UUID {
	return c.runID
}

func (c AssignDriverAndVehicleCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c AssignDriverAndVehicleCommand) VehicleID() kernel.UUID {
	return c.vehicleID
}
