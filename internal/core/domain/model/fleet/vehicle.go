package fleet

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrPlateIsRequired = errs.NewValueIsRequiredError("plate")
	// ErrVehicleIsNotConstructed is returned when using an improperly initialized Vehicle.
	ErrVehicleIsNotConstructed = errors.New("Vehicle must be created via NewVehicle constructor")
)

// Vehicle carries a run's orders. Both capacities must be positive.
type Vehicle struct {
	id             kernel.UUID
	plate          string
	capacityKg     float64
	capacityCubicM float64
	status         Status
	guard          guard.ConstructorGuard
}

// NewVehicle creates an active vehicle.
func NewVehicle(id kernel.UUID, plate string, capacityKg float64, capacityCubicM float64) (*Vehicle, error) {
	return RestoreVehicle(id, plate, capacityKg, capacityCubicM, Active)
}

// RestoreVehicle rebuilds a vehicle from storage.
func RestoreVehicle(
	id kernel.UUID,
	plate string,
	capacityKg float64,
	capacityCubicM float64,
	status Status,
) (*Vehicle, error) {
	v := &Vehicle{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		v.setID(id),
		v.setPlate(plate),
		v.setCapacity("capacityKg", capacityKg, &v.capacityKg),
		v.setCapacity("capacityCubicM", capacityCubicM, &v.capacityCubicM),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	v.status = status

	return v, nil
}

func (v *Vehicle) Validate() error {
	if v == nil {
		return ErrVehicleIsNotConstructed
	}
	return v.guard.Validate(ErrVehicleIsNotConstructed)
}

func (v *Vehicle) ID() kernel.UUID {
	return v.id
}

func (v *Vehicle) Plate() string {
	return v.plate
}

func (v *Vehicle) CapacityKg() float64 {
	return v.capacityKg
}

func (v *Vehicle) CapacityCubicM() float64 {
	return v.capacityCubicM
}

func (v *Vehicle) Status() Status {
	return v.status
}

func (v *Vehicle) IsActive() bool {
	return v.status == Active
}

// RequireActive returns ValueIsInvalidError for an inactive vehicle.
func (v *Vehicle) RequireActive() error {
	if !v.IsActive() {
		return errs.NewValueIsInvalidErrorWithCause("vehicleId",
			fmt.Errorf("vehicle %s is inactive", v.plate))
	}
	return nil
}

func (v *Vehicle) Activate() {
	v.status = Active
}

func (v *Vehicle) Deactivate() {
	v.status = Inactive
}

func (v *Vehicle) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	v.id = id
	return nil
}

func (v *Vehicle) setPlate(plate string) error {
	plate = strings.ToUpper(strings.TrimSpace(plate))
	if plate == "" {
		return ErrPlateIsRequired
	}
	v.plate = plate
	return nil
}

func (v *Vehicle) setCapacity(name string, value float64, dst *float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return errs.NewValueIsOutOfRangeError(name, value, 0, math.Inf(1))
	}
	*dst = value
	return nil
}
