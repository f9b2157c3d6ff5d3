package fleet

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	// ErrNameIsRequired is returned when a driver has a blank name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrPhoneIsRequired is returned when a driver has no phone to notify.
	ErrPhoneIsRequired = errs.NewValueIsRequiredError("phone")
	// ErrDriverIsNotConstructed is returned when using an improperly initialized Driver.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver constructor")
)

// Driver is a person who can be bound to at most one active run per date.
//
// Example:
//
//	d, err := fleet.NewDriver(kernel.NewUUID(), "Maria Lopez", "+15125550142")
//	if err != nil {
//	    return err
//	}
//	d.Deactivate() // no longer offered for assignment
type Driver struct {
	id     kernel.UUID
	name   string
	phone  string
	status Status
	guard  guard.ConstructorGuard
}

// NewDriver creates an active driver.
func NewDriver(id kernel.UUID, name string, phone string) (*Driver, error) {
	return RestoreDriver(id, name, phone, Active)
}

// RestoreDriver rebuilds a driver from storage.
func RestoreDriver(id kernel.UUID, name string, phone string, status Status) (*Driver, error) {
	d := &Driver{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
		d.setPhone(phone),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	d.status = status

	return d, nil
}

func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

func (d *Driver) ID() kernel.UUID {
	return d.id
}

func (d *Driver) Name() string {
	return d.name
}

func (d *Driver) Phone() string {
	return d.phone
}

func (d *Driver) Status() Status {
	return d.status
}

func (d *Driver) IsActive() bool {
	return d.status == Active
}

// RequireActive returns ValueIsInvalidError for an inactive driver.
func (d *Driver) RequireActive() error {
	if !d.IsActive() {
		return errs.NewValueIsInvalidErrorWithCause("driverId",
			errors.New("driver "+d.id.String()+" is inactive"))
	}
	return nil
}

func (d *Driver) Activate() {
	d.status = Active
}

func (d *Driver) Deactivate() {
	d.status = Inactive
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	d.name = name
	return nil
}

func (d *Driver) setPhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ErrPhoneIsRequired
	}
	d.phone = phone
	return nil
}
