package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCreateDriverCommandIsNotConstructed = errors.New(
	"CreateDriverCommand must be created via NewCreateDriverCommand constructor",
)

type CreateDriverCommand struct {
	driverID kernel.UUID
	name     string
	phone    string

	guard guard.ConstructorGuard
}

func NewCreateDriverCommand(driverID kernel.UUID, name string, phone string) (CreateDriverCommand, error) {
	d, err := fleet.NewDriver(driverID, name, phone)
	if err != nil {
		return CreateDriverCommand{}, err
	}
	return CreateDriverCommand{
		driverID: d.ID(),
		name:     d.Name(),
		phone:    d.Phone(),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c CreateDriverCommand) Validate() error {
	return c.guard.Validate(ErrCreateDriverCommandIsNotConstructed)
}

func (c CreateDriverCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c CreateDriverCommand) Name() string {
	return c.name
}

func (c CreateDriverCommand) Phone() string {
	return c.phone
}
