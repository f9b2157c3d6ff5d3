package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
)

var ErrAutoAssignZonesCommandIsNotConstructed = errors.New(
	"AutoAssignZonesCommand must be created via NewAutoAssignZonesCommand constructor",
)

// AutoAssignZonesCommand zones every unzoned order scheduled on a date.
type AutoAssignZonesCommand struct {
	dateCommand
}

func NewAutoAssignZonesCommand(date kernel.Date) (AutoAssignZonesCommand, error) {
	dc, err := newDateCommand(date)
	if err != nil {
		return AutoAssignZonesCommand{}, err
	}
	return AutoAssignZonesCommand{dateCommand: dc}, nil
}

func (c AutoAssignZonesCommand) Validate() error {
	return c.guard.Validate(ErrAutoAssignZonesCommandIsNotConstructed)
}
