package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
)

var ErrRebalanceZonesCommandIsNotConstructed = errors.New(
	"RebalanceZonesCommand must be created via NewRebalanceZonesCommand constructor",
)

// RebalanceZonesCommand moves unrun orders from overloaded zones to
// underutilized neighbours for one date.
type RebalanceZonesCommand struct {
	dateCommand
}

func NewRebalanceZonesCommand(date kernel.Date) (RebalanceZonesCommand, error) {
	dc, err := newDateCommand(date)
	if err != nil {
		return RebalanceZonesCommand{}, err
	}
	return RebalanceZonesCommand{dateCommand: dc}, nil
}

func (c RebalanceZonesCommand) Validate() error {
	return c.guard.Validate(ErrRebalanceZonesCommandIsNotConstructed)
}
