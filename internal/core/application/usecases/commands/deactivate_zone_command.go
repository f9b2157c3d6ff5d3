package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrDeactivateZoneCommandIsNotConstructed = errors.New(
	"DeactivateZoneCommand must be created via NewDeactivateZoneCommand constructor",
)

type DeactivateZoneCommand struct {
	zoneID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeactivateZoneCommand(zoneID kernel.UUID) (DeactivateZoneCommand, error) {
	if err := zoneID.Validate(); err != nil {
		return DeactivateZoneCommand{}, err
	}
	return DeactivateZoneCommand{
		zoneID: zoneID,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c DeactivateZoneCommand) Validate() error {
	return c.guard.Validate(ErrDeactivateZoneCommandIsNotConstructed)
}

func (c DeactivateZoneCommand) ZoneID() kernel.UUID {
	return c.zoneID
}
