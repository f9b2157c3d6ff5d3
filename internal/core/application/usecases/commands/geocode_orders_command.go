package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrGeocodeOrdersCommandIsNotConstructed = errors.New(
	"GeocodeOrdersCommand must be created via NewGeocodeOrdersCommand constructor",
)

const maxGeocodeBatch = 500

// GeocodeOrdersCommand resolves coordinates for up to limit orders scheduled
// on or after from.
type GeocodeOrdersCommand struct {
	from  kernel.Date
	limit int

	guard guard.ConstructorGuard
}

func NewGeocodeOrdersCommand(from kernel.Date, limit int) (GeocodeOrdersCommand, error) {
	if err := from.Validate(); err != nil {
		return GeocodeOrdersCommand{}, err
	}
	if limit < 1 || limit > maxGeocodeBatch {
		return GeocodeOrdersCommand{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, maxGeocodeBatch)
	}
	return GeocodeOrdersCommand{from: from, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (c GeocodeOrdersCommand) Validate() error {
	return c.guard.Validate(ErrGeocodeOrdersCommandIsNotConstructed)
}

func (c GeocodeOrdersCommand) From() kernel.Date {
	return c.from
}

func (c GeocodeOrdersCommand) Limit() int {
	return c.limit
}
