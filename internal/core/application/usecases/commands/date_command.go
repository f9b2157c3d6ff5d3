package commands

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

// dateCommand carries the scheduled date shared by the dispatch planning
// commands.
type dateCommand struct {
	date  kernel.Date
	guard guard.ConstructorGuard
}

func newDateCommand(date kernel.Date) (dateCommand, error) {
	if err := date.Validate(); err != nil {
		return dateCommand{}, err
	}
	return dateCommand{date: date, guard: guard.NewConstructorGuard()}, nil
}

func (c dateCommand) Date() kernel.Date {
	return c.date
}
