package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrFinalizeRunCommandIsNotConstructed = errors.New(
	"FinalizeRunCommand must be created via NewFinalizeRunCommand constructor",
)

type FinalizeRunCommand struct {
	runID kernel.UUID
	guard guard.ConstructorGuard
}

func NewFinalizeRunCommand(runID kernel.UUID) (FinalizeRunCommand, error) {
	if err := runID.Validate(); err != nil {
		return FinalizeRunCommand{}, err
	}
	return FinalizeRunCommand{runID: runID, guard: guard.NewConstructorGuard()}, nil
}

func (c FinalizeRunCommand) Validate() error {
	return c.guard.Validate(ErrFinalizeRunCommandIsNotConstructed)
}

func (c FinalizeRunCommand) RunID() kernel.UUID {
	return c.runID
}
