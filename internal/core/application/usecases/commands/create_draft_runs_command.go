package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
)

var ErrCreateDraftRunsCommandIsNotConstructed = errors.New(
	"CreateDraftRunsCommand must be created via NewCreateDraftRunsCommand constructor",
)

// CreateDraftRunsCommand groups the zoned, unrun orders of a date into one
// run per zone.
type CreateDraftRunsCommand struct {
	dateCommand
}

func NewCreateDraftRunsCommand(date kernel.Date) (CreateDraftRunsCommand, error) {
	dc, err := newDateCommand(date)
	if err != nil {
		return CreateDraftRunsCommand{}, err
	}
	return CreateDraftRunsCommand{dateCommand: dc}, nil
}

func (c CreateDraftRunsCommand) Validate() error {
	return c.guard.Validate(ErrCreateDraftRunsCommandIsNotConstructed)
}
