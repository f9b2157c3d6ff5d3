package commands

import (
	"errors"
	"fmt"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrChangeRunStatusCommandIsNotConstructed = errors.New(
	"ChangeRunStatusCommand must be created via NewChangeRunStatusCommand constructor",
)

// RunAction is an externally triggered lifecycle transition.
type RunAction string

const (
	RunActionPlan     RunAction = "plan"
	RunActionStart    RunAction = "start"
	RunActionComplete RunAction = "complete"
	RunActionCancel   RunAction = "cancel"
)

func ParseRunAction(s string) (RunAction, error) {
	a := RunAction(strings.ToLower(strings.TrimSpace(s)))
	switch a {
	case RunActionPlan, RunActionStart, RunActionComplete, RunActionCancel:
		return a, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not a run action", s))
	}
}

type ChangeRunStatusCommand struct {
	runID  kernel.UUID
	action RunAction

	guard guard.ConstructorGuard
}

func NewChangeRunStatusCommand(runID kernel.UUID, action string) (ChangeRunStatusCommand, error) {
	a, err := ParseRunAction(action)
	if err = errors.Join(runID.Validate(), err); err != nil {
		return ChangeRunStatusCommand{}, err
	}
	return ChangeRunStatusCommand{
		runID:  runID,
		action: a,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c ChangeRunStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeRunStatusCommandIsNotConstructed)
}

func (c ChangeRunStatusCommand) RunID() kernel.UUID {
	return c.runID
}

func (c ChangeRunStatusCommand) Action() RunAction {
	return c.action
}
