package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrApplyZoneTemplateCommandIsNotConstructed = errors.New(
	"ApplyZoneTemplateCommand must be created via NewApplyZoneTemplateCommand constructor",
)

// ApplyZoneTemplateCommand creates the zones of a named template.
//
// Example:
//
//	cmd, err := NewApplyZoneTemplateCommand("weekday", nil)
//	if err != nil {
//	    return err
//	}
//	zones, err := handler.Handle(ctx, cmd)
type ApplyZoneTemplateCommand struct { //nolint:recvcheck //using for validation
	templateName       string
	activeDaysOverride zone.Weekdays

	guard guard.ConstructorGuard
}

// NewApplyZoneTemplateCommand validates the template name and, when given,
// the weekday override. An empty override keeps the template's own days.
func NewApplyZoneTemplateCommand(templateName string, activeDaysOverride []string) (ApplyZoneTemplateCommand, error) {
	cmd := ApplyZoneTemplateCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setTemplateName(templateName),
		cmd.setActiveDaysOverride(activeDaysOverride),
	); err != nil {
		return ApplyZoneTemplateCommand{}, err
	}

	return cmd, nil
}

func (c ApplyZoneTemplateCommand) Validate() error {
	return c.guard.Validate(ErrApplyZoneTemplateCommandIsNotConstructed)
}

func (c ApplyZoneTemplateCommand) TemplateName() string {
	return c.templateName
}

// ActiveDaysOverride is nil when the template defaults apply.
func (c ApplyZoneTemplateCommand) ActiveDaysOverride() zone.Weekdays {
	return c.activeDaysOverride
}

func (c *ApplyZoneTemplateCommand) setTemplateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("templateName")
	}
	c.templateName = name
	return nil
}

func (c *ApplyZoneTemplateCommand) setActiveDaysOverride(days []string) error {
	if len(days) == 0 {
		return nil
	}
	w, err := zone.NewWeekdays(days...)
	if err != nil {
		return err
	}
	c.activeDaysOverride = w
	return nil
}
