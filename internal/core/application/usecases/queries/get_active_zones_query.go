// Package queries contains the read side of dispatch. Handlers read
// postgres directly with raw SQL and return flat read models for the HTTP
// adapter and the jobs; they never go through the unit of work.
package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetActiveZonesQueryIsNotConstructed = errors.New(
		"GetActiveZonesQuery must be created via NewGetActiveZonesQuery constructor",
	)
)

// GetActiveZonesQuery lists the zones dispatch would use on a date, in
// displayOrder, together with how many of that date's orders each holds.
type GetActiveZonesQuery struct {
	date  kernel.Date
	guard guard.ConstructorGuard
}

func NewGetActiveZonesQuery(date kernel.Date) (GetActiveZonesQuery, error) {
	if err := date.Validate(); err != nil {
		return GetActiveZonesQuery{}, err
	}
	return GetActiveZonesQuery{date: date, guard: guard.NewConstructorGuard()}, nil
}

func (q GetActiveZonesQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveZonesQueryIsNotConstructed)
}

func (q GetActiveZonesQuery) Date() kernel.Date {
	return q.date
}

// GetActiveZonesQueryResponse is one zone row. Boundary holds [lng, lat]
// pairs exactly as stored.
type GetActiveZonesQueryResponse struct {
	ID                kernel.UUID
	Name              string
	Color             string
	ActiveDays        []string
	TargetDriverCount int
	DisplayOrder      int
	Boundary          [][2]float64
	OrderCount        int
}
