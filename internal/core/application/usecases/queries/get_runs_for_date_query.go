package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetRunsForDateQueryIsNotConstructed = errors.New(
		"GetRunsForDateQuery must be created via NewGetRunsForDateQuery constructor",
	)
)

// GetRunsForDateQuery lists every run of a date with its zone, resources and
// load. Cancelled runs are included unless excluded with WithoutCancelled.
type GetRunsForDateQuery struct {
	date             kernel.Date
	includeCancelled bool
	guard            guard.ConstructorGuard
}

func NewGetRunsForDateQuery(date kernel.Date) (GetRunsForDateQuery, error) {
	if err := date.Validate(); err != nil {
		return GetRunsForDateQuery{}, err
	}
	return GetRunsForDateQuery{
		date:             date,
		includeCancelled: true,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

func (q GetRunsForDateQuery) WithoutCancelled() GetRunsForDateQuery {
	q.includeCancelled = false
	return q
}

func (q GetRunsForDateQuery) Validate() error {
	return q.guard.Validate(ErrGetRunsForDateQueryIsNotConstructed)
}

func (q GetRunsForDateQuery) Date() kernel.Date {
	return q.date
}

func (q GetRunsForDateQuery) IncludeCancelled() bool {
	return q.includeCancelled
}

type GetRunsForDateQueryResponse struct {
	ID                       kernel.UUID
	RunNumber                string
	Status                   string
	ZoneID                   *kernel.UUID
	ZoneName                 string
	DriverID                 *kernel.UUID
	DriverName               string
	VehicleID                *kernel.UUID
	VehiclePlate             string
	OrderCount               int
	TotalWeightKg            float64
	TotalVolumeM3            float64
	EstimatedDurationMinutes *float64
	TotalDistanceKm          *float64
}
