package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/run"
)

// RunRepository defines the persistence contract for delivery runs.
//
// Add and Update write the run row only; order membership is written with
// OrderRepository.AttachToRun. Both return *errs.ConflictError when a
// storage uniqueness rule rejects the write: a driver or vehicle already
// committed for the date, or a second active run for a zone and date.
type RunRepository interface {
	Add(ctx context.Context, aggregate *run.DeliveryRun) error
	Update(ctx context.Context, aggregate *run.DeliveryRun) error

	// Get loads a run and its order ids in run sequence.
	Get(ctx context.Context, id kernel.UUID) (*run.DeliveryRun, error)

	// GetForUpdate is Get with the run row locked until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*run.DeliveryRun, error)

	// FindActiveForZone locks and returns the non-terminal run of a zone on
	// date. It returns ObjectNotFoundError when there is none.
	FindActiveForZone(ctx context.Context, zoneID kernel.UUID, date kernel.Date) (*run.DeliveryRun, error)

	// ListForDate returns every run scheduled on date, cancelled included.
	ListForDate(ctx context.Context, date kernel.Date) ([]*run.DeliveryRun, error)
}
