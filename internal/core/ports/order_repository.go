package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
//
// Zone and run membership are never written through Update. They change
// only through the conditional methods below, which report how many rows
// actually changed so callers can detect lost races.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists customer details and coordinates.
	Update(ctx context.Context, aggregate *order.Order) error

	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListForDate returns every order scheduled on date.
	ListForDate(ctx context.Context, date kernel.Date) ([]*order.Order, error)

	// ListUnzoned returns orders on date with zone_id IS NULL, with or
	// without coordinates.
	ListUnzoned(ctx context.Context, date kernel.Date) ([]*order.Order, error)

	// ListZonedWithoutRun returns orders of zoneID on date that are not on a run.
	ListZonedWithoutRun(ctx context.Context, date kernel.Date, zoneID kernel.UUID) ([]*order.Order, error)

	// ListByRun returns the orders of a run in run sequence.
	ListByRun(ctx context.Context, runID kernel.UUID) ([]*order.Order, error)

	// ListWithoutCoordinates returns up to limit orders from date onwards
	// that still need geocoding.
	ListWithoutCoordinates(ctx context.Context, from kernel.Date, limit int) ([]*order.Order, error)

	// AssignZoneIfUnassigned sets zone_id on the given orders where it is
	// still NULL and returns the number of rows changed.
	AssignZoneIfUnassigned(ctx context.Context, zoneID kernel.UUID, orderIDs []kernel.UUID) (int64, error)

	// MoveZone is a compare-and-set of zone_id from -> to for an order not on
	// a run. It returns false when the order no longer matches.
	MoveZone(ctx context.Context, orderID kernel.UUID, from kernel.UUID, to kernel.UUID) (bool, error)

	// AttachToRun sets run_id and run_sequence on orders that are in zoneID
	// and not on any run, numbering from firstSequence in the given order.
	// It returns the ids actually attached.
	AttachToRun(
		ctx context.Context,
		runID kernel.UUID,
		zoneID kernel.UUID,
		orderIDs []kernel.UUID,
		firstSequence int,
	) ([]kernel.UUID, error)

	// DetachFromRun returns the orders of a cancelled run to their zone's
	// unrun pool and reports how many were released.
	DetachFromRun(ctx context.Context, runID kernel.UUID) (int64, error)
}
