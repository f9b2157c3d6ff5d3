package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"
)

// ZoneRepository defines the persistence contract for zones.
type ZoneRepository interface {
	Add(ctx context.Context, aggregate *zone.Zone) error

	// Update persists the active flag; boundaries are immutable once stored.
	Update(ctx context.Context, aggregate *zone.Zone) error

	Get(ctx context.Context, id kernel.UUID) (*zone.Zone, error)

	// ListActiveFor returns active zones whose active days include the
	// weekday of date, ordered by displayOrder.
	ListActiveFor(ctx context.Context, date kernel.Date) ([]*zone.Zone, error)

	// NextDisplayOrder returns one past the highest stored displayOrder, or 0
	// when there are no zones. Callers in the same position are serialized
	// until the enclosing transaction ends.
	NextDisplayOrder(ctx context.Context) (int, error)
}
