package queries

import (
	"context"
	"encoding/json"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type GetActiveZonesQueryHandler struct {
	db *gorm.DB
}

func NewGetActiveZonesQueryHandler(db *gorm.DB) GetActiveZonesQueryHandler {
	return GetActiveZonesQueryHandler{db: db}
}

// Handle returns active zones whose active days include the weekday of the
// query date. Inactive zones and zones without that weekday are left out.
func (h GetActiveZonesQueryHandler) Handle(
	ctx context.Context,
	query GetActiveZonesQuery,
) ([]GetActiveZonesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	zones := make([]GetActiveZonesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			z.id,
			z.name,
			COALESCE(z.color, ''),
			z.active_days,
			z.target_driver_count,
			z.display_order,
			z.boundary,
			(SELECT COUNT(*) FROM orders o
				WHERE o.zone_id = z.id AND o.scheduled_date = ?) AS order_count
		FROM zones z
		WHERE z.is_active AND ? = ANY(z.active_days)
		ORDER BY z.display_order
	`, query.Date().Time(), query.Date().Weekday()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var z GetActiveZonesQueryResponse
		var id uuid.UUID
		var days pq.StringArray
		var boundary []byte

		err = rows.Scan(
			&id,
			&z.Name,
			&z.Color,
			&days,
			&z.TargetDriverCount,
			&z.DisplayOrder,
			&boundary,
			&z.OrderCount,
		)
		if err != nil {
			return nil, err
		}

		zoneID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		z.ID = zoneID
		z.ActiveDays = []string(days)

		if err = json.Unmarshal(boundary, &z.Boundary); err != nil {
			return nil, fmt.Errorf("zone %s boundary: %w", zoneID, err)
		}
		zones = append(zones, z)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return zones, nil
}
