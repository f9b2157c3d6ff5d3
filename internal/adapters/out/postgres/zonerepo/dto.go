// Package zonerepo persists zone aggregates with gorm.
package zonerepo

import (
	"dispatch/internal/core/domain/geo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ZoneDTO is the zones row. The boundary is stored as a JSON array of
// [lng, lat] pairs and active days as a text array.
type ZoneDTO struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name              string         `gorm:"not null"`
	Boundary          [][2]float64   `gorm:"serializer:json;type:jsonb;not null"`
	Color             string
	ActiveDays        pq.StringArray `gorm:"type:text[];not null"`
	TargetDriverCount int            `gorm:"not null"`
	DisplayOrder      int            `gorm:"not null;index"`
	IsActive          bool           `gorm:"not null;index"`
}

func (ZoneDTO) TableName() string {
	return "zones"
}

func fromDomain(z *zone.Zone) ZoneDTO {
	ring := z.Boundary()
	boundary := make([][2]float64, len(ring))
	for i, p := range ring {
		boundary[i] = [2]float64{p.Lng, p.Lat}
	}

	return ZoneDTO{
		ID:                z.ID().Bytes(),
		Name:              z.Name(),
		Boundary:          boundary,
		Color:             z.Color(),
		ActiveDays:        pq.StringArray(z.ActiveDays()),
		TargetDriverCount: z.TargetDriverCount(),
		DisplayOrder:      z.DisplayOrder(),
		IsActive:          z.IsActive(),
	}
}

func toDomain(dto ZoneDTO) (*zone.Zone, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	days, err := zone.NewWeekdays(dto.ActiveDays...)
	if err != nil {
		return nil, err
	}

	ring := make(geo.Ring, len(dto.Boundary))
	for i, p := range dto.Boundary {
		ring[i] = geo.Point{Lng: p[0], Lat: p[1]}
	}

	return zone.RestoreZone(id, zone.Params{
		Name:              dto.Name,
		Boundary:          ring,
		Color:             dto.Color,
		ActiveDays:        days,
		TargetDriverCount: dto.TargetDriverCount,
		DisplayOrder:      dto.DisplayOrder,
	}, dto.IsActive)
}
