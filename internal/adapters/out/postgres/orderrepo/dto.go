// Package orderrepo persists order aggregates with gorm and implements the
// conditional zone and run membership writes dispatch relies on.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the orders row. Coordinates are nullable as a pair.
type OrderDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerName  string
	CustomerPhone string
	Address       string     `gorm:"not null"`
	ScheduledDate time.Time  `gorm:"type:date;not null;index"`
	Lng           *float64
	Lat           *float64
	ZoneID        *uuid.UUID `gorm:"type:uuid;index"`
	RunID         *uuid.UUID `gorm:"type:uuid;index"`
	RunSequence   int        `gorm:"not null;default:0"`
	WeightKg      float64    `gorm:"not null"`
	VolumeM3      float64    `gorm:"not null"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) OrderDTO {
	d := o.Details()
	dto := OrderDTO{
		ID:            o.ID().Bytes(),
		CustomerName:  d.CustomerName,
		CustomerPhone: d.CustomerPhone,
		Address:       d.Address,
		ScheduledDate: d.ScheduledDate.Time(),
		ZoneID:        optionalID(o.ZoneID()),
		RunID:         optionalID(o.RunID()),
		RunSequence:   o.RunSequence(),
		WeightKg:      d.WeightKg,
		VolumeM3:      d.VolumeM3,
	}
	if c := o.Coordinates(); c != nil {
		lng, lat := c.Lng(), c.Lat()
		dto.Lng = &lng
		dto.Lat = &lat
	}
	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var coords *kernel.Coordinates
	if dto.Lng != nil && dto.Lat != nil {
		c, cErr := kernel.NewCoordinates(*dto.Lng, *dto.Lat)
		if cErr != nil {
			return nil, cErr
		}
		coords = &c
	}

	zoneID, err := restoreID(dto.ZoneID)
	if err != nil {
		return nil, err
	}
	runID, err := restoreID(dto.RunID)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(id, order.Details{
		CustomerName:  dto.CustomerName,
		CustomerPhone: dto.CustomerPhone,
		Address:       dto.Address,
		ScheduledDate: kernel.DateFromTime(dto.ScheduledDate),
		WeightKg:      dto.WeightKg,
		VolumeM3:      dto.VolumeM3,
	}, coords, zoneID, runID, dto.RunSequence)
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func restoreID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
