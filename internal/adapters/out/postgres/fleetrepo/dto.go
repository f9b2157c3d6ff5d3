// Package fleetrepo persists drivers and vehicles with gorm.
package fleetrepo

import (
	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type DriverDTO struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name   string    `gorm:"not null"`
	Phone  string    `gorm:"not null"`
	Status int       `gorm:"not null"`
}

func (DriverDTO) TableName() string {
	return "drivers"
}

type VehicleDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Plate          string    `gorm:"not null;uniqueIndex"`
	CapacityKg     float64   `gorm:"not null"`
	CapacityCubicM float64   `gorm:"not null"`
	Status         int       `gorm:"not null"`
}

func (VehicleDTO) TableName() string {
	return "vehicles"
}

func driverFromDomain(d *fleet.Driver) DriverDTO {
	return DriverDTO{
		ID:     d.ID().Bytes(),
		Name:   d.Name(),
		Phone:  d.Phone(),
		Status: int(d.Status()),
	}
}

func driverToDomain(dto DriverDTO) (*fleet.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return fleet.RestoreDriver(id, dto.Name, dto.Phone, fleet.Status(dto.Status))
}

func vehicleFromDomain(v *fleet.Vehicle) VehicleDTO {
	return VehicleDTO{
		ID:             v.ID().Bytes(),
		Plate:          v.Plate(),
		CapacityKg:     v.CapacityKg(),
		CapacityCubicM: v.CapacityCubicM(),
		Status:         int(v.Status()),
	}
}

func vehicleToDomain(dto VehicleDTO) (*fleet.Vehicle, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return fleet.RestoreVehicle(id, dto.Plate, dto.CapacityKg, dto.CapacityCubicM, fleet.Status(dto.Status))
}
