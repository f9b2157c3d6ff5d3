package zone

import (
	"errors"
	"fmt"
	"strings"

	"dispatch/internal/core/domain/geo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrZoneIsNotConstructed = errors.New("Zone must be created via NewZone or RestoreZone constructor")

// Zone is a named polygon orders are geofenced against.
//
// Invariants:
//   - boundary is a closed ring of at least four points
//   - activeDays is a subset of mon..sun
//   - targetDriverCount is at least 1
//
// Zones are created by applying a template and are otherwise only toggled
// active or inactive.
type Zone struct {
	id                kernel.UUID
	name              string
	boundary          geo.Ring
	color             string
	activeDays        Weekdays
	targetDriverCount int
	displayOrder      int
	isActive          bool
	centroid          geo.Point
	isConstructed     bool
}

// Params groups the fields of a zone definition.
type Params struct {
	Name              string
	Boundary          geo.Ring
	Color             string
	ActiveDays        Weekdays
	TargetDriverCount int
	DisplayOrder      int
}

// NewZone creates an active zone with a fresh identifier.
//
// Example:
//
//	days, _ := zone.NewWeekdays("mon", "tue")
//	z, err := zone.NewZone(zone.Params{
//	    Name:              "North",
//	    Boundary:          geo.Rectangle(-97.9, 30.3, -97.6, 30.45),
//	    ActiveDays:        days,
//	    TargetDriverCount: 2,
//	})
func NewZone(p Params) (*Zone, error) {
	return RestoreZone(kernel.NewUUID(), p, true)
}

// RestoreZone rebuilds a zone read from storage; the same invariants apply.
func RestoreZone(id kernel.UUID, p Params, isActive bool) (*Zone, error) {
	z := &Zone{
		color:         p.Color,
		displayOrder:  p.DisplayOrder,
		isActive:      isActive,
		isConstructed: true,
	}

	if err := errors.Join(
		z.setID(id),
		z.setName(p.Name),
		z.setBoundary(p.Boundary),
		z.setActiveDays(p.ActiveDays),
		z.setTargetDriverCount(p.TargetDriverCount),
	); err != nil {
		return nil, err
	}

	return z, nil
}

func (z *Zone) Validate() error {
	if z == nil || !z.isConstructed {
		return ErrZoneIsNotConstructed
	}
	return nil
}

func (z *Zone) ID() kernel.UUID {
	return z.id
}

func (z *Zone) Name() string {
	return z.name
}

func (z *Zone) Color() string {
	return z.color
}

func (z *Zone) ActiveDays() Weekdays {
	return z.activeDays
}

func (z *Zone) TargetDriverCount() int {
	return z.targetDriverCount
}

func (z *Zone) DisplayOrder() int {
	return z.displayOrder
}

func (z *Zone) IsActive() bool {
	return z.isActive
}

func (z *Zone) Centroid() geo.Point {
	return z.centroid
}

// Boundary returns a copy of the ring.
func (z *Zone) Boundary() geo.Ring {
	out := make(geo.Ring, len(z.boundary))
	copy(out, z.boundary)
	return out
}

// IsActiveOn reports whether the zone takes orders scheduled on date.
func (z *Zone) IsActiveOn(date kernel.Date) bool {
	return z.isActive && z.activeDays.Includes(date)
}

// Contains reports whether c lies inside the zone boundary. The boundary was
// validated at construction, so the ring is not checked again per point.
func (z *Zone) Contains(c kernel.Coordinates) bool {
	return geo.Contains(z.boundary, geo.Point{Lng: c.Lng(), Lat: c.Lat()})
}

// DistanceToCentroidKm is the haversine distance from c to the zone centroid.
func (z *Zone) DistanceToCentroidKm(c kernel.Coordinates) float64 {
	return geo.HaversineKm(geo.Point{Lng: c.Lng(), Lat: c.Lat()}, z.centroid)
}

func (z *Zone) Deactivate() {
	z.isActive = false
}

func (z *Zone) Activate() {
	z.isActive = true
}

func (z *Zone) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	z.id = id
	return nil
}

func (z *Zone) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	z.name = name
	return nil
}

func (z *Zone) setBoundary(ring geo.Ring) error {
	c, err := geo.Centroid(ring)
	if err != nil {
		return err
	}
	z.boundary = make(geo.Ring, len(ring))
	copy(z.boundary, ring)
	z.centroid = c
	return nil
}

func (z *Zone) setActiveDays(days Weekdays) error {
	normalized, err := NewWeekdays(days...)
	if err != nil {
		return err
	}
	z.activeDays = normalized
	return nil
}

func (z *Zone) setTargetDriverCount(n int) error {
	if n < 1 {
		return errs.NewValueIsInvalidErrorWithCause("targetDriverCount", fmt.Errorf("%d is less than 1", n))
	}
	z.targetDriverCount = n
	return nil
}
