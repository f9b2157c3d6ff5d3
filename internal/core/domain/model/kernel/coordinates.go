package kernel

import (
	"errors"
	"fmt"
	"math"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	MinLongitude = -180.0
	MaxLongitude = 180.0
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
)

// ErrCoordinatesAreNotConstructed is returned when a zero-value Coordinates is used.
var ErrCoordinatesAreNotConstructed = errs.NewValueIsRequiredError(
	"coordinates must be created via NewCoordinates")

// Coordinates is a WGS84 longitude/latitude pair. (0, 0) is a valid point;
// an order that has not been geocoded carries a nil *Coordinates instead.
//
// Example:
//
//	c, err := kernel.NewCoordinates(-97.74, 30.27)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(c) // (-97.740000, 30.270000)
type Coordinates struct { //nolint:recvcheck // setters need pointer receivers
	lng   float64
	lat   float64
	guard guard.ConstructorGuard
}

// NewCoordinates validates both axes and returns a joined error listing every
// out-of-range component.
func NewCoordinates(lng float64, lat float64) (Coordinates, error) {
	c := Coordinates{guard: guard.NewConstructorGuard()}

	if err := errors.Join(c.setLng(lng), c.setLat(lat)); err != nil {
		return Coordinates{}, err
	}

	return c, nil
}

func (c Coordinates) Validate() error {
	return c.guard.Validate(ErrCoordinatesAreNotConstructed)
}

func (c Coordinates) Lng() float64 {
	return c.lng
}

func (c Coordinates) Lat() float64 {
	return c.lat
}

func (c Coordinates) String() string {
	return fmt.Sprintf("(%f, %f)", c.lng, c.lat)
}

// IsEqual compares two coordinates; both must be constructed.
func (c Coordinates) IsEqual(other Coordinates) (bool, error) {
	if err := errors.Join(c.Validate(), other.Validate()); err != nil {
		return false, err
	}
	return c.lng == other.lng && c.lat == other.lat, nil
}

func (c *Coordinates) setLng(lng float64) error {
	if math.IsNaN(lng) || lng < MinLongitude || lng > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("longitude", lng, MinLongitude, MaxLongitude)
	}
	c.lng = lng
	return nil
}

func (c *Coordinates) setLat(lat float64) error {
	if math.IsNaN(lat) || lat < MinLatitude || lat > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("latitude", lat, MinLatitude, MaxLatitude)
	}
	c.lat = lat
	return nil
}
