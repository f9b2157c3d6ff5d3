package order

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Details carries the customer-facing fields of an order. Weight and volume
// may be NaN when the upstream data is unusable; capacity checks skip them.
type Details struct {
	CustomerName  string
	CustomerPhone string
	Address       string
	ScheduledDate kernel.Date
	WeightKg      float64
	VolumeM3      float64
}

// Order is a delivery request as seen by dispatch.
//
// Order follows these invariants:
//   - coordinates are nil until geocoded; (0, 0) is a real location
//   - zoneID only moves nil -> value through AssignZone; MoveZone is the
//     explicit path for moving an unrun order between zones
//   - runID can only be set once the order is zoned
type Order struct {
	id            kernel.UUID
	details       Details
	coordinates   *kernel.Coordinates
	zoneID        *kernel.UUID
	runID         *kernel.UUID
	runSequence   int
	isConstructed bool
}

// NewOrder creates an unzoned order without coordinates.
//
// Example:
//
//	date, _ := kernel.ParseDate("2025-03-04")
//	o, err := order.NewOrder(kernel.NewUUID(), order.Details{
//	    CustomerName:  "Ada",
//	    CustomerPhone: "+15125550100",
//	    Address:       "500 E Cesar Chavez St, Austin, TX",
//	    ScheduledDate: date,
//	    WeightKg:      4.5,
//	    VolumeM3:      0.02,
//	})
func NewOrder(id kernel.UUID, details Details) (*Order, error) {
	o := &Order{isConstructed: true}

	if err := errors.Join(
		o.setID(id),
		o.setDetails(details),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order from storage, including its zone and run membership.
func RestoreOrder(
	id kernel.UUID,
	details Details,
	coordinates *kernel.Coordinates,
	zoneID *kernel.UUID,
	runID *kernel.UUID,
	runSequence int,
) (*Order, error) {
	o, err := NewOrder(id, details)
	if err != nil {
		return nil, err
	}

	if coordinates != nil {
		if err = o.SetCoordinates(*coordinates); err != nil {
			return nil, err
		}
	}
	if zoneID != nil {
		if err = o.AssignZone(*zoneID); err != nil {
			return nil, err
		}
	}
	if runID != nil {
		if err = o.AttachToRun(*runID, runSequence); err != nil {
			return nil, err
		}
	}

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Details() Details {
	return o.details
}

func (o *Order) ScheduledDate() kernel.Date {
	return o.details.ScheduledDate
}

func (o *Order) WeightKg() float64 {
	return o.details.WeightKg
}

func (o *Order) VolumeM3() float64 {
	return o.details.VolumeM3
}

// Coordinates returns nil for an order that has not been geocoded.
func (o *Order) Coordinates() *kernel.Coordinates {
	return o.coordinates
}

// ZoneID returns nil while the order is unassigned.
func (o *Order) ZoneID() *kernel.UUID {
	return o.zoneID
}

// RunID returns nil until the order is attached to a run.
func (o *Order) RunID() *kernel.UUID {
	return o.runID
}

func (o *Order) RunSequence() int {
	return o.runSequence
}

// SetCoordinates records the geocoded location. A zoned order keeps its
// coordinates, since moving the point would silently invalidate the zone.
func (o *Order) SetCoordinates(c kernel.Coordinates) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if o.zoneID != nil {
		return errs.NewInvalidStateError("order", o.id.String(), "zoned", "coordinates cannot change after zoning")
	}
	o.coordinates = &c
	return nil
}

// AssignZone sets the zone of an unassigned order.
func (o *Order) AssignZone(zoneID kernel.UUID) error {
	if err := zoneID.Validate(); err != nil {
		return err
	}
	if o.zoneID != nil {
		return errs.NewInvalidStateError("order", o.id.String(), "zoned",
			fmt.Sprintf("already in zone %s", o.zoneID))
	}
	o.zoneID = &zoneID
	return nil
}

// MoveZone is the explicit unassign-and-reassign used by rebalancing.
// The order must currently be in from and must not be on a run.
func (o *Order) MoveZone(from kernel.UUID, to kernel.UUID) error {
	if err := errors.Join(from.Validate(), to.Validate()); err != nil {
		return err
	}
	if o.zoneID == nil || !o.zoneID.IsEqual(from) {
		return errs.NewInvalidStateError("order", o.id.String(), "zoned",
			fmt.Sprintf("not in zone %s", from))
	}
	if o.runID != nil {
		return errs.NewInvalidStateError("order", o.id.String(), "on run", "orders on a run cannot change zone")
	}
	o.zoneID = &to
	return nil
}

// AttachToRun places a zoned order at position sequence of a run.
func (o *Order) AttachToRun(runID kernel.UUID, sequence int) error {
	if err := runID.Validate(); err != nil {
		return err
	}
	if o.zoneID == nil {
		return errs.NewInvalidStateError("order", o.id.String(), "unzoned", "order must be zoned before joining a run")
	}
	if o.runID != nil && !o.runID.IsEqual(runID) {
		return errs.NewInvalidStateError("order", o.id.String(), "on run",
			fmt.Sprintf("already on run %s", o.runID))
	}
	if sequence < 0 {
		return errs.NewValueIsOutOfRangeError("runSequence", sequence, 0, math.MaxInt)
	}
	o.runID = &runID
	o.runSequence = sequence
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setDetails(d Details) error {
	d.CustomerName = strings.TrimSpace(d.CustomerName)
	d.Address = strings.TrimSpace(d.Address)

	var problems []error
	if d.Address == "" {
		problems = append(problems, errs.NewValueIsRequiredError("address"))
	}
	if err := d.ScheduledDate.Validate(); err != nil {
		problems = append(problems, err)
	}
	if d.WeightKg < 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"weightKg", fmt.Errorf("%v is negative", d.WeightKg)))
	}
	if d.VolumeM3 < 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"volumeM3", fmt.Errorf("%v is negative", d.VolumeM3)))
	}
	if err := errors.Join(problems...); err != nil {
		return err
	}

	o.details = d
	return nil
}
