package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand registers an order for dispatch. Coordinates are
// optional; orders without them are geocoded later.
//
// Example:
//
//	date, _ := kernel.ParseDate("2025-03-04")
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), order.Details{
//	    CustomerName:  "Ada",
//	    CustomerPhone: "+15125550100",
//	    Address:       "500 E Cesar Chavez St",
//	    ScheduledDate: date,
//	    WeightKg:      4.5,
//	    VolumeM3:      0.02,
//	}, nil)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	details     order.Details
	coordinates *kernel.Coordinates

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the order fields through the Order
// aggregate's own rules.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	details order.Details,
	coordinates *kernel.Coordinates,
) (CreateOrderCommand, error) {
	if _, err := order.NewOrder(orderID, details); err != nil {
		return CreateOrderCommand{}, err
	}
	if coordinates != nil {
		if err := coordinates.Validate(); err != nil {
			return CreateOrderCommand{}, err
		}
		c := *coordinates
		coordinates = &c
	}

	return CreateOrderCommand{
		orderID:     orderID,
		details:     details,
		coordinates: coordinates,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) Details() order.Details {
	return c.details
}

func (c CreateOrderCommand) Coordinates() *kernel.Coordinates {
	return c.coordinates
}
