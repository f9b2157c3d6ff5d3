package commands

import (
	"context"

	"dispatch/internal/core/domain/model/fleet"
)

// CreateDriverCommandHandler registers an active driver.
type CreateDriverCommandHandler struct {
	uowFactory FleetUoWFactory
}

func NewCreateDriverCommandHandler(uowFactory FleetUoWFactory) CreateDriverCommandHandler {
	return CreateDriverCommandHandler{uowFactory: uowFactory}
}

func (h CreateDriverCommandHandler) Handle(ctx context.Context, cmd CreateDriverCommand) (*fleet.Driver, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	d, err := fleet.NewDriver(cmd.DriverID(), cmd.Name(), cmd.Phone())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.FleetRepository().AddDriver(ctx, d); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// CreateVehicleCommandHandler registers an active vehicle. Plates are
// unique; a duplicate fails with ConflictError.
type CreateVehicleCommandHandler struct {
	uowFactory FleetUoWFactory
}

func NewCreateVehicleCommandHandler(uowFactory FleetUoWFactory) CreateVehicleCommandHandler {
	return CreateVehicleCommandHandler{uowFactory: uowFactory}
}

func (h CreateVehicleCommandHandler) Handle(ctx context.Context, cmd CreateVehicleCommand) (*fleet.Vehicle, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	v, err := fleet.NewVehicle(cmd.VehicleID(), cmd.Plate(), cmd.CapacityKg(), cmd.CapacityCubicM())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.FleetRepository().AddVehicle(ctx, v); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return v, nil
}
