package commands

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/domain/model/run"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// AssignDriverAndVehicleCommandHandler binds resources to a run inside one
// transaction.
//
// The run row is locked first, so capacity is checked against the orders
// committed to the run at that moment. Exclusivity is never pre-checked:
// the update is attempted and the partial unique indexes on
// (scheduled_date, driver_id) and (scheduled_date, vehicle_id) reject the
// second of two concurrent writers with a ConflictError.
type AssignDriverAndVehicleCommandHandler struct {
	uowFactory UoWFactory
	validator  services.CapacityValidator
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

func NewAssignDriverAndVehicleCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) AssignDriverAndVehicleCommandHandler {
	return AssignDriverAndVehicleCommandHandler{
		uowFactory: uowFactory,
		validator:  services.NewCapacityValidator(),
		publisher:  publisher,
		logger:     logger.With("component", "assign_driver_and_vehicle"),
	}
}

// Handle returns the ASSIGNED run. On any error the transaction is rolled
// back and the run keeps its prior status.
func (h AssignDriverAndVehicleCommandHandler) Handle(
	ctx context.Context,
	cmd AssignDriverAndVehicleCommand,
) (*run.DeliveryRun, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	runRepo := uow.RunRepository()
	fleetRepo := uow.FleetRepository()

	r, err := runRepo.GetForUpdate(ctx, cmd.RunID())
	if err != nil {
		return nil, err
	}
	if _, err = r.Status().Assign(); err != nil {
		return nil, errs.NewInvalidStateError("run", r.ID().String(), r.Status().String(),
			"driver and vehicle can only be assigned to DRAFT or PLANNED runs")
	}

	driver, err := fleetRepo.GetDriver(ctx, cmd.DriverID())
	if err != nil {
		return nil, err
	}
	vehicle, err := fleetRepo.GetVehicle(ctx, cmd.VehicleID())
	if err != nil {
		return nil, err
	}
	if err = errors.Join(driver.RequireActive(), vehicle.RequireActive()); err != nil {
		return nil, err
	}

	orders, err := uow.OrderRepository().ListByRun(ctx, r.ID())
	if err != nil {
		return nil, err
	}

	report, err := h.validator.Validate(orders, vehicle)
	if report.HasWarnings() {
		h.logger.WarnContext(ctx, "orders with unknown weight or volume skipped in capacity check",
			"runNumber", r.RunNumber(),
			"unknownWeight", len(report.UnknownWeightOrders),
			"unknownVolume", len(report.UnknownVolumeOrders),
		)
	}
	if err != nil {
		return nil, err
	}

	if err = r.Assign(driver.ID(), vehicle.ID()); err != nil {
		return nil, err
	}
	if err = runRepo.Update(ctx, r); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "run assigned",
		"runNumber", r.RunNumber(),
		"driverId", driver.ID().String(),
		"vehicle", vehicle.Plate(),
		"weightKg", report.TotalWeightKg,
		"volumeM3", report.TotalVolumeM3,
	)
	publish(ctx, h.publisher, h.logger, ports.RunEvent{
		Type:      ports.EventRunAssigned,
		Date:      r.ScheduledDate().String(),
		RunID:     r.ID().String(),
		RunNumber: r.RunNumber(),
		Status:    r.Status().String(),
		Data: map[string]any{
			"driverId":  driver.ID().String(),
			"vehicleId": vehicle.ID().String(),
		},
	})
	return r, nil
}
