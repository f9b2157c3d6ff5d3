package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/run"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

const defaultCallTimeout = 10 * time.Second

// FinalizeSettings bound the collaborator calls made by finalize and define
// the delivery window customers are told.
type FinalizeSettings struct {
	CallTimeout time.Duration
	WindowStart string
	WindowEnd   string
}

// FinalizeResult summarises one finalize call.
//
// CustomersNotified counts customers whose notice is confirmed delivered,
// whether sent by this call or by an earlier finalize of the same run.
// Estimates are nil when the route optimizer failed or timed out.
type FinalizeResult struct {
	OrderCount               int
	CustomersNotified        int
	CustomerFailures         int
	DriverNotified           bool
	EstimatedDurationMinutes *float64
	EstimatedDistanceKm      *float64
}

// FinalizeRunCommandHandler notifies the customers and the driver of an
// ASSIGNED run and records route estimates. It leaves the run status
// unchanged and holds no transaction while a collaborator is called.
type FinalizeRunCommandHandler struct {
	uowFactory UoWFactory
	optimizer  ports.RouteOptimizer
	notifier   ports.Notifier
	publisher  ports.EventPublisher
	settings   FinalizeSettings
	logger     *slog.Logger
}

func NewFinalizeRunCommandHandler(
	uowFactory UoWFactory,
	optimizer ports.RouteOptimizer,
	notifier ports.Notifier,
	publisher ports.EventPublisher,
	settings FinalizeSettings,
	logger *slog.Logger,
) FinalizeRunCommandHandler {
	if settings.CallTimeout <= 0 {
		settings.CallTimeout = defaultCallTimeout
	}
	return FinalizeRunCommandHandler{
		uowFactory: uowFactory,
		optimizer:  optimizer,
		notifier:   notifier,
		publisher:  publisher,
		settings:   settings,
		logger:     logger.With("component", "finalize_run"),
	}
}

// Handle fails with InvalidStateError unless the run is ASSIGNED. Notifier
// failures are counted, never returned. Calling it again sends nothing new.
func (h FinalizeRunCommandHandler) Handle(ctx context.Context, cmd FinalizeRunCommand) (FinalizeResult, error) {
	var result FinalizeResult
	if err := cmd.Validate(); err != nil {
		return result, err
	}

	r, orders, driver, vehicle, err := h.load(ctx, cmd)
	if err != nil {
		return result, err
	}
	result.OrderCount = len(orders)

	result.EstimatedDurationMinutes, result.EstimatedDistanceKm = h.estimate(ctx, r, orders, vehicle)
	if result.EstimatedDurationMinutes != nil || result.EstimatedDistanceKm != nil {
		if err = h.saveEstimates(ctx, cmd, result.EstimatedDurationMinutes, result.EstimatedDistanceKm); err != nil {
			return result, err
		}
	}

	window := ports.DeliveryWindow{
		Date:  r.ScheduledDate(),
		Start: h.settings.WindowStart,
		End:   h.settings.WindowEnd,
	}
	for _, o := range orders {
		delivered, err := h.notifyCustomer(ctx, o, window)
		if err != nil {
			result.CustomerFailures++
			h.logger.WarnContext(ctx, "customer notice failed",
				"runNumber", r.RunNumber(),
				"orderId", o.ID().String(),
				"error", err,
			)
			continue
		}
		if delivered {
			result.CustomersNotified++
		}
	}

	driverDelivered, err := h.notifyDriver(ctx, r, driver)
	if err != nil {
		h.logger.WarnContext(ctx, "driver notice failed",
			"runNumber", r.RunNumber(),
			"driverId", driver.ID().String(),
			"error", err,
		)
	}
	result.DriverNotified = driverDelivered

	h.logger.InfoContext(ctx, "run finalized",
		"runNumber", r.RunNumber(),
		"orders", result.OrderCount,
		"customersNotified", result.CustomersNotified,
		"customerFailures", result.CustomerFailures,
		"driverNotified", result.DriverNotified,
	)
	publish(ctx, h.publisher, h.logger, ports.RunEvent{
		Type:      ports.EventRunFinalized,
		Date:      r.ScheduledDate().String(),
		RunID:     r.ID().String(),
		RunNumber: r.RunNumber(),
		Status:    r.Status().String(),
		Data: map[string]any{
			"customersNotified": result.CustomersNotified,
			"driverNotified":    result.DriverNotified,
		},
	})
	return result, nil
}

func (h FinalizeRunCommandHandler) load(
	ctx context.Context,
	cmd FinalizeRunCommand,
) (*run.DeliveryRun, []*order.Order, *fleet.Driver, *fleet.Vehicle, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	r, err := uow.RunRepository().Get(ctx, cmd.RunID())
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if err = r.RequireAssigned(); err != nil {
		return nil, nil, nil, nil, err
	}

	orders, err := uow.OrderRepository().ListByRun(ctx, r.ID())
	if err != nil {
		return nil, nil, nil, nil, err
	}

	fleetRepo := uow.FleetRepository()
	driver, err := fleetRepo.GetDriver(ctx, *r.DriverID())
	if err != nil {
		return nil, nil, nil, nil, err
	}
	vehicle, err := fleetRepo.GetVehicle(ctx, *r.VehicleID())
	if err != nil {
		return nil, nil, nil, nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, nil, nil, nil, err
	}
	return r, orders, driver, vehicle, nil
}

// estimate degrades to nil estimates on any optimizer failure.
func (h FinalizeRunCommandHandler) estimate(
	ctx context.Context,
	r *run.DeliveryRun,
	orders []*order.Order,
	vehicle *fleet.Vehicle,
) (*float64, *float64) {
	if h.optimizer == nil {
		return nil, nil
	}

	stops := make([]ports.Stop, 0, len(orders))
	for _, o := range orders {
		if c := o.Coordinates(); c != nil {
			stops = append(stops, ports.Stop{OrderID: o.ID(), Coordinates: *c})
		}
	}
	if len(stops) == 0 {
		return nil, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, h.settings.CallTimeout)
	defer cancel()

	plan, err := h.optimizer.Optimize(callCtx, stops, ports.VehicleConstraints{
		CapacityKg:     vehicle.CapacityKg(),
		CapacityCubicM: vehicle.CapacityCubicM(),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "route estimate unavailable",
			"runNumber", r.RunNumber(),
			"error", errs.NewExternalServiceError("route optimizer", err),
		)
		return nil, nil
	}

	duration, distance := plan.DurationMinutes, plan.DistanceKm
	return &duration, &distance
}

func (h FinalizeRunCommandHandler) saveEstimates(
	ctx context.Context,
	cmd FinalizeRunCommand,
	duration *float64,
	distance *float64,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	runRepo := uow.RunRepository()

	r, err := runRepo.GetForUpdate(ctx, cmd.RunID())
	if err != nil {
		return err
	}
	if err = r.SetEstimates(duration, distance); err != nil {
		if errors.Is(err, errs.ErrInvalidState) {
			// The run left ASSIGNED while the optimizer was running.
			h.logger.WarnContext(ctx, "estimates not saved", "runNumber", r.RunNumber(), "error", err)
			return nil
		}
		return err
	}
	if err = runRepo.Update(ctx, r); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h FinalizeRunCommandHandler) notifyCustomer(
	ctx context.Context,
	o *order.Order,
	window ports.DeliveryWindow,
) (bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, h.settings.CallTimeout)
	defer cancel()

	res, err := h.notifier.SendCustomerNotice(callCtx, o, window)
	if err != nil {
		return false, errs.NewExternalServiceError("notifier", err)
	}
	return res.Delivered, nil
}

func (h FinalizeRunCommandHandler) notifyDriver(
	ctx context.Context,
	r *run.DeliveryRun,
	driver *fleet.Driver,
) (bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, h.settings.CallTimeout)
	defer cancel()

	res, err := h.notifier.SendDriverNotice(callCtx, r, driver)
	if err != nil {
		return false, errs.NewExternalServiceError("notifier", err)
	}
	return res.Delivered, nil
}
