package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/run"
	"dispatch/internal/core/ports"
)

// ChangeRunStatusCommandHandler applies plan, start, complete and cancel.
// Cancelling a run releases its driver and vehicle for the date and returns
// its orders to their zone so the next planning pass can pick them up.
type ChangeRunStatusCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

func NewChangeRunStatusCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) ChangeRunStatusCommandHandler {
	return ChangeRunStatusCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "change_run_status"),
	}
}

func (h ChangeRunStatusCommandHandler) Handle(ctx context.Context, cmd ChangeRunStatusCommand) (*run.DeliveryRun, error) {
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

	r, err := runRepo.GetForUpdate(ctx, cmd.RunID())
	if err != nil {
		return nil, err
	}
	from := r.Status()

	switch cmd.Action() {
	case RunActionPlan:
		err = r.Plan()
	case RunActionStart:
		err = r.Start()
	case RunActionComplete:
		err = r.Complete()
	case RunActionCancel:
		err = r.Cancel()
	}
	if err != nil {
		return nil, err
	}

	if err = runRepo.Update(ctx, r); err != nil {
		return nil, err
	}

	released := int64(0)
	if cmd.Action() == RunActionCancel {
		if released, err = uow.OrderRepository().DetachFromRun(ctx, r.ID()); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "run status changed",
		"runNumber", r.RunNumber(),
		"from", from.String(),
		"to", r.Status().String(),
		"releasedOrders", released,
	)
	publish(ctx, h.publisher, h.logger, ports.RunEvent{
		Type:      ports.EventRunStatusChanged,
		Date:      r.ScheduledDate().String(),
		RunID:     r.ID().String(),
		RunNumber: r.RunNumber(),
		Status:    r.Status().String(),
		Data:      map[string]any{"from": from.String()},
	})
	return r, nil
}
