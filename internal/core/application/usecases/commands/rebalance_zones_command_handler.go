package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// RebalanceResult lists the moves that were written. SkippedMoves counts
// planned moves whose order changed zone or joined a run before the
// compare-and-set ran. ZoneLoads are the loads the plan was computed to reach.
type RebalanceResult struct {
	Moves        []services.Move
	SkippedMoves int
	ZoneLoads    []services.ZoneLoad
}

type RebalanceZonesCommandHandler struct {
	uowFactory UoWFactory
	rebalancer services.ZoneRebalancer
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

func NewRebalanceZonesCommandHandler(
	uowFactory UoWFactory,
	rebalancer services.ZoneRebalancer,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) RebalanceZonesCommandHandler {
	return RebalanceZonesCommandHandler{
		uowFactory: uowFactory,
		rebalancer: rebalancer,
		publisher:  publisher,
		logger:     logger.With("component", "rebalance_zones"),
	}
}

func (h RebalanceZonesCommandHandler) Handle(ctx context.Context, cmd RebalanceZonesCommand) (RebalanceResult, error) {
	var result RebalanceResult
	if err := cmd.Validate(); err != nil {
		return result, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return result, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	zones, err := uow.ZoneRepository().ListActiveFor(ctx, cmd.Date())
	if err != nil {
		return result, err
	}
	if len(zones) == 0 {
		return result, errs.NewNoZonesAvailableError(cmd.Date().String())
	}

	orders, err := orderRepo.ListForDate(ctx, cmd.Date())
	if err != nil {
		return result, err
	}

	plan, err := h.rebalancer.Plan(zones, orders)
	if err != nil {
		return result, err
	}
	result.ZoneLoads = plan.Loads

	for _, move := range plan.Moves {
		moved, err := orderRepo.MoveZone(ctx, move.OrderID, move.FromZoneID, move.ToZoneID)
		if err != nil {
			return RebalanceResult{}, err
		}
		if !moved {
			result.SkippedMoves++
			continue
		}
		result.Moves = append(result.Moves, move)
		h.logger.InfoContext(ctx, "order moved",
			"orderId", move.OrderID.String(),
			"reason", move.Reason,
		)
	}

	if err = uow.Commit(ctx); err != nil {
		return RebalanceResult{}, err
	}

	if len(result.Moves) > 0 {
		publish(ctx, h.publisher, h.logger, ports.RunEvent{
			Type: ports.EventZonesRebalanced,
			Date: cmd.Date().String(),
			Data: map[string]any{
				"moves":   len(result.Moves),
				"skipped": result.SkippedMoves,
			},
		})
	}
	return result, nil
}
