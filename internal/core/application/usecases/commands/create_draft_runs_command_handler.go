package commands

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/run"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// RunSummary describes the run a zone's orders went to.
//
// DeferredOrders are zoned orders left off the run because it is already
// ASSIGNED or IN_PROGRESS and its capacity was validated without them.
type RunSummary struct {
	RunID          kernel.UUID
	RunNumber      string
	ZoneID         kernel.UUID
	Status         run.Status
	OrderCount     int
	AddedOrders    int
	DeferredOrders int
	Created        bool
}

// CreateDraftRunsCommandHandler creates or extends the active run of every
// zone that has zoned orders without a run.
//
// Each zone is handled in its own transaction. When two callers race to
// create the first run of a zone, the unique index on active runs rejects
// the loser, which retries once and appends to the winner's run.
type CreateDraftRunsCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

func NewCreateDraftRunsCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) CreateDraftRunsCommandHandler {
	return CreateDraftRunsCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "create_draft_runs"),
	}
}

// Handle returns one summary per zone that had candidate orders, in zone id
// order. Calling it again with no new orders returns an empty slice.
func (h CreateDraftRunsCommandHandler) Handle(ctx context.Context, cmd CreateDraftRunsCommand) ([]RunSummary, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	zoneIDs, err := h.candidateZones(ctx, cmd.Date())
	if err != nil {
		return nil, err
	}

	summaries := make([]RunSummary, 0, len(zoneIDs))
	for _, zoneID := range zoneIDs {
		summary, ok, err := h.handleZone(ctx, cmd.Date(), zoneID)
		if errors.Is(err, errs.ErrConflict) {
			h.logger.InfoContext(ctx, "concurrent run creation, retrying zone",
				"zoneId", zoneID.String(),
				"date", cmd.Date().String(),
			)
			summary, ok, err = h.handleZone(ctx, cmd.Date(), zoneID)
		}
		if err != nil {
			return summaries, err
		}
		if !ok {
			continue
		}
		summaries = append(summaries, summary)

		if summary.Created {
			publish(ctx, h.publisher, h.logger, ports.RunEvent{
				Type:      ports.EventRunCreated,
				Date:      cmd.Date().String(),
				RunID:     summary.RunID.String(),
				RunNumber: summary.RunNumber,
				Status:    summary.Status.String(),
				Data:      map[string]any{"orderCount": summary.OrderCount},
			})
		}
	}

	h.logger.InfoContext(ctx, "draft runs prepared",
		"date", cmd.Date().String(),
		"runs", len(summaries),
	)
	return summaries, nil
}

// candidateZones lists zones holding at least one zoned order without a run.
func (h CreateDraftRunsCommandHandler) candidateZones(ctx context.Context, date kernel.Date) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders, err := uow.OrderRepository().ListForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	seen := make(map[kernel.UUID]struct{})
	zoneIDs := make([]kernel.UUID, 0)
	for _, o := range orders {
		if o.ZoneID() == nil || o.RunID() != nil {
			continue
		}
		if _, ok := seen[*o.ZoneID()]; ok {
			continue
		}
		seen[*o.ZoneID()] = struct{}{}
		zoneIDs = append(zoneIDs, *o.ZoneID())
	}
	sort.Slice(zoneIDs, func(i, j int) bool {
		return zoneIDs[i].String() < zoneIDs[j].String()
	})

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return zoneIDs, nil
}

// handleZone reports ok == false when another caller already took every
// candidate order of the zone.
func (h CreateDraftRunsCommandHandler) handleZone(
	ctx context.Context,
	date kernel.Date,
	zoneID kernel.UUID,
) (RunSummary, bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return RunSummary{}, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	runRepo := uow.RunRepository()

	candidates, err := orderRepo.ListZonedWithoutRun(ctx, date, zoneID)
	if err != nil {
		return RunSummary{}, false, err
	}
	if len(candidates) == 0 {
		return RunSummary{}, false, nil
	}

	created := false
	r, err := runRepo.FindActiveForZone(ctx, zoneID, date)
	if errors.Is(err, errs.ErrObjectNotFound) {
		if r, err = run.NewDraftRun(date, &zoneID); err != nil {
			return RunSummary{}, false, err
		}
		if err = runRepo.Add(ctx, r); err != nil {
			return RunSummary{}, false, err
		}
		created = true
	} else if err != nil {
		return RunSummary{}, false, err
	}

	summary := RunSummary{
		RunID:     r.ID(),
		RunNumber: r.RunNumber(),
		ZoneID:    zoneID,
		Status:    r.Status(),
		Created:   created,
	}

	if !r.Status().AcceptsOrders() {
		summary.OrderCount = r.OrderCount()
		summary.DeferredOrders = len(candidates)
		h.logger.WarnContext(ctx, "zone run is already bound, orders deferred",
			"runNumber", r.RunNumber(),
			"status", r.Status().String(),
			"deferred", len(candidates),
		)
		if err = uow.Commit(ctx); err != nil {
			return RunSummary{}, false, err
		}
		return summary, true, nil
	}

	ids := make([]kernel.UUID, 0, len(candidates))
	for _, o := range candidates {
		ids = append(ids, o.ID())
	}

	attached, err := orderRepo.AttachToRun(ctx, r.ID(), zoneID, ids, r.OrderCount())
	if err != nil {
		return RunSummary{}, false, err
	}
	added, err := r.AppendOrders(attached...)
	if err != nil {
		return RunSummary{}, false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return RunSummary{}, false, err
	}

	summary.AddedOrders = len(added)
	summary.OrderCount = r.OrderCount()
	return summary, true, nil
}
