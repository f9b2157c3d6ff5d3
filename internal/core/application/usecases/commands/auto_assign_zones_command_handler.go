package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// ZoneAssignmentResult summarises one AutoAssignZones call.
//
// TotalOrders counts the unzoned orders considered. AlreadyZonedOrders are
// orders this call resolved but found zoned by a concurrent writer when it
// tried to write; they keep their existing zone. FallbackOrders were
// resolved to the nearest zone rather than an exact match.
type ZoneAssignmentResult struct {
	Date                kernel.Date
	TotalOrders         int
	AssignedOrders      int
	OutOfBoundsOrders   int
	AlreadyZonedOrders  int
	FallbackOrders      int
	PerZoneCounts       map[kernel.UUID]int
	OutOfBoundsOrderIDs []kernel.UUID
}

// AutoAssignZonesCommandHandler resolves unzoned orders against the zones
// active on their date and writes zone membership with a conditional update,
// so concurrent calls never overwrite each other's assignment.
type AutoAssignZonesCommandHandler struct {
	uowFactory    UoWFactory
	resolver      services.ZoneResolver
	allowFallback bool
	publisher     ports.EventPublisher
	logger        *slog.Logger
}

// NewAutoAssignZonesCommandHandler creates the handler. With allowFallback
// set, orders outside every zone go to the zone with the nearest centroid;
// otherwise they are reported out of bounds.
func NewAutoAssignZonesCommandHandler(
	uowFactory UoWFactory,
	allowFallback bool,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) AutoAssignZonesCommandHandler {
	return AutoAssignZonesCommandHandler{
		uowFactory:    uowFactory,
		resolver:      services.NewZoneResolver(),
		allowFallback: allowFallback,
		publisher:     publisher,
		logger:        logger.With("component", "auto_assign_zones"),
	}
}

// Handle fails with NoZonesAvailableError when no zone is active on the
// date. Orders without coordinates are out of bounds and never zoned.
func (h AutoAssignZonesCommandHandler) Handle(ctx context.Context, cmd AutoAssignZonesCommand) (ZoneAssignmentResult, error) {
	result := ZoneAssignmentResult{
		Date:          cmd.Date(),
		PerZoneCounts: make(map[kernel.UUID]int),
	}
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

	zoneRepo := uow.ZoneRepository()
	orderRepo := uow.OrderRepository()

	zones, err := zoneRepo.ListActiveFor(ctx, cmd.Date())
	if err != nil {
		return result, err
	}
	if len(zones) == 0 {
		return result, errs.NewNoZonesAvailableError(cmd.Date().String())
	}
	zones = services.SortByDisplayOrder(zones)

	orders, err := orderRepo.ListUnzoned(ctx, cmd.Date())
	if err != nil {
		return result, err
	}
	result.TotalOrders = len(orders)

	intended := make(map[kernel.UUID][]kernel.UUID, len(zones))
	for _, o := range orders {
		c := o.Coordinates()
		if c == nil {
			result.OutOfBoundsOrders++
			result.OutOfBoundsOrderIDs = append(result.OutOfBoundsOrderIDs, o.ID())
			continue
		}
		match, ok := h.resolver.Locate(*c, zones, h.allowFallback)
		if !ok {
			result.OutOfBoundsOrders++
			result.OutOfBoundsOrderIDs = append(result.OutOfBoundsOrderIDs, o.ID())
			continue
		}
		if match.Fallback {
			result.FallbackOrders++
			h.logger.DebugContext(ctx, "order zoned by nearest centroid",
				"orderId", o.ID().String(),
				"zone", match.Zone.Name(),
				"distanceKm", match.DistanceKm,
			)
		}
		intended[match.Zone.ID()] = append(intended[match.Zone.ID()], o.ID())
	}

	// Zones are written in displayOrder so concurrent callers lock rows in
	// the same sequence.
	for _, z := range zones {
		ids := intended[z.ID()]
		if len(ids) == 0 {
			continue
		}
		affected, err := orderRepo.AssignZoneIfUnassigned(ctx, z.ID(), ids)
		if err != nil {
			return result, err
		}
		result.AssignedOrders += int(affected)
		result.AlreadyZonedOrders += len(ids) - int(affected)
		if affected > 0 {
			result.PerZoneCounts[z.ID()] = int(affected)
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return result, err
	}

	h.logger.InfoContext(ctx, "zones assigned",
		"date", cmd.Date().String(),
		"total", result.TotalOrders,
		"assigned", result.AssignedOrders,
		"outOfBounds", result.OutOfBoundsOrders,
		"alreadyZoned", result.AlreadyZonedOrders,
		"fallback", result.FallbackOrders,
	)
	if result.AssignedOrders > 0 {
		publish(ctx, h.publisher, h.logger, ports.RunEvent{
			Type: ports.EventZonesAssigned,
			Date: cmd.Date().String(),
			Data: map[string]any{
				"assignedOrders": result.AssignedOrders,
				"perZone":        perZoneByName(zones, result.PerZoneCounts),
			},
		})
	}
	return result, nil
}

func perZoneByName(zones []*zone.Zone, counts map[kernel.UUID]int) map[string]int {
	out := make(map[string]int, len(counts))
	for _, z := range zones {
		if n, ok := counts[z.ID()]; ok {
			out[z.Name()] += n
		}
	}
	return out
}
