package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/zone"
)

// DeactivateZoneCommandHandler retires a zone so it no longer takes orders.
// Orders already zoned into it keep their zone and runs are untouched; it is
// how a template is replaced before being applied again.
type DeactivateZoneCommandHandler struct {
	uowFactory ZoneUoWFactory
	logger     *slog.Logger
}

func NewDeactivateZoneCommandHandler(uowFactory ZoneUoWFactory, logger *slog.Logger) DeactivateZoneCommandHandler {
	return DeactivateZoneCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "deactivate_zone"),
	}
}

// Handle is idempotent: an inactive zone is returned without a write.
func (h DeactivateZoneCommandHandler) Handle(ctx context.Context, cmd DeactivateZoneCommand) (*zone.Zone, error) {
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

	zoneRepo := uow.ZoneRepository()

	z, err := zoneRepo.Get(ctx, cmd.ZoneID())
	if err != nil {
		return nil, err
	}
	if !z.IsActive() {
		return z, nil
	}

	z.Deactivate()
	if err = zoneRepo.Update(ctx, z); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "zone deactivated", "zoneId", z.ID().String(), "name", z.Name())
	return z, nil
}
