package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/zone"
)

// ApplyZoneTemplateCommandHandler appends a template's zones after the
// highest existing displayOrder. Existing zones are never modified, so
// applying the same template twice yields two sets of zones.
type ApplyZoneTemplateCommandHandler struct {
	uowFactory ZoneUoWFactory
	catalog    *zone.TemplateCatalog
	logger     *slog.Logger
}

func NewApplyZoneTemplateCommandHandler(
	uowFactory ZoneUoWFactory,
	catalog *zone.TemplateCatalog,
	logger *slog.Logger,
) ApplyZoneTemplateCommandHandler {
	return ApplyZoneTemplateCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		logger:     logger.With("component", "apply_zone_template"),
	}
}

// Handle returns the created zones in displayOrder. Unknown template names
// fail with TemplateNotFoundError before a transaction is opened.
func (h ApplyZoneTemplateCommandHandler) Handle(ctx context.Context, cmd ApplyZoneTemplateCommand) ([]*zone.Zone, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	tmpl, err := h.catalog.Get(cmd.TemplateName())
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

	zoneRepo := uow.ZoneRepository()

	first, err := zoneRepo.NextDisplayOrder(ctx)
	if err != nil {
		return nil, err
	}

	zones, err := tmpl.Instantiate(cmd.ActiveDaysOverride(), first)
	if err != nil {
		return nil, err
	}

	for _, z := range zones {
		if err = zoneRepo.Add(ctx, z); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "zone template applied",
		"template", tmpl.Name,
		"zones", len(zones),
		"firstDisplayOrder", first,
	)
	return zones, nil
}
