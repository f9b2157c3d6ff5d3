package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/ports"
)

// publish sends a run event after a successful commit. Subscribers are
// informational, so a failed publish is logged and never fails the command.
func publish(ctx context.Context, publisher ports.EventPublisher, logger *slog.Logger, event ports.RunEvent) {
	if publisher == nil {
		return
	}
	event.OccurredAt = time.Now().UTC()
	if err := publisher.Publish(ctx, event); err != nil {
		logger.WarnContext(ctx, "failed to publish run event",
			"type", event.Type,
			"runId", event.RunID,
			"error", err,
		)
	}
}
