package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/metrics"

	"github.com/robfig/cron/v3"
)

const (
	DefaultGeocodingSchedule = "0 */10 * * * *"
	DefaultGeocodingBatch    = 100
	geocodingJobName         = "geocoding"
)

type GeocodeOrdersHandler interface {
	Handle(ctx context.Context, cmd commands.GeocodeOrdersCommand) (commands.GeocodeResult, error)
}

// GeocodingJob fills in coordinates for orders scheduled today or later.
type GeocodingJob struct {
	handler  GeocodeOrdersHandler
	schedule string
	batch    int
	now      func() time.Time
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewGeocodingJob(handler GeocodeOrdersHandler, schedule string, logger *slog.Logger) *GeocodingJob {
	if schedule == "" {
		schedule = DefaultGeocodingSchedule
	}
	return &GeocodingJob{
		handler:  handler,
		schedule: schedule,
		batch:    DefaultGeocodingBatch,
		now:      time.Now,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "geocoding_job"),
	}
}

func (j *GeocodingJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if err := j.Run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Geocoding job failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Geocoding job started", "schedule", j.schedule)
	return nil
}

func (j *GeocodingJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Geocoding job stopped")
}

// Run geocodes one batch.
func (j *GeocodingJob) Run(ctx context.Context) error {
	cmd, err := commands.NewGeocodeOrdersCommand(kernel.DateFromTime(j.now()), j.batch)
	if err != nil {
		metrics.JobRuns.WithLabelValues(geocodingJobName, "error").Inc()
		return err
	}

	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		metrics.JobRuns.WithLabelValues(geocodingJobName, "error").Inc()
		return err
	}
	metrics.JobRuns.WithLabelValues(geocodingJobName, "ok").Inc()

	if result.Attempted > 0 {
		j.logger.InfoContext(ctx, "Orders geocoded",
			"attempted", result.Attempted,
			"geocoded", result.Geocoded,
			"failed", result.Failed,
		)
	}
	return nil
}
