package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/metrics"
	"dispatch/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

const (
	DefaultPlanningSchedule = "0 0 18 * * *"
	planningJobName         = "dispatch_planning"
)

type AutoAssignZonesHandler interface {
	Handle(ctx context.Context, cmd commands.AutoAssignZonesCommand) (commands.ZoneAssignmentResult, error)
}

type CreateDraftRunsHandler interface {
	Handle(ctx context.Context, cmd commands.CreateDraftRunsCommand) ([]commands.RunSummary, error)
}

// DispatchPlanningJob prepares the next day: it zones the day's orders and
// then drafts one run per zone.
type DispatchPlanningJob struct {
	assignZones AutoAssignZonesHandler
	draftRuns   CreateDraftRunsHandler
	schedule    string
	now         func() time.Time
	cron        *cron.Cron
	logger      *slog.Logger
}

func NewDispatchPlanningJob(
	assignZones AutoAssignZonesHandler,
	draftRuns CreateDraftRunsHandler,
	schedule string,
	logger *slog.Logger,
) *DispatchPlanningJob {
	if schedule == "" {
		schedule = DefaultPlanningSchedule
	}
	return &DispatchPlanningJob{
		assignZones: assignZones,
		draftRuns:   draftRuns,
		schedule:    schedule,
		now:         time.Now,
		cron:        cron.New(cron.WithSeconds()),
		logger:      logger.With("component", "dispatch_planning_job"),
	}
}

// Start registers the job on its schedule and starts the scheduler.
func (j *DispatchPlanningJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if err := j.Run(ctx, j.tomorrow()); err != nil {
			j.logger.ErrorContext(ctx, "Dispatch planning job failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Dispatch planning job started", "schedule", j.schedule)
	return nil
}

func (j *DispatchPlanningJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Dispatch planning job stopped")
}

// Run plans a single date. A date without active zones is not a failure.
func (j *DispatchPlanningJob) Run(ctx context.Context, date kernel.Date) error {
	status := "error"
	defer func() { metrics.JobRuns.WithLabelValues(planningJobName, status).Inc() }()

	assignCmd, err := commands.NewAutoAssignZonesCommand(date)
	if err != nil {
		return err
	}
	zoned, err := j.assignZones.Handle(ctx, assignCmd)
	if errors.Is(err, errs.ErrNoZonesAvailable) {
		status = "skipped"
		j.logger.InfoContext(ctx, "No zones active, nothing to plan", "date", date.String())
		return nil
	}
	if err != nil {
		return err
	}
	metrics.RecordZoneAssignments(zoned.AssignedOrders, zoned.FallbackOrders,
		zoned.OutOfBoundsOrders, zoned.AlreadyZonedOrders)

	draftCmd, err := commands.NewCreateDraftRunsCommand(date)
	if err != nil {
		return err
	}
	summaries, err := j.draftRuns.Handle(ctx, draftCmd)
	if err != nil {
		return err
	}

	status = "ok"
	j.logger.InfoContext(ctx, "Dispatch planned",
		"date", date.String(),
		"zonedOrders", zoned.AssignedOrders,
		"outOfBounds", zoned.OutOfBoundsOrders,
		"runs", len(summaries),
	)
	return nil
}

func (j *DispatchPlanningJob) tomorrow() kernel.Date {
	return kernel.DateFromTime(j.now()).AddDays(1)
}
