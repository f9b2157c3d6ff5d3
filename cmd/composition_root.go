package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	apihttp "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/events"
	"dispatch/internal/adapters/out/notifier"
	"dispatch/internal/adapters/out/ors"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/receiptrepo"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
	"dispatch/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	geocodeCacheTTL = 30 * 24 * time.Hour
	receiptClaimTTL = 5 * time.Minute
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	catalog    *zone.TemplateCatalog
	rebalancer services.ZoneRebalancer
	publisher  ports.EventPublisher
	notifier   ports.Notifier
	geocoder   ports.GeocodingProvider
	optimizer  ports.RouteOptimizer
}

// NewCompositionRoot wires the collaborators selected by config. rdb may be
// nil, in which case events are dropped and geocodes are not cached.
func NewCompositionRoot(config Config, gormDB *gorm.DB, rdb redis.UniversalClient, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
		catalog:    zone.NewTemplateCatalog(),
	}

	if config.ZoneTemplatesFile != "" {
		if err := c.loadTemplates(config.ZoneTemplatesFile); err != nil {
			return nil, err
		}
	}

	rebalancer, err := services.NewZoneRebalancer(services.RebalanceThresholds{
		Overloaded:    config.RebalanceOverloadThreshold,
		Underutilized: config.RebalanceUnderutilizedThreshold,
	})
	if err != nil {
		return nil, err
	}
	c.rebalancer = rebalancer

	if rdb != nil {
		c.publisher = events.NewRedisPublisher(rdb)
	} else {
		c.publisher = events.NoopPublisher{}
	}

	var sender notifier.Sender
	if config.SMSGatewayURL != "" {
		sender = notifier.NewGatewaySender(notifier.GatewayConfig{
			URL:     config.SMSGatewayURL,
			Token:   config.SMSGatewayToken,
			Timeout: config.ExternalCallTimeout,
		})
	} else {
		logger.Warn("SMS_GATEWAY_URL is not set, notices are only logged")
		sender = notifier.NewLogSender(logger)
	}
	var receipts ports.ReceiptStore
	if config.NotificationReceipts == ReceiptsMemory {
		receipts = notifier.NewMemoryReceiptStore()
	} else {
		receipts = receiptrepo.NewGormReceiptStore(gormDB, receiptClaimTTL)
	}
	c.notifier = notifier.New(sender, receipts, logger)

	if config.ORSAPIKey != "" {
		client, clientErr := ors.NewClient(ors.Config{
			BaseURL:       config.ORSBaseURL,
			APIKey:        config.ORSAPIKey,
			RatePerSecond: config.ORSRatePerSecond,
			Timeout:       config.ExternalCallTimeout,
		})
		if clientErr != nil {
			return nil, clientErr
		}
		var cache ors.GeocodeCache
		if rdb != nil {
			cache = ors.NewRedisGeocodeCache(rdb, geocodeCacheTTL)
		}
		c.geocoder = ors.NewGeocoder(client, cache, config.ORSCountry, logger)
		c.optimizer = ors.NewOptimizer(client)
	} else {
		logger.Warn("ORS_API_KEY is not set, geocoding and route estimates are disabled")
		c.geocoder = unconfiguredGeocoder{}
	}

	return c, nil
}

func (c *CompositionRoot) loadTemplates(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open zone templates: %w", err)
	}
	defer f.Close()

	n, err := c.catalog.LoadYAML(f)
	if err != nil {
		return fmt.Errorf("load zone templates from %s: %w", path, err)
	}
	c.logger.Info("Zone templates loaded", "file", path, "count", n)
	return nil
}

func (c *CompositionRoot) CreateApplyZoneTemplateCommandHandler() commands.ApplyZoneTemplateCommandHandler {
	var f commands.ZoneUoWFactory = FuncZoneUoWFactory(func() commands.ZoneUoW {
		return c.uowFactory.Create()
	})
	return commands.NewApplyZoneTemplateCommandHandler(f, c.catalog, c.logger)
}

func (c *CompositionRoot) CreateDeactivateZoneCommandHandler() commands.DeactivateZoneCommandHandler {
	var f commands.ZoneUoWFactory = FuncZoneUoWFactory(func() commands.ZoneUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDeactivateZoneCommandHandler(f, c.logger)
}

func (c *CompositionRoot) CreateAutoAssignZonesCommandHandler() commands.AutoAssignZonesCommandHandler {
	return commands.NewAutoAssignZonesCommandHandler(c.uow(), c.config.AllowNearestZoneFallback, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateCreateDraftRunsCommandHandler() commands.CreateDraftRunsCommandHandler {
	return commands.NewCreateDraftRunsCommandHandler(c.uow(), c.publisher, c.logger)
}

func (c *CompositionRoot) CreateRebalanceZonesCommandHandler() commands.RebalanceZonesCommandHandler {
	return commands.NewRebalanceZonesCommandHandler(c.uow(), c.rebalancer, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateAssignDriverAndVehicleCommandHandler() commands.AssignDriverAndVehicleCommandHandler {
	return commands.NewAssignDriverAndVehicleCommandHandler(c.uow(), c.publisher, c.logger)
}

func (c *CompositionRoot) CreateChangeRunStatusCommandHandler() commands.ChangeRunStatusCommandHandler {
	return commands.NewChangeRunStatusCommandHandler(c.uow(), c.publisher, c.logger)
}

func (c *CompositionRoot) CreateFinalizeRunCommandHandler() commands.FinalizeRunCommandHandler {
	return commands.NewFinalizeRunCommandHandler(c.uow(), c.optimizer, c.notifier, c.publisher,
		commands.FinalizeSettings{
			CallTimeout: c.config.ExternalCallTimeout,
			WindowStart: c.config.DeliveryWindowStart,
			WindowEnd:   c.config.DeliveryWindowEnd,
		}, c.logger)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoW())
}

func (c *CompositionRoot) CreateGeocodeOrdersCommandHandler() commands.GeocodeOrdersCommandHandler {
	return commands.NewGeocodeOrdersCommandHandler(c.orderUoW(), c.geocoder, c.config.ExternalCallTimeout, c.logger)
}

func (c *CompositionRoot) CreateCreateDriverCommandHandler() commands.CreateDriverCommandHandler {
	return commands.NewCreateDriverCommandHandler(c.fleetUoW())
}

func (c *CompositionRoot) CreateCreateVehicleCommandHandler() commands.CreateVehicleCommandHandler {
	return commands.NewCreateVehicleCommandHandler(c.fleetUoW())
}

func (c *CompositionRoot) CreateGetActiveZonesQueryHandler() queries.GetActiveZonesQueryHandler {
	return queries.NewGetActiveZonesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetFleetAvailabilityQueryHandler() queries.GetFleetAvailabilityQueryHandler {
	return queries.NewGetFleetAvailabilityQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetRunsForDateQueryHandler() queries.GetRunsForDateQueryHandler {
	return queries.NewGetRunsForDateQueryHandler(c.gormDB)
}

// HTTPHandlers bundles every use case exposed by the REST adapter. The run
// event stream is only available with redis.
func (c *CompositionRoot) HTTPHandlers() apihttp.Handlers {
	h := apihttp.Handlers{
		ApplyZoneTemplate:      c.CreateApplyZoneTemplateCommandHandler(),
		DeactivateZone:         c.CreateDeactivateZoneCommandHandler(),
		AutoAssignZones:        c.CreateAutoAssignZonesCommandHandler(),
		CreateDraftRuns:        c.CreateCreateDraftRunsCommandHandler(),
		RebalanceZones:         c.CreateRebalanceZonesCommandHandler(),
		AssignDriverAndVehicle: c.CreateAssignDriverAndVehicleCommandHandler(),
		ChangeRunStatus:        c.CreateChangeRunStatusCommandHandler(),
		FinalizeRun:            c.CreateFinalizeRunCommandHandler(),
		CreateOrder:            c.CreateCreateOrderCommandHandler(),
		CreateDriver:           c.CreateCreateDriverCommandHandler(),
		CreateVehicle:          c.CreateCreateVehicleCommandHandler(),
		GeocodeOrders:          c.CreateGeocodeOrdersCommandHandler(),
		GetActiveZones:         c.CreateGetActiveZonesQueryHandler(),
		GetFleetAvailability:   c.CreateGetFleetAvailabilityQueryHandler(),
		GetRunsForDate:         c.CreateGetRunsForDateQueryHandler(),
	}
	if p, ok := c.publisher.(*events.RedisPublisher); ok {
		h.Events = p
	}
	return h
}

// CreateJobManager schedules dispatch planning and, when ORS is configured,
// background geocoding.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	planning := jobs.NewDispatchPlanningJob(
		c.CreateAutoAssignZonesCommandHandler(),
		c.CreateCreateDraftRunsCommandHandler(),
		c.config.PlanningCron,
		c.logger,
	)

	var geocoding *jobs.GeocodingJob
	if _, ok := c.geocoder.(unconfiguredGeocoder); !ok {
		geocoding = jobs.NewGeocodingJob(c.CreateGeocodeOrdersCommandHandler(), c.config.GeocodingCron, c.logger)
	}
	return jobs.NewJobManager(planning, geocoding)
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderUoW() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) fleetUoW() commands.FleetUoWFactory {
	return FuncFleetUoWFactory(func() commands.FleetUoW {
		return c.uowFactory.Create()
	})
}

// unconfiguredGeocoder fails every lookup, so a geocoding pass without ORS
// reports its orders as failed.
type unconfiguredGeocoder struct{}

func (unconfiguredGeocoder) Geocode(context.Context, string) (kernel.Coordinates, error) {
	return kernel.Coordinates{}, errs.NewExternalServiceError("geocoder", errors.New("ORS_API_KEY is not set"))
}

type FuncZoneUoWFactory func() commands.ZoneUoW

func (f FuncZoneUoWFactory) Create() commands.ZoneUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncFleetUoWFactory func() commands.FleetUoW

func (f FuncFleetUoWFactory) Create() commands.FleetUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
