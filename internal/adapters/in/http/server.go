// Package http is the REST adapter of the dispatch service: echo routes
// under /api/v1, validated against the embedded OpenAPI document.
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/metrics"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const defaultGeocodeLimit = 100

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	h      Handlers
	logger *slog.Logger
}

func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	return &Server{h: handlers, logger: logger.With("component", "http")}
}

// Register mounts the API routes on g, which is expected to be /api/v1.
func (s *Server) Register(g *echo.Group) {
	g.POST("/zones/templates/:name/apply", s.ApplyZoneTemplate)
	g.GET("/zones/active", s.GetActiveZones)
	g.POST("/zones/:zoneId/deactivate", s.DeactivateZone)
	g.POST("/dispatch/:date/zones/assign", s.AutoAssignZones)
	g.POST("/dispatch/:date/zones/rebalance", s.RebalanceZones)
	g.POST("/dispatch/:date/runs", s.CreateDraftRuns)
	g.GET("/dispatch/:date/runs", s.GetRunsForDate)
	g.GET("/dispatch/:date/events", s.StreamRunEvents)
	g.GET("/fleet/availability", s.GetFleetAvailability)
	g.POST("/runs/:runId/assignment", s.AssignDriverAndVehicle)
	g.POST("/runs/:runId/status", s.ChangeRunStatus)
	g.POST("/runs/:runId/finalize", s.FinalizeRun)
	g.POST("/orders", s.CreateOrder)
	g.POST("/orders/geocode", s.GeocodeOrders)
	g.POST("/drivers", s.CreateDriver)
	g.POST("/vehicles", s.CreateVehicle)
}

// ApplyZoneTemplate handles POST /api/v1/zones/templates/{name}/apply.
func (s *Server) ApplyZoneTemplate(c echo.Context) error {
	var body ApplyTemplateRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&body); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}

	cmd, err := commands.NewApplyZoneTemplateCommand(c.Param("name"), body.ActiveDays)
	if err != nil {
		return s.fail(c, err)
	}

	zones, err := s.h.ApplyZoneTemplate.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]Zone, len(zones))
	for i, z := range zones {
		response[i] = toZone(z)
	}
	return c.JSON(http.StatusCreated, response)
}

// DeactivateZone handles POST /api/v1/zones/{zoneId}/deactivate.
func (s *Server) DeactivateZone(c echo.Context) error {
	zoneID, err := pathUUID(c, "zoneId")
	if err != nil {
		return badRequest(c, "Invalid zoneId: "+err.Error())
	}
	cmd, err := commands.NewDeactivateZoneCommand(zoneID)
	if err != nil {
		return s.fail(c, err)
	}

	z, err := s.h.DeactivateZone.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toZone(z))
}

// GetActiveZones handles GET /api/v1/zones/active?date=.
func (s *Server) GetActiveZones(c echo.Context) error {
	date, err := queryDate(c, "date")
	if err != nil {
		return badRequest(c, "Invalid date: "+err.Error())
	}
	query, err := queries.NewGetActiveZonesQuery(date)
	if err != nil {
		return s.fail(c, err)
	}

	zones, err := s.h.GetActiveZones.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]Zone, len(zones))
	for i, z := range zones {
		response[i] = toActiveZone(z)
	}
	return c.JSON(http.StatusOK, response)
}

// AutoAssignZones handles POST /api/v1/dispatch/{date}/zones/assign.
func (s *Server) AutoAssignZones(c echo.Context) error {
	date, err := pathDate(c, "date")
	if err != nil {
		return badRequest(c, "Invalid date: "+err.Error())
	}
	cmd, err := commands.NewAutoAssignZonesCommand(date)
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.h.AutoAssignZones.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	metrics.RecordZoneAssignments(
		result.AssignedOrders,
		result.FallbackOrders,
		result.OutOfBoundsOrders,
		result.AlreadyZonedOrders,
	)
	return c.JSON(http.StatusOK, toZoneAssignmentResult(result))
}

// CreateDraftRuns handles POST /api/v1/dispatch/{date}/runs.
func (s *Server) CreateDraftRuns(c echo.Context) error {
	date, err := pathDate(c, "date")
	if err != nil {
		return badRequest(c, "Invalid date: "+err.Error())
	}
	cmd, err := commands.NewCreateDraftRunsCommand(date)
	if err != nil {
		return s.fail(c, err)
	}

	summaries, err := s.h.CreateDraftRuns.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]RunSummary, len(summaries))
	for i, summary := range summaries {
		response[i] = toRunSummary(summary)
	}
	return c.JSON(http.StatusOK, response)
}

// GetRunsForDate handles GET /api/v1/dispatch/{date}/runs.
func (s *Server) GetRunsForDate(c echo.Context) error {
	date, err := pathDate(c, "date")
	if err != nil {
		return badRequest(c, "Invalid date: "+err.Error())
	}
	includeCancelled, err := optionalQueryBool(c, "includeCancelled", true)
	if err != nil {
		return badRequest(c, "Invalid includeCancelled: "+err.Error())
	}
	query, err := queries.NewGetRunsForDateQuery(date)
	if err != nil {
		return s.fail(c, err)
	}
	if !includeCancelled {
		query = query.WithoutCancelled()
	}

	runs, err := s.h.GetRunsForDate.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]RunListItem, len(runs))
	for i, r := range runs {
		response[i] = toRunListItem(r)
	}
	return c.JSON(http.StatusOK, response)
}

// RebalanceZones handles POST /api/v1/dispatch/{date}/zones/rebalance.
func (s *Server) RebalanceZones(c echo.Context) error {
	date, err := pathDate(c, "date")
	if err != nil {
		return badRequest(c, "Invalid date: "+err.Error())
	}
	cmd, err := commands.NewRebalanceZonesCommand(date)
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.h.RebalanceZones.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toRebalanceResult(result))
}

// GetFleetAvailability handles GET /api/v1/fleet/availability?date=.
func (s *Server) GetFleetAvailability(c echo.Context) error {
	date, err := queryDate(c, "date")
	if err != nil {
		return badRequest(c, "Invalid date: "+err.Error())
	}
	query, err := queries.NewGetFleetAvailabilityQuery(date)
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.h.GetFleetAvailability.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toFleetAvailability(result))
}

// AssignDriverAndVehicle handles POST /api/v1/runs/{runId}/assignment.
func (s *Server) AssignDriverAndVehicle(c echo.Context) error {
	runID, err := pathUUID(c, "runId")
	if err != nil {
		return badRequest(c, "Invalid runId: "+err.Error())
	}
	var body AssignmentRequest
	if err = c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	driverID, err := kernel.UUIDFromString(body.DriverID)
	if err != nil {
		return badRequest(c, "Invalid driverId: "+err.Error())
	}
	vehicleID, err := kernel.UUIDFromString(body.VehicleID)
	if err != nil {
		return badRequest(c, "Invalid vehicleId: "+err.Error())
	}

	cmd, err := commands.NewAssignDriverAndVehicleCommand(runID, driverID, vehicleID)
	if err != nil {
		return s.fail(c, err)
	}

	r, err := s.h.AssignDriverAndVehicle.Handle(c.Request().Context(), cmd)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrConflict):
			metrics.RunAssignmentConflicts.Inc()
		case errors.Is(err, errs.ErrCapacityExceeded):
			metrics.CapacityRejections.Inc()
		}
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toRun(r))
}

// ChangeRunStatus handles POST /api/v1/runs/{runId}/status.
func (s *Server) ChangeRunStatus(c echo.Context) error {
	runID, err := pathUUID(c, "runId")
	if err != nil {
		return badRequest(c, "Invalid runId: "+err.Error())
	}
	var body StatusRequest
	if err = c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewChangeRunStatusCommand(runID, body.Action)
	if err != nil {
		return s.fail(c, err)
	}

	r, err := s.h.ChangeRunStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toRun(r))
}

// FinalizeRun handles POST /api/v1/runs/{runId}/finalize.
func (s *Server) FinalizeRun(c echo.Context) error {
	runID, err := pathUUID(c, "runId")
	if err != nil {
		return badRequest(c, "Invalid runId: "+err.Error())
	}
	cmd, err := commands.NewFinalizeRunCommand(runID)
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.h.FinalizeRun.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, FinalizeResult{
		OrderCount:               result.OrderCount,
		CustomersNotified:        result.CustomersNotified,
		CustomerFailures:         result.CustomerFailures,
		DriverNotified:           result.DriverNotified,
		EstimatedDurationMinutes: result.EstimatedDurationMinutes,
		EstimatedDistanceKm:      result.EstimatedDistanceKm,
	})
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var body NewOrder
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	orderID := kernel.NewUUID()
	if body.ID != nil {
		id, err := kernel.UUIDFromString(*body.ID)
		if err != nil {
			return badRequest(c, "Invalid id: "+err.Error())
		}
		orderID = id
	}
	date, err := kernel.ParseDate(body.ScheduledDate)
	if err != nil {
		return s.fail(c, err)
	}

	var coordinates *kernel.Coordinates
	if (body.Lng == nil) != (body.Lat == nil) {
		return badRequest(c, "lng and lat must be given together")
	}
	if body.Lng != nil {
		coords, coordErr := kernel.NewCoordinates(*body.Lng, *body.Lat)
		if coordErr != nil {
			return s.fail(c, coordErr)
		}
		coordinates = &coords
	}

	cmd, err := commands.NewCreateOrderCommand(orderID, order.Details{
		CustomerName:  body.CustomerName,
		CustomerPhone: body.CustomerPhone,
		Address:       body.Address,
		ScheduledDate: date,
		WeightKg:      body.WeightKg,
		VolumeM3:      body.VolumeM3,
	}, coordinates)
	if err != nil {
		return s.fail(c, err)
	}

	o, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, toOrder(o))
}

// GeocodeOrders handles POST /api/v1/orders/geocode.
func (s *Server) GeocodeOrders(c echo.Context) error {
	var body GeocodeRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&body); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}

	from := kernel.DateFromTime(timeNow())
	if body.From != nil && strings.TrimSpace(*body.From) != "" {
		parsed, err := kernel.ParseDate(*body.From)
		if err != nil {
			return s.fail(c, err)
		}
		from = parsed
	}
	limit := defaultGeocodeLimit
	if body.Limit != nil {
		limit = *body.Limit
	}

	cmd, err := commands.NewGeocodeOrdersCommand(from, limit)
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.h.GeocodeOrders.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, GeocodeResult{
		Attempted: result.Attempted,
		Geocoded:  result.Geocoded,
		Failed:    result.Failed,
		Skipped:   result.Skipped,
	})
}

// CreateDriver handles POST /api/v1/drivers.
func (s *Server) CreateDriver(c echo.Context) error {
	var body NewDriver
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewCreateDriverCommand(kernel.NewUUID(), body.Name, body.Phone)
	if err != nil {
		return s.fail(c, err)
	}

	d, err := s.h.CreateDriver.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, toDriver(d))
}

// CreateVehicle handles POST /api/v1/vehicles.
func (s *Server) CreateVehicle(c echo.Context) error {
	var body NewVehicle
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewCreateVehicleCommand(kernel.NewUUID(), body.Plate, body.CapacityKg, body.CapacityCubicM)
	if err != nil {
		return s.fail(c, err)
	}

	v, err := s.h.CreateVehicle.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, toVehicle(v))
}
