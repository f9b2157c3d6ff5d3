package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "dispatch/internal/adapters/in/http"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/run"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/metrics"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ServerTestSuite struct {
	suite.Suite
	e *echo.Echo

	deactivate *MockDeactivateZone
	autoAssign *MockAutoAssignZones
	draftRuns  *MockCreateDraftRuns
	assign     *MockAssignDriverAndVehicle
	status     *MockChangeRunStatus
	finalize   *MockFinalizeRun
	orders     *MockCreateOrder
	drivers    *MockCreateDriver
	geocode    *MockGeocodeOrders
	runs       *MockGetRunsForDate
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupTest() {
	s.deactivate = &MockDeactivateZone{}
	s.autoAssign = &MockAutoAssignZones{}
	s.draftRuns = &MockCreateDraftRuns{}
	s.assign = &MockAssignDriverAndVehicle{}
	s.status = &MockChangeRunStatus{}
	s.finalize = &MockFinalizeRun{}
	s.orders = &MockCreateOrder{}
	s.drivers = &MockCreateDriver{}
	s.geocode = &MockGeocodeOrders{}
	s.runs = &MockGetRunsForDate{}

	server := api.NewServer(api.Handlers{
		ApplyZoneTemplate:      &MockApplyZoneTemplate{},
		DeactivateZone:         s.deactivate,
		AutoAssignZones:        s.autoAssign,
		CreateDraftRuns:        s.draftRuns,
		AssignDriverAndVehicle: s.assign,
		ChangeRunStatus:        s.status,
		FinalizeRun:            s.finalize,
		CreateOrder:            s.orders,
		CreateDriver:           s.drivers,
		GeocodeOrders:          s.geocode,
		GetRunsForDate:         s.runs,
	}, logger.Discard())

	doc, err := api.LoadSpec(context.Background())
	s.Require().NoError(err)
	s.e, err = api.NewRouter(server, doc)
	s.Require().NoError(err)
}

func (s *ServerTestSuite) do(method string, target string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) api.Error {
	t.Helper()
	var e api.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

func assignedRun(t *testing.T, runID kernel.UUID, driverID kernel.UUID, vehicleID kernel.UUID) *run.DeliveryRun {
	t.Helper()
	date, err := kernel.ParseDate("2025-06-10")
	require.NoError(t, err)
	zoneID := kernel.NewUUID()
	r, err := run.RestoreRun(run.RestoreParams{
		ID:            runID,
		RunNumber:     run.FormatRunNumber(date, runID),
		ScheduledDate: date,
		Status:        run.Assigned,
		ZoneID:        &zoneID,
		DriverID:      &driverID,
		VehicleID:     &vehicleID,
		OrderIDs:      []kernel.UUID{kernel.NewUUID()},
	})
	require.NoError(t, err)
	return r
}

func (s *ServerTestSuite) TestHealth() {
	rec := s.do(http.MethodGet, "/health", "")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Healthy", rec.Body.String())
}

func (s *ServerTestSuite) TestMetricsEndpoint() {
	metrics.RegisterDefault()
	s.do(http.MethodGet, "/health", "")

	rec := s.do(http.MethodGet, "/metrics", "")

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "dispatch_http_requests_total")
}

func (s *ServerTestSuite) TestAssign_Success() {
	runID, driverID, vehicleID := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	s.assign.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.AssignDriverAndVehicleCommand) bool {
		return cmd.RunID().IsEqual(runID) && cmd.DriverID().IsEqual(driverID) && cmd.VehicleID().IsEqual(vehicleID)
	})).Return(assignedRun(s.T(), runID, driverID, vehicleID), nil).Once()

	rec := s.do(http.MethodPost, "/api/v1/runs/"+runID.String()+"/assignment",
		`{"driverId":"`+driverID.String()+`","vehicleId":"`+vehicleID.String()+`"}`)

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var body api.Run
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("ASSIGNED", body.Status)
	s.Require().NotNil(body.DriverID)
	s.Equal(driverID.String(), *body.DriverID)
	s.Len(body.OrderIDs, 1)
	s.assign.AssertExpectations(s.T())
}

func (s *ServerTestSuite) TestAssign_ConflictIsCountedAnd409() {
	before := testutil.ToFloat64(metrics.RunAssignmentConflicts)
	s.assign.On("Handle", mock.Anything, mock.Anything).
		Return(nil, errs.NewConflictError(errs.MsgResourceCommitted, "driver", "d-1")).Once()

	rec := s.do(http.MethodPost, "/api/v1/runs/"+kernel.NewUUID().String()+"/assignment",
		`{"driverId":"`+kernel.NewUUID().String()+`","vehicleId":"`+kernel.NewUUID().String()+`"}`)

	s.Equal(http.StatusConflict, rec.Code)
	s.Contains(decodeError(s.T(), rec).Message, errs.MsgResourceCommitted)
	s.InDelta(before+1, testutil.ToFloat64(metrics.RunAssignmentConflicts), 0.0001)
}

func (s *ServerTestSuite) TestAssign_CapacityIs422() {
	before := testutil.ToFloat64(metrics.CapacityRejections)
	s.assign.On("Handle", mock.Anything, mock.Anything).
		Return(nil, errs.NewCapacityExceededError("weight", 700, 500)).Once()

	rec := s.do(http.MethodPost, "/api/v1/runs/"+kernel.NewUUID().String()+"/assignment",
		`{"driverId":"`+kernel.NewUUID().String()+`","vehicleId":"`+kernel.NewUUID().String()+`"}`)

	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.InDelta(before+1, testutil.ToFloat64(metrics.CapacityRejections), 0.0001)
}

func (s *ServerTestSuite) TestAssign_MissingVehicleRejectedBeforeHandler() {
	rec := s.do(http.MethodPost, "/api/v1/runs/"+kernel.NewUUID().String()+"/assignment",
		`{"driverId":"`+kernel.NewUUID().String()+`"}`)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.assign.AssertNotCalled(s.T(), "Handle", mock.Anything, mock.Anything)
}

func (s *ServerTestSuite) TestAssign_MalformedIDs() {
	rec := s.do(http.MethodPost, "/api/v1/runs/not-a-uuid/assignment",
		`{"driverId":"`+kernel.NewUUID().String()+`","vehicleId":"`+kernel.NewUUID().String()+`"}`)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/runs/"+kernel.NewUUID().String()+"/assignment",
		`{"driverId":"nope","vehicleId":"`+kernel.NewUUID().String()+`"}`)
	s.Equal(http.StatusBadRequest, rec.Code)

	s.assign.AssertNotCalled(s.T(), "Handle", mock.Anything, mock.Anything)
}

func (s *ServerTestSuite) TestChangeStatus_UnknownActionRejected() {
	rec := s.do(http.MethodPost, "/api/v1/runs/"+kernel.NewUUID().String()+"/status", `{"action":"teleport"}`)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.status.AssertNotCalled(s.T(), "Handle", mock.Anything, mock.Anything)
}

func (s *ServerTestSuite) TestChangeStatus_InvalidTransitionIs422() {
	runID := kernel.NewUUID()
	s.status.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ChangeRunStatusCommand) bool {
		return cmd.Action() == commands.RunActionComplete
	})).Return(nil, errs.NewInvalidStateError("run", runID.String(), "DRAFT", "cannot complete")).Once()

	rec := s.do(http.MethodPost, "/api/v1/runs/"+runID.String()+"/status", `{"action":"complete"}`)

	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.status.AssertExpectations(s.T())
}

func (s *ServerTestSuite) TestDeactivateZone() {
	tmpl, err := zone.NewTemplateCatalog().Get(zone.TemplateWeekday)
	s.Require().NoError(err)
	zones, err := tmpl.Instantiate(nil, 0)
	s.Require().NoError(err)
	z := zones[0]
	z.Deactivate()

	s.deactivate.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.DeactivateZoneCommand) bool {
		return cmd.ZoneID().IsEqual(z.ID())
	})).Return(z, nil).Once()

	rec := s.do(http.MethodPost, "/api/v1/zones/"+z.ID().String()+"/deactivate", "")

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var body api.Zone
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal(z.ID().String(), body.ID)
	s.False(body.IsActive)
}

func (s *ServerTestSuite) TestDeactivateZone_UnknownZoneIs404() {
	id := kernel.NewUUID()
	s.deactivate.On("Handle", mock.Anything, mock.Anything).
		Return(nil, errs.NewObjectNotFoundError("zone", id.String())).Once()

	rec := s.do(http.MethodPost, "/api/v1/zones/"+id.String()+"/deactivate", "")

	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *ServerTestSuite) TestDeactivateZone_MalformedID() {
	rec := s.do(http.MethodPost, "/api/v1/zones/not-a-uuid/deactivate", "")

	s.Equal(http.StatusBadRequest, rec.Code)
	s.deactivate.AssertNotCalled(s.T(), "Handle", mock.Anything, mock.Anything)
}

func (s *ServerTestSuite) TestAutoAssign() {
	zoneID := kernel.NewUUID()
	s.autoAssign.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.AutoAssignZonesCommand) bool {
		return cmd.Date().String() == "2025-06-10"
	})).Return(commands.ZoneAssignmentResult{
		TotalOrders:    3,
		AssignedOrders: 2,
		PerZoneCounts:  map[kernel.UUID]int{zoneID: 2},
	}, nil).Once()

	rec := s.do(http.MethodPost, "/api/v1/dispatch/2025-06-10/zones/assign", "")

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var body api.ZoneAssignmentResult
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal(2, body.AssignedOrders)
	s.Equal(2, body.PerZoneCounts[zoneID.String()])
}

func (s *ServerTestSuite) TestAutoAssign_InvalidDate() {
	rec := s.do(http.MethodPost, "/api/v1/dispatch/2025-13-40/zones/assign", "")

	s.Equal(http.StatusBadRequest, rec.Code)
	s.autoAssign.AssertNotCalled(s.T(), "Handle", mock.Anything, mock.Anything)
}

func (s *ServerTestSuite) TestAutoAssign_NoZonesIs422() {
	s.autoAssign.On("Handle", mock.Anything, mock.Anything).
		Return(commands.ZoneAssignmentResult{}, errs.NewNoZonesAvailableError("2025-06-10")).Once()

	rec := s.do(http.MethodPost, "/api/v1/dispatch/2025-06-10/zones/assign", "")

	s.Equal(http.StatusUnprocessableEntity, rec.Code)
}

func (s *ServerTestSuite) TestCreateDraftRuns_ReportsDeferredOrders() {
	runID, zoneID := kernel.NewUUID(), kernel.NewUUID()
	s.draftRuns.On("Handle", mock.Anything, mock.Anything).Return([]commands.RunSummary{{
		RunID:          runID,
		RunNumber:      "RUN-20250610-0001",
		ZoneID:         zoneID,
		Status:         run.Assigned,
		OrderCount:     3,
		DeferredOrders: 2,
	}}, nil).Once()

	rec := s.do(http.MethodPost, "/api/v1/dispatch/2025-06-10/runs", "")

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var body []map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Require().Len(body, 1)
	s.InDelta(2, body[0]["deferredOrders"], 0)
	s.InDelta(0, body[0]["addedOrders"], 0)
	s.Equal("ASSIGNED", body[0]["status"])
}

func (s *ServerTestSuite) TestCreateDraftRuns_UnexpectedErrorIsHidden() {
	s.draftRuns.On("Handle", mock.Anything, mock.Anything).
		Return(nil, errors.New("pq: connection reset by peer")).Once()

	rec := s.do(http.MethodPost, "/api/v1/dispatch/2025-06-10/runs", "")

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal(http.StatusText(http.StatusInternalServerError), decodeError(s.T(), rec).Message)
}

func (s *ServerTestSuite) TestGetRunsForDate_ExcludeCancelled() {
	s.runs.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetRunsForDateQuery) bool {
		return !q.IncludeCancelled()
	})).Return([]queries.GetRunsForDateQueryResponse{{
		ID:         kernel.NewUUID(),
		RunNumber:  "RUN-20250610-ABCDEF12",
		Status:     run.Draft.String(),
		ZoneName:   "North",
		OrderCount: 4,
	}}, nil).Once()

	rec := s.do(http.MethodGet, "/api/v1/dispatch/2025-06-10/runs?includeCancelled=false", "")

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var body []api.RunListItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Require().Len(body, 1)
	s.Equal("North", body[0].ZoneName)
	s.Equal(4, body[0].OrderCount)
	s.runs.AssertExpectations(s.T())
}

func (s *ServerTestSuite) TestFinalize_CollaboratorFailureIs502() {
	s.finalize.On("Handle", mock.Anything, mock.Anything).
		Return(commands.FinalizeResult{}, errs.NewExternalServiceError("sms gateway", errors.New("timeout"))).Once()

	rec := s.do(http.MethodPost, "/api/v1/runs/"+kernel.NewUUID().String()+"/finalize", "")

	s.Equal(http.StatusBadGateway, rec.Code)
}

func (s *ServerTestSuite) TestFinalize_Success() {
	duration := 95.5
	s.finalize.On("Handle", mock.Anything, mock.Anything).Return(commands.FinalizeResult{
		OrderCount:               3,
		CustomersNotified:        2,
		CustomerFailures:         1,
		DriverNotified:           true,
		EstimatedDurationMinutes: &duration,
	}, nil).Once()

	rec := s.do(http.MethodPost, "/api/v1/runs/"+kernel.NewUUID().String()+"/finalize", "")

	s.Require().Equal(http.StatusOK, rec.Code)
	var body api.FinalizeResult
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal(1, body.CustomerFailures)
	s.True(body.DriverNotified)
	s.Require().NotNil(body.EstimatedDurationMinutes)
	s.InDelta(95.5, *body.EstimatedDurationMinutes, 0.001)
	s.Nil(body.EstimatedDistanceKm)
}

func (s *ServerTestSuite) TestCreateDriver() {
	s.drivers.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateDriverCommand) bool {
		return cmd.Name() == "Alice" && cmd.Phone() == "+15550001"
	})).Return(func() *fleet.Driver {
		d, err := fleet.NewDriver(kernel.NewUUID(), "Alice", "+15550001")
		s.Require().NoError(err)
		return d
	}(), nil).Once()

	rec := s.do(http.MethodPost, "/api/v1/drivers", `{"name":"Alice","phone":"+15550001"}`)

	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var body api.Driver
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("Alice", body.Name)
	s.Equal("active", body.Status)
}

func (s *ServerTestSuite) TestCreateOrder_HalfCoordinatesRejected() {
	rec := s.do(http.MethodPost, "/api/v1/orders",
		`{"address":"1 Main St","scheduledDate":"2025-06-10","lng":-122.4}`)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.orders.AssertNotCalled(s.T(), "Handle", mock.Anything, mock.Anything)
}

func (s *ServerTestSuite) TestGeocode_DefaultLimit() {
	s.geocode.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.GeocodeOrdersCommand) bool {
		return cmd.Limit() == 100 && cmd.From().String() == "2025-06-01"
	})).Return(commands.GeocodeResult{Attempted: 2, Geocoded: 2}, nil).Once()

	rec := s.do(http.MethodPost, "/api/v1/orders/geocode", `{"from":"2025-06-01"}`)

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var body api.GeocodeResult
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal(2, body.Geocoded)
}

func TestLoadSpec(t *testing.T) {
	doc, err := api.LoadSpec(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find("/api/v1/runs/{runId}/assignment"))
	assert.NotNil(t, doc.Paths.Find("/api/v1/dispatch/{date}/runs"))
	assert.NotNil(t, doc.Paths.Find("/api/v1/zones/{zoneId}/deactivate"))
}
