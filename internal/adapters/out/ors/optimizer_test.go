package ors_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dispatch/internal/adapters/out/ors"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stopAt(t *testing.T, lng, lat float64) ports.Stop {
	t.Helper()
	c, err := kernel.NewCoordinates(lng, lat)
	require.NoError(t, err)
	return ports.Stop{OrderID: kernel.NewUUID(), Coordinates: c}
}

func newOptimizer(t *testing.T, handler http.HandlerFunc) *ors.Optimizer {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := ors.NewClient(ors.Config{BaseURL: srv.URL, APIKey: "test-key"})
	require.NoError(t, err)
	return ors.NewOptimizer(client)
}

func TestOptimizer_Optimize_ConvertsSummary(t *testing.T) {
	stops := []ports.Stop{stopAt(t, -97.75, 30.40), stopAt(t, -97.74, 30.30), stopAt(t, -97.70, 30.25)}
	o := newOptimizer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/directions/driving-car", r.URL.Path)

		var body struct {
			Coordinates [][2]float64 `json:"coordinates"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body.Coordinates, 3)
		assert.InDelta(t, -97.75, body.Coordinates[0][0], 1e-9)

		_, _ = w.Write([]byte(`{"routes":[{"summary":{"distance":42500,"duration":5400}}]}`))
	})

	plan, err := o.Optimize(context.Background(), stops, ports.VehicleConstraints{CapacityKg: 800})

	require.NoError(t, err)
	assert.InDelta(t, 42.5, plan.DistanceKm, 1e-9)
	assert.InDelta(t, 90.0, plan.DurationMinutes, 1e-9)
	require.Len(t, plan.OrderedStops, 3)
	assert.Equal(t, stops[2].OrderID, plan.OrderedStops[2])
}

func TestOptimizer_Optimize_SingleStopNeedsNoCall(t *testing.T) {
	o := newOptimizer(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("unexpected request")
	})
	stop := stopAt(t, -97.75, 30.40)

	plan, err := o.Optimize(context.Background(), []ports.Stop{stop}, ports.VehicleConstraints{})

	require.NoError(t, err)
	assert.Equal(t, []kernel.UUID{stop.OrderID}, plan.OrderedStops)
	assert.Zero(t, plan.DistanceKm)
}

func TestOptimizer_Optimize_UpstreamFailure(t *testing.T) {
	o := newOptimizer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "route not found", http.StatusNotFound)
	})

	_, err := o.Optimize(context.Background(),
		[]ports.Stop{stopAt(t, -97.75, 30.40), stopAt(t, -97.74, 30.30)}, ports.VehicleConstraints{})

	require.ErrorIs(t, err, errs.ErrExternalService)
}

func TestOptimizer_Optimize_EmptyRoutes(t *testing.T) {
	o := newOptimizer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"routes":[]}`))
	})

	_, err := o.Optimize(context.Background(),
		[]ports.Stop{stopAt(t, -97.75, 30.40), stopAt(t, -97.74, 30.30)}, ports.VehicleConstraints{})

	require.ErrorIs(t, err, errs.ErrExternalService)
}
