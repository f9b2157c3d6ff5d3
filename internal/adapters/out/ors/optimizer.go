package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/metrics"
	"dispatch/internal/pkg/errs"
)

const optimizeService = "ors directions"

type directionsRequest struct {
	Coordinates [][2]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"summary"`
	} `json:"routes"`
}

// Optimizer implements ports.RouteOptimizer with the driving-car directions
// endpoint. Stops are driven in the given order; the plan echoes it back.
type Optimizer struct {
	client  *Client
	profile string
}

func NewOptimizer(client *Client) *Optimizer {
	return &Optimizer{client: client, profile: "driving-car"}
}

func (o *Optimizer) Optimize(
	ctx context.Context,
	stops []ports.Stop,
	_ ports.VehicleConstraints,
) (_ ports.RoutePlan, err error) {
	ordered := make([]kernel.UUID, 0, len(stops))
	for _, s := range stops {
		ordered = append(ordered, s.OrderID)
	}
	if len(stops) < 2 {
		return ports.RoutePlan{OrderedStops: ordered}, nil
	}

	done := metrics.ObserveCall("ors", "directions")
	defer func() { done(err) }()

	body := directionsRequest{Coordinates: make([][2]float64, 0, len(stops))}
	for _, s := range stops {
		body.Coordinates = append(body.Coordinates, [2]float64{s.Coordinates.Lng(), s.Coordinates.Lat()})
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return ports.RoutePlan{}, err
	}

	resp, err := o.client.doWithRetry(ctx, func() (*http.Request, error) {
		return o.client.newRequest(ctx, http.MethodPost, "/v2/directions/"+o.profile, bytes.NewReader(payload))
	})
	if err != nil {
		return ports.RoutePlan{}, errs.NewExternalServiceError(optimizeService, err)
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.RoutePlan{}, errs.NewExternalServiceError(optimizeService,
			fmt.Errorf("decode directions response: %w", err))
	}
	if len(decoded.Routes) == 0 {
		return ports.RoutePlan{}, errs.NewExternalServiceError(optimizeService, errors.New("no route returned"))
	}

	summary := decoded.Routes[0].Summary
	return ports.RoutePlan{
		OrderedStops:    ordered,
		DistanceKm:      summary.Distance / 1000,
		DurationMinutes: summary.Duration / 60,
	}, nil
}
