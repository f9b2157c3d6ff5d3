package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/run"
)

// GeocodingProvider turns a postal address into coordinates. A failure means
// the order stays without coordinates and is reported out of bounds.
type GeocodingProvider interface {
	Geocode(ctx context.Context, address string) (kernel.Coordinates, error)
}

// Stop is one delivery point handed to the route optimizer.
type Stop struct {
	OrderID     kernel.UUID
	Coordinates kernel.Coordinates
}

// VehicleConstraints bound what the optimizer may plan for one vehicle.
type VehicleConstraints struct {
	CapacityKg     float64
	CapacityCubicM float64
}

// RoutePlan is the optimizer's answer for a run.
type RoutePlan struct {
	OrderedStops    []kernel.UUID
	DistanceKm      float64
	DurationMinutes float64
}

// RouteOptimizer estimates distance and duration of a run. Its output only
// populates estimates; assignment never depends on it.
type RouteOptimizer interface {
	Optimize(ctx context.Context, stops []Stop, constraints VehicleConstraints) (RoutePlan, error)
}

// DeliveryWindow is the time range customers are told to expect delivery in.
type DeliveryWindow struct {
	Date  kernel.Date
	Start string
	End   string
}

// NoticeResult describes one notification attempt. Delivered is true when
// the recipient is known to have the notice, including when AlreadySent
// reports a send recorded by an earlier call.
type NoticeResult struct {
	Delivered   bool
	AlreadySent bool
	Reference   string
}

// Notice receipt states.
const (
	ReceiptPending = "pending"
	ReceiptSent    = "sent"
)

// NoticeReceipt is the stored state of one recipient's notice for a run.
type NoticeReceipt struct {
	Status    string
	Reference string
}

// ReceiptStore records which recipients of a run already have their notice.
// Claim returns true when the caller owns the send, otherwise the existing
// receipt. Release only drops pending claims.
type ReceiptStore interface {
	Claim(ctx context.Context, runID kernel.UUID, recipientKey string, kind string) (NoticeReceipt, bool, error)
	MarkSent(ctx context.Context, runID kernel.UUID, recipientKey string, reference string) error
	Release(ctx context.Context, runID kernel.UUID, recipientKey string) error
}

// Notifier delivers customer and driver notices. Implementations keep a
// dedup receipt per run and recipient so repeated calls send nothing new.
type Notifier interface {
	SendCustomerNotice(ctx context.Context, o *order.Order, window DeliveryWindow) (NoticeResult, error)
	SendDriverNotice(ctx context.Context, r *run.DeliveryRun, driver *fleet.Driver) (NoticeResult, error)
}

// Run event types published after successful writes.
const (
	EventZonesAssigned    = "zones.assigned"
	EventRunCreated       = "run.created"
	EventRunAssigned      = "run.assigned"
	EventRunStatusChanged = "run.status_changed"
	EventRunFinalized     = "run.finalized"
	EventZonesRebalanced  = "zones.rebalanced"
)

// RunEvent is the payload published to outer layers such as live dashboards.
type RunEvent struct {
	Type       string         `json:"type"`
	Date       string         `json:"date"`
	RunID      string         `json:"runId,omitempty"`
	RunNumber  string         `json:"runNumber,omitempty"`
	Status     string         `json:"status,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// EventPublisher fans run events out to subscribers in other processes.
// Publishing is best-effort; callers log failures and carry on.
type EventPublisher interface {
	Publish(ctx context.Context, event RunEvent) error
}
