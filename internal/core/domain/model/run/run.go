package run

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrRunIsNotConstructed = errors.New("DeliveryRun must be created via NewDraftRun or RestoreRun constructor")

// DeliveryRun groups the orders one driver delivers with one vehicle on one day.
//
// Invariants:
//   - runNumber is RUN-YYYYMMDD-XXXXXXXX and derives from the date and id
//   - driver and vehicle are either both bound (ASSIGNED and later) or both nil
//     for DRAFT and PLANNED runs
//   - orders are only appended while DRAFT or PLANNED
//
// Exclusivity of drivers and vehicles per date is not checked here; it spans
// runs and is enforced by the store.
type DeliveryRun struct {
	id                       kernel.UUID
	runNumber                string
	scheduledDate            kernel.Date
	status                   Status
	zoneID                   *kernel.UUID
	driverID                 *kernel.UUID
	vehicleID                *kernel.UUID
	orderIDs                 []kernel.UUID
	estimatedDurationMinutes *float64
	totalDistanceKm          *float64
	isConstructed            bool
}

// NewDraftRun creates an empty DRAFT run. zoneID may be nil for runs that
// are not tied to a zone.
func NewDraftRun(scheduledDate kernel.Date, zoneID *kernel.UUID) (*DeliveryRun, error) {
	if err := scheduledDate.Validate(); err != nil {
		return nil, err
	}
	if zoneID != nil {
		if err := zoneID.Validate(); err != nil {
			return nil, err
		}
	}

	id := kernel.NewUUID()
	return &DeliveryRun{
		id:            id,
		runNumber:     FormatRunNumber(scheduledDate, id),
		scheduledDate: scheduledDate,
		status:        Draft,
		zoneID:        zoneID,
		isConstructed: true,
	}, nil
}

// RestoreParams carries the persisted state of a run.
type RestoreParams struct {
	ID                       kernel.UUID
	RunNumber                string
	ScheduledDate            kernel.Date
	Status                   Status
	ZoneID                   *kernel.UUID
	DriverID                 *kernel.UUID
	VehicleID                *kernel.UUID
	OrderIDs                 []kernel.UUID
	EstimatedDurationMinutes *float64
	TotalDistanceKm          *float64
}

func RestoreRun(p RestoreParams) (*DeliveryRun, error) {
	if err := errors.Join(
		p.ID.Validate(),
		p.ScheduledDate.Validate(),
		p.Status.Validate(),
	); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.RunNumber) == "" {
		return nil, errs.NewValueIsRequiredError("runNumber")
	}
	if (p.DriverID == nil) != (p.VehicleID == nil) {
		return nil, errs.NewValueIsInvalidErrorWithCause("resources",
			errors.New("driver and vehicle must be bound together"))
	}

	ids := make([]kernel.UUID, len(p.OrderIDs))
	copy(ids, p.OrderIDs)

	return &DeliveryRun{
		id:                       p.ID,
		runNumber:                p.RunNumber,
		scheduledDate:            p.ScheduledDate,
		status:                   p.Status,
		zoneID:                   p.ZoneID,
		driverID:                 p.DriverID,
		vehicleID:                p.VehicleID,
		orderIDs:                 ids,
		estimatedDurationMinutes: p.EstimatedDurationMinutes,
		totalDistanceKm:          p.TotalDistanceKm,
		isConstructed:            true,
	}, nil
}

// FormatRunNumber returns RUN-YYYYMMDD-XXXXXXXX with the upper-cased first
// eight hex digits of id.
func FormatRunNumber(date kernel.Date, id kernel.UUID) string {
	return fmt.Sprintf("RUN-%s-%s", date.Compact(), strings.ToUpper(id.ShortHex()))
}

func (r *DeliveryRun) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRunIsNotConstructed
	}
	return nil
}

func (r *DeliveryRun) ID() kernel.UUID {
	return r.id
}

func (r *DeliveryRun) RunNumber() string {
	return r.runNumber
}

func (r *DeliveryRun) ScheduledDate() kernel.Date {
	return r.scheduledDate
}

func (r *DeliveryRun) Status() Status {
	return r.status
}

func (r *DeliveryRun) ZoneID() *kernel.UUID {
	return r.zoneID
}

func (r *DeliveryRun) DriverID() *kernel.UUID {
	return r.driverID
}

func (r *DeliveryRun) VehicleID() *kernel.UUID {
	return r.vehicleID
}

// OrderIDs returns the run's orders in delivery sequence.
func (r *DeliveryRun) OrderIDs() []kernel.UUID {
	out := make([]kernel.UUID, len(r.orderIDs))
	copy(out, r.orderIDs)
	return out
}

func (r *DeliveryRun) OrderCount() int {
	return len(r.orderIDs)
}

func (r *DeliveryRun) EstimatedDurationMinutes() *float64 {
	return r.estimatedDurationMinutes
}

func (r *DeliveryRun) TotalDistanceKm() *float64 {
	return r.totalDistanceKm
}

// AppendOrders adds orders not already on the run, keeping the existing
// sequence. It returns the ids actually appended.
func (r *DeliveryRun) AppendOrders(ids ...kernel.UUID) ([]kernel.UUID, error) {
	if !r.status.AcceptsOrders() {
		return nil, errs.NewInvalidStateError("run", r.id.String(), r.status.String(), "orders can only be added to DRAFT or PLANNED runs")
	}

	present := make(map[kernel.UUID]struct{}, len(r.orderIDs)+len(ids))
	for _, id := range r.orderIDs {
		present[id] = struct{}{}
	}

	added := make([]kernel.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		if _, ok := present[id]; ok {
			continue
		}
		present[id] = struct{}{}
		r.orderIDs = append(r.orderIDs, id)
		added = append(added, id)
	}
	return added, nil
}

// Plan marks a DRAFT run with at least one order as PLANNED.
func (r *DeliveryRun) Plan() error {
	if len(r.orderIDs) == 0 {
		return errs.NewInvalidStateError("run", r.id.String(), r.status.String(), "a run without orders cannot be planned")
	}
	next, err := r.status.Plan()
	if err != nil {
		return r.wrap(err)
	}
	r.status = next
	return nil
}

// Assign binds the driver and vehicle and moves the run to ASSIGNED. Capacity
// must have been validated by the caller against the current orders.
func (r *DeliveryRun) Assign(driverID kernel.UUID, vehicleID kernel.UUID) error {
	if err := errors.Join(driverID.Validate(), vehicleID.Validate()); err != nil {
		return err
	}
	next, err := r.status.Assign()
	if err != nil {
		return r.wrap(err)
	}
	r.driverID = &driverID
	r.vehicleID = &vehicleID
	r.status = next
	return nil
}

func (r *DeliveryRun) Start() error {
	next, err := r.status.Start()
	if err != nil {
		return r.wrap(err)
	}
	r.status = next
	return nil
}

func (r *DeliveryRun) Complete() error {
	next, err := r.status.Complete()
	if err != nil {
		return r.wrap(err)
	}
	r.status = next
	return nil
}

// Cancel releases the run's driver and vehicle for the date; the ids are kept
// for history, and cancelled runs do not count toward exclusivity.
func (r *DeliveryRun) Cancel() error {
	next, err := r.status.Cancel()
	if err != nil {
		return r.wrap(err)
	}
	r.status = next
	return nil
}

// RequireAssigned is the precondition of finalize.
func (r *DeliveryRun) RequireAssigned() error {
	if r.status != Assigned {
		return errs.NewInvalidStateError("run", r.id.String(), r.status.String(), "run must be ASSIGNED")
	}
	return nil
}

// SetEstimates records route optimizer output. Nil values clear nothing:
// an estimate that could not be computed leaves the previous one in place.
func (r *DeliveryRun) SetEstimates(durationMinutes *float64, distanceKm *float64) error {
	if r.status != Assigned && r.status != InProgress {
		return errs.NewInvalidStateError("run", r.id.String(), r.status.String(), "estimates require a bound run")
	}
	if durationMinutes != nil {
		if err := nonNegative("estimatedDurationMinutes", *durationMinutes); err != nil {
			return err
		}
		v := *durationMinutes
		r.estimatedDurationMinutes = &v
	}
	if distanceKm != nil {
		if err := nonNegative("totalDistanceKm", *distanceKm); err != nil {
			return err
		}
		v := *distanceKm
		r.totalDistanceKm = &v
	}
	return nil
}

func (r *DeliveryRun) wrap(err error) error {
	var ise *errs.InvalidStateError
	if errors.As(err, &ise) {
		return errs.NewInvalidStateError("run", r.id.String(), ise.State, ise.Reason)
	}
	return err
}

func nonNegative(name string, v float64) error {
	if math.IsNaN(v) || v < 0 {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%v is not a non-negative number", v))
	}
	return nil
}
