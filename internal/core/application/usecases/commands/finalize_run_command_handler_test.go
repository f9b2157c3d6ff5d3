package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/run"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var settings = commands.FinalizeSettings{
	CallTimeout: time.Second,
	WindowStart: "09:00",
	WindowEnd:   "17:00",
}

// countingNotifier delivers every notice once per run and recipient and
// reports repeats as already sent.
type countingNotifier struct {
	sent  map[string]bool
	calls int
	fail  map[kernel.UUID]bool
}

func newCountingNotifier() *countingNotifier {
	return &countingNotifier{sent: make(map[string]bool), fail: make(map[kernel.UUID]bool)}
}

func (n *countingNotifier) SendCustomerNotice(
	_ context.Context,
	o *order.Order,
	_ ports.DeliveryWindow,
) (ports.NoticeResult, error) {
	if n.fail[o.ID()] {
		return ports.NoticeResult{}, errors.New("gateway timeout")
	}
	key := o.RunID().String() + "/" + o.ID().String()
	if n.sent[key] {
		return ports.NoticeResult{Delivered: true, AlreadySent: true}, nil
	}
	n.sent[key] = true
	n.calls++
	return ports.NoticeResult{Delivered: true, Reference: key}, nil
}

func (n *countingNotifier) SendDriverNotice(
	_ context.Context,
	r *run.DeliveryRun,
	_ *fleet.Driver,
) (ports.NoticeResult, error) {
	key := r.ID().String() + "/driver"
	if n.sent[key] {
		return ports.NoticeResult{Delivered: true, AlreadySent: true}, nil
	}
	n.sent[key] = true
	n.calls++
	return ports.NoticeResult{Delivered: true}, nil
}

type finalizeFixture struct {
	repos  repos
	uow    *MockUoW
	run    *run.DeliveryRun
	orders []*order.Order
	cmd    commands.FinalizeRunCommand
}

func newFinalizeFixture(t *testing.T, n int) finalizeFixture {
	t.Helper()
	driver := newDriver(t)
	vehicle := newVehicle(t, 500)

	north := weekdayZones(t)[0]
	orders := make([]*order.Order, 0, n)
	for i := range n {
		orders = append(orders, zonedOrder(t, north, northLng, northLat+float64(i)*0.001))
	}
	r := assignedRun(t, driver, vehicle, orders...)
	for i, o := range orders {
		require.NoError(t, o.AttachToRun(r.ID(), i))
	}

	rp := newRepos()
	uow := newUoW(rp)
	expectTx(uow)
	rp.runs.On("Get", mock.Anything, r.ID()).Return(r, nil)
	rp.runs.On("GetForUpdate", mock.Anything, r.ID()).Return(r, nil)
	rp.orders.On("ListByRun", mock.Anything, r.ID()).Return(orders, nil)
	rp.fleet.On("GetDriver", mock.Anything, driver.ID()).Return(driver, nil)
	rp.fleet.On("GetVehicle", mock.Anything, vehicle.ID()).Return(vehicle, nil)

	cmd, err := commands.NewFinalizeRunCommand(r.ID())
	require.NoError(t, err)
	return finalizeFixture{repos: rp, uow: uow, run: r, orders: orders, cmd: cmd}
}

func TestFinalizeRunCommandHandler_Handle_NotifiesAndSavesEstimates(t *testing.T) {
	ctx := t.Context()
	f := newFinalizeFixture(t, 3)
	notifier := newCountingNotifier()
	optimizer := new(MockRouteOptimizer)
	optimizer.On("Optimize", mock.Anything, mock.MatchedBy(func(stops []ports.Stop) bool {
		return len(stops) == 3
	}), ports.VehicleConstraints{CapacityKg: 500, CapacityCubicM: 10}).
		Return(ports.RoutePlan{DistanceKm: 12.5, DurationMinutes: 48}, nil).Once()
	f.repos.runs.On("Update", mock.Anything, f.run).Return(nil).Once()

	handler := commands.NewFinalizeRunCommandHandler(factoryFor(f.uow), optimizer, notifier, nil, settings, logger.Discard())

	result, err := handler.Handle(ctx, f.cmd)

	require.NoError(t, err)
	assert.Equal(t, 3, result.OrderCount)
	assert.Equal(t, 3, result.CustomersNotified)
	assert.Zero(t, result.CustomerFailures)
	assert.True(t, result.DriverNotified)
	require.NotNil(t, result.EstimatedDistanceKm)
	assert.InDelta(t, 12.5, *result.EstimatedDistanceKm, 1e-9)
	assert.InDelta(t, 48, *result.EstimatedDurationMinutes, 1e-9)
	assert.InDelta(t, 48, *f.run.EstimatedDurationMinutes(), 1e-9)
	assert.Equal(t, run.Assigned, f.run.Status())
	optimizer.AssertExpectations(t)
	f.repos.runs.AssertExpectations(t)
}

func TestFinalizeRunCommandHandler_Handle_IsIdempotent(t *testing.T) {
	ctx := t.Context()
	f := newFinalizeFixture(t, 4)
	notifier := newCountingNotifier()

	handler := commands.NewFinalizeRunCommandHandler(factoryFor(f.uow), nil, notifier, nil, settings, logger.Discard())

	first, err := handler.Handle(ctx, f.cmd)
	require.NoError(t, err)
	callsAfterFirst := notifier.calls

	second, err := handler.Handle(ctx, f.cmd)
	require.NoError(t, err)

	assert.Equal(t, 5, callsAfterFirst)
	assert.Equal(t, callsAfterFirst, notifier.calls, "no notice is sent twice")
	assert.Equal(t, first.CustomersNotified, second.CustomersNotified)
	assert.True(t, second.DriverNotified)
}

func TestFinalizeRunCommandHandler_Handle_NotifierFailuresAreCounted(t *testing.T) {
	ctx := t.Context()
	f := newFinalizeFixture(t, 3)
	notifier := newCountingNotifier()
	notifier.fail[f.orders[1].ID()] = true

	handler := commands.NewFinalizeRunCommandHandler(factoryFor(f.uow), nil, notifier, nil, settings, logger.Discard())

	result, err := handler.Handle(ctx, f.cmd)

	require.NoError(t, err)
	assert.Equal(t, 3, result.OrderCount)
	assert.Equal(t, 2, result.CustomersNotified)
	assert.Equal(t, 1, result.CustomerFailures)
	assert.True(t, result.DriverNotified)
}

func TestFinalizeRunCommandHandler_Handle_OptimizerFailureLeavesEstimatesNil(t *testing.T) {
	ctx := t.Context()
	f := newFinalizeFixture(t, 2)
	optimizer := new(MockRouteOptimizer)
	optimizer.On("Optimize", mock.Anything, mock.Anything, mock.Anything).
		Return(ports.RoutePlan{}, context.DeadlineExceeded).Once()

	handler := commands.NewFinalizeRunCommandHandler(
		factoryFor(f.uow), optimizer, newCountingNotifier(), nil, settings, logger.Discard())

	result, err := handler.Handle(ctx, f.cmd)

	require.NoError(t, err)
	assert.Nil(t, result.EstimatedDurationMinutes)
	assert.Nil(t, result.EstimatedDistanceKm)
	assert.Equal(t, 2, result.CustomersNotified)
	f.repos.runs.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestFinalizeRunCommandHandler_Handle_RequiresAssignedRun(t *testing.T) {
	ctx := t.Context()
	r := draftRun(t, kernel.NewUUID(), newOrder(t, 1))

	rp := newRepos()
	uow := newUoW(rp)
	expectTx(uow)
	rp.runs.On("Get", ctx, r.ID()).Return(r, nil).Once()
	notifier := new(MockNotifier)

	handler := commands.NewFinalizeRunCommandHandler(factoryFor(uow), nil, notifier, nil, settings, logger.Discard())
	cmd, _ := commands.NewFinalizeRunCommand(r.ID())

	_, err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidState)
	notifier.AssertNotCalled(t, "SendCustomerNotice", mock.Anything, mock.Anything, mock.Anything)
}

func TestFinalizeRunCommandHandler_Handle_PassesDeliveryWindow(t *testing.T) {
	ctx := t.Context()
	f := newFinalizeFixture(t, 1)
	notifier := new(MockNotifier)
	notifier.On("SendCustomerNotice", mock.Anything, f.orders[0], ports.DeliveryWindow{
		Date:  tuesday(t),
		Start: "09:00",
		End:   "17:00",
	}).Return(ports.NoticeResult{Delivered: true}, nil).Once()
	notifier.On("SendDriverNotice", mock.Anything, f.run, mock.Anything).
		Return(ports.NoticeResult{}, errors.New("no route to gateway")).Once()

	handler := commands.NewFinalizeRunCommandHandler(factoryFor(f.uow), nil, notifier, nil, settings, logger.Discard())

	result, err := handler.Handle(ctx, f.cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, result.CustomersNotified)
	assert.False(t, result.DriverNotified)
	notifier.AssertExpectations(t)
}
