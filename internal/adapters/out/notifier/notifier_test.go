package notifier_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"dispatch/internal/adapters/out/notifier"
	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/run"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gateway struct {
	mu       sync.Mutex
	messages []notifier.Message
	fail     bool
	server   *httptest.Server
}

func newGateway(t *testing.T) *gateway {
	t.Helper()
	g := &gateway{}
	g.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		g.mu.Lock()
		defer g.mu.Unlock()
		if g.fail {
			http.Error(w, "upstream down", http.StatusBadGateway)
			return
		}
		var msg notifier.Message
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		assert.Equal(t, msg.IdempotencyKey, r.Header.Get("Idempotency-Key"))
		g.messages = append(g.messages, msg)
		_, _ = w.Write([]byte(`{"id":"sms-1"}`))
	}))
	t.Cleanup(g.server.Close)
	return g
}

func (g *gateway) setFail(v bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fail = v
}

func (g *gateway) sent() []notifier.Message {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]notifier.Message(nil), g.messages...)
}

func (g *gateway) notifier(receipts ports.ReceiptStore) *notifier.Notifier {
	sender := notifier.NewGatewaySender(notifier.GatewayConfig{URL: g.server.URL, Token: "secret"})
	return notifier.New(sender, receipts, logger.Discard())
}

func tuesday(t *testing.T) kernel.Date {
	t.Helper()
	d, err := kernel.ParseDate("2025-03-04")
	require.NoError(t, err)
	return d
}

func orderOnRun(t *testing.T, runID kernel.UUID, phone string) *order.Order {
	t.Helper()
	zoneID := kernel.NewUUID()
	o, err := order.NewOrder(kernel.NewUUID(), order.Details{
		CustomerName:  "Ada",
		CustomerPhone: phone,
		Address:       "500 E Cesar Chavez St",
		ScheduledDate: tuesday(t),
		WeightKg:      2,
		VolumeM3:      0.01,
	})
	require.NoError(t, err)
	require.NoError(t, o.AssignZone(zoneID))
	require.NoError(t, o.AttachToRun(runID, 0))
	return o
}

func window(t *testing.T) ports.DeliveryWindow {
	return ports.DeliveryWindow{Date: tuesday(t), Start: "09:00", End: "13:00"}
}

func TestSendCustomerNotice_SendsOnce(t *testing.T) {
	g := newGateway(t)
	n := g.notifier(notifier.NewMemoryReceiptStore())
	o := orderOnRun(t, kernel.NewUUID(), "+15125550100")

	first, err := n.SendCustomerNotice(context.Background(), o, window(t))
	require.NoError(t, err)
	second, err := n.SendCustomerNotice(context.Background(), o, window(t))
	require.NoError(t, err)

	assert.True(t, first.Delivered)
	assert.False(t, first.AlreadySent)
	assert.Equal(t, "sms-1", first.Reference)
	assert.True(t, second.Delivered)
	assert.True(t, second.AlreadySent)

	sent := g.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "+15125550100", sent[0].To)
	assert.Contains(t, sent[0].Body, "Ada")
	assert.Contains(t, sent[0].Body, "2025-03-04 between 09:00 and 13:00")
}

func TestSendCustomerNotice_FailureReleasesClaim(t *testing.T) {
	g := newGateway(t)
	n := g.notifier(notifier.NewMemoryReceiptStore())
	o := orderOnRun(t, kernel.NewUUID(), "+15125550100")

	g.setFail(true)
	_, err := n.SendCustomerNotice(context.Background(), o, window(t))
	require.ErrorIs(t, err, errs.ErrExternalService)

	g.setFail(false)
	res, err := n.SendCustomerNotice(context.Background(), o, window(t))
	require.NoError(t, err)
	assert.True(t, res.Delivered)
	assert.False(t, res.AlreadySent)
	assert.Len(t, g.sent(), 1)
}

func TestSendCustomerNotice_RequiresRunAndPhone(t *testing.T) {
	g := newGateway(t)
	n := g.notifier(notifier.NewMemoryReceiptStore())

	unrun, err := order.NewOrder(kernel.NewUUID(), order.Details{
		CustomerPhone: "+15125550100",
		Address:       "1 Congress Ave",
		ScheduledDate: tuesday(t),
	})
	require.NoError(t, err)
	_, err = n.SendCustomerNotice(context.Background(), unrun, window(t))
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = n.SendCustomerNotice(context.Background(), orderOnRun(t, kernel.NewUUID(), ""), window(t))
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.Empty(t, g.sent())
}

func TestSendCustomerNotice_InFlightClaimIsNotDelivered(t *testing.T) {
	g := newGateway(t)
	receipts := notifier.NewMemoryReceiptStore()
	n := g.notifier(receipts)
	runID := kernel.NewUUID()
	o := orderOnRun(t, runID, "+15125550100")

	_, owned, err := receipts.Claim(context.Background(), runID, "customer:"+o.ID().String(), notifier.KindCustomer)
	require.NoError(t, err)
	require.True(t, owned)

	_, err = n.SendCustomerNotice(context.Background(), o, window(t))

	require.ErrorIs(t, err, notifier.ErrNoticeInFlight)
	assert.Empty(t, g.sent())
}

func TestSendDriverNotice_KeyedPerRun(t *testing.T) {
	g := newGateway(t)
	n := g.notifier(notifier.NewMemoryReceiptStore())
	driver, err := fleet.NewDriver(kernel.NewUUID(), "Sam", "+15125550199")
	require.NoError(t, err)

	zoneID := kernel.NewUUID()
	r1, err := run.NewDraftRun(tuesday(t), &zoneID)
	require.NoError(t, err)
	r2, err := run.NewDraftRun(tuesday(t).AddDays(1), &zoneID)
	require.NoError(t, err)

	for _, r := range []*run.DeliveryRun{r1, r1, r2} {
		res, sendErr := n.SendDriverNotice(context.Background(), r, driver)
		require.NoError(t, sendErr)
		assert.True(t, res.Delivered)
	}

	sent := g.sent()
	require.Len(t, sent, 2)
	assert.Contains(t, sent[0].Body, r1.RunNumber())
	assert.Equal(t, "+15125550199", sent[0].To)
}

func TestLogSender_DeliversWithoutNetwork(t *testing.T) {
	n := notifier.New(notifier.NewLogSender(logger.Discard()), notifier.NewMemoryReceiptStore(), logger.Discard())
	o := orderOnRun(t, kernel.NewUUID(), "+15125550100")

	res, err := n.SendCustomerNotice(context.Background(), o, window(t))

	require.NoError(t, err)
	assert.True(t, res.Delivered)
	assert.Contains(t, res.Reference, "log:")
}
