package events_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/events"
	"dispatch/internal/core/ports"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPublisher(t *testing.T) *events.RedisPublisher {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return events.NewRedisPublisher(rdb)
}

func TestRedisPublisher_PublishesOnDateChannel(t *testing.T) {
	p := newPublisher(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := p.Subscribe(ctx, "2025-03-04")
	require.NoError(t, err)

	other := ports.RunEvent{Type: ports.EventRunCreated, Date: "2025-03-05", RunNumber: "RUN-20250305-00000000"}
	require.NoError(t, p.Publish(ctx, other))
	want := ports.RunEvent{
		Type:       ports.EventRunAssigned,
		Date:       "2025-03-04",
		RunID:      "9a4c1b2e-0000-4000-8000-000000000000",
		RunNumber:  "RUN-20250304-9A4C1B2E",
		Status:     "ASSIGNED",
		OccurredAt: time.Date(2025, 3, 3, 18, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.Publish(ctx, want))

	select {
	case got := <-stream:
		assert.Equal(t, want.Type, got.Type)
		assert.Equal(t, want.RunNumber, got.RunNumber)
		assert.True(t, want.OccurredAt.Equal(got.OccurredAt))
	case <-ctx.Done():
		t.Fatal("event not received")
	}
}

func TestRedisPublisher_RequiresDate(t *testing.T) {
	p := newPublisher(t)

	err := p.Publish(context.Background(), ports.RunEvent{Type: ports.EventRunCreated})

	require.Error(t, err)
}

func TestNoopPublisher(t *testing.T) {
	var p ports.EventPublisher = events.NoopPublisher{}

	assert.NoError(t, p.Publish(context.Background(), ports.RunEvent{}))
}

func TestChannel(t *testing.T) {
	assert.Equal(t, "runs:2025-03-04", events.Channel("2025-03-04"))
}
