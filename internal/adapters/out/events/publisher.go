// Package events publishes run events on redis pub/sub so dashboards and
// other processes can follow dispatch as it happens.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"dispatch/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// ChannelPrefix is followed by the event date, e.g. runs:2025-03-04.
const ChannelPrefix = "runs:"

func Channel(date string) string {
	return ChannelPrefix + date
}

type RedisPublisher struct {
	rdb redis.UniversalClient
}

func NewRedisPublisher(rdb redis.UniversalClient) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, event ports.RunEvent) error {
	if event.Date == "" {
		return fmt.Errorf("event %s has no date", event.Type)
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, Channel(event.Date), data).Err()
}

// Subscribe streams the events of one date until ctx is done. Messages
// that do not decode are dropped.
func (p *RedisPublisher) Subscribe(ctx context.Context, date string) (<-chan ports.RunEvent, error) {
	ps := p.rdb.Subscribe(ctx, Channel(date))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}

	out := make(chan ports.RunEvent, 16)
	go func() {
		defer close(out)
		defer ps.Close()
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var evt ports.RunEvent
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					continue
				}
				select {
				case out <- evt:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// NoopPublisher is used when REDIS_URL is not set.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ports.RunEvent) error {
	return nil
}
