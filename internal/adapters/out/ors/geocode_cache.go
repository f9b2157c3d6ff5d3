package ors

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/redis/go-redis/v9"
)

// GeocodeCache remembers resolved addresses between runs of the geocoding job.
type GeocodeCache interface {
	Get(ctx context.Context, address string) (kernel.Coordinates, bool, error)
	Set(ctx context.Context, address string, c kernel.Coordinates) error
}

// RedisGeocodeCache stores [lng, lat] JSON under geocode:<address>.
type RedisGeocodeCache struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func NewRedisGeocodeCache(rdb redis.UniversalClient, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{rdb: rdb, ttl: ttl}
}

func (c *RedisGeocodeCache) key(address string) string {
	return "geocode:" + strings.ToLower(address)
}

func (c *RedisGeocodeCache) Get(ctx context.Context, address string) (kernel.Coordinates, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(address)).Bytes()
	if errors.Is(err, redis.Nil) {
		return kernel.Coordinates{}, false, nil
	}
	if err != nil {
		return kernel.Coordinates{}, false, err
	}

	var pair [2]float64
	if err = json.Unmarshal(raw, &pair); err != nil {
		// Unreadable entries are treated as misses and overwritten.
		return kernel.Coordinates{}, false, nil
	}
	coords, err := kernel.NewCoordinates(pair[0], pair[1])
	if err != nil {
		return kernel.Coordinates{}, false, nil
	}
	return coords, true, nil
}

func (c *RedisGeocodeCache) Set(ctx context.Context, address string, coords kernel.Coordinates) error {
	data, err := json.Marshal([2]float64{coords.Lng(), coords.Lat()})
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(address), data, c.ttl).Err()
}
