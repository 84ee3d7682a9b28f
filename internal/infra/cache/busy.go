package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/beauty-booking/internal/scheduling"
)

// BusyCache keeps the active reservation intervals of one provider and day.
// Entries are dropped whenever a reservation on that day changes.
type BusyCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBusyCache(client *redis.Client, ttl time.Duration) *BusyCache {
	return &BusyCache{client: client, ttl: ttl}
}

type busyEntry struct {
	Start int `json:"s"`
	End   int `json:"e"`
}

func busyKey(providerID uint, date time.Time) string {
	return fmt.Sprintf("availability:busy:%d:%s", providerID, date.Format("2006-01-02"))
}

// Get returns ok=false on a cache miss.
func (c *BusyCache) Get(ctx context.Context, providerID uint, date time.Time) ([]scheduling.Interval, bool, error) {
	raw, err := c.client.Get(ctx, busyKey(providerID, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("busy cache get: %w", err)
	}

	var entries []busyEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, fmt.Errorf("busy cache decode: %w", err)
	}

	out := make([]scheduling.Interval, 0, len(entries))
	for _, e := range entries {
		out = append(out, scheduling.Interval{Start: scheduling.Clock(e.Start), End: scheduling.Clock(e.End)})
	}
	return out, true, nil
}

func (c *BusyCache) Set(ctx context.Context, providerID uint, date time.Time, busy []scheduling.Interval) error {
	entries := make([]busyEntry, 0, len(busy))
	for _, b := range busy {
		entries = append(entries, busyEntry{Start: int(b.Start), End: int(b.End)})
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, busyKey(providerID, date), raw, c.ttl).Err()
}

func (c *BusyCache) Invalidate(ctx context.Context, providerID uint, date time.Time) error {
	return c.client.Del(ctx, busyKey(providerID, date)).Err()
}
