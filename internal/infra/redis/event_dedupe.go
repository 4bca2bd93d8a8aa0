package redis

import (
	"context"
	"fmt"
	"time"
)

// EventDeduper remembers processed webhook event IDs so provider retries of
// an already-handled event are acknowledged without reprocessing.
type EventDeduper struct {
	cli RedisClient
	ttl time.Duration
}

func NewEventDeduper(c RedisClient, ttl time.Duration) *EventDeduper {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &EventDeduper{cli: c, ttl: ttl}
}

// Seen marks an event ID and reports whether it was already recorded.
// Redis errors fail open: the event is treated as new.
func (d *EventDeduper) Seen(ctx context.Context, eventID string) (bool, error) {
	ok, err := d.cli.SetNX(ctx, eventKey(eventID), "1", d.ttl)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func eventKey(id string) string { return fmt.Sprintf("webhook:event:%s", id) }
