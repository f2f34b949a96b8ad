package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// EventLedger tracks recently seen webhook event IDs so redelivered
// events are not fulfilled twice. Entries expire after the TTL, which
// bounds the set; Stripe redelivery windows are far shorter.
type EventLedger struct {
	client *redis.Client
	ttl    time.Duration
}

func NewEventLedger(client *redis.Client, ttl time.Duration) *EventLedger {
	return &EventLedger{
		client: client,
		ttl:    ttl,
	}
}

func (l *EventLedger) getKey(eventID string) string {
	return "stripe:event:" + eventID
}

// FirstDelivery records the event ID and reports whether this is the
// first time it has been seen.
func (l *EventLedger) FirstDelivery(ctx context.Context, eventID string) (bool, error) {
	return l.client.SetNX(ctx, l.getKey(eventID), "1", l.ttl).Result()
}
