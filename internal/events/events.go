package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// DefaultChannelPrefix is prepended to the room id to form the Pub/Sub channel.
const DefaultChannelPrefix = "channel:room:"

// Event represents a room message published via Pub/Sub.
type Event struct {
	Type    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Publisher mirrors room-wide messages to external observers.
type Publisher interface {
	Publish(ctx context.Context, roomID, eventType string, payload []byte) error
}

// RedisPublisher publishes events to a Redis Pub/Sub channel per room.
type RedisPublisher struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisPublisher returns a publisher on rdb. An empty prefix selects
// DefaultChannelPrefix.
func NewRedisPublisher(rdb *redis.Client, prefix string) *RedisPublisher {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	return &RedisPublisher{rdb: rdb, prefix: prefix}
}

// Channel returns the channel events of roomID are published on.
func (p *RedisPublisher) Channel(roomID string) string {
	return p.prefix + roomID
}

func (p *RedisPublisher) Publish(ctx context.Context, roomID, eventType string, payload []byte) error {
	event, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}
	if err := p.rdb.Publish(ctx, p.Channel(roomID), event).Err(); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, []byte) error { return nil }
