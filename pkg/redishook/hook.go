package redishook

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-reorder/components/ordering"
)

// DefaultChannel is the pub/sub channel collection events are published on.
const DefaultChannel = "ordering:events"

// Publisher is the part of a redis client the hook needs. *redis.Client
// satisfies it.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// Subscriber is the part of a redis client the relay needs.
type Subscriber interface {
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// Hook publishes collection events so every instance sharing the redis
// server can refresh its clients.
type Hook struct {
	client  Publisher
	channel string
}

var _ ordering.RefreshHook = (*Hook)(nil)

// New builds a hook publishing to channel (DefaultChannel when empty).
func New(client Publisher, channel string) *Hook {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = DefaultChannel
	}
	return &Hook{client: client, channel: channel}
}

// CollectionUpdated satisfies ordering.RefreshHook.
func (h *Hook) CollectionUpdated(ctx context.Context, event ordering.CollectionEvent) error {
	if h == nil || h.client == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("redishook: encode event: %w", err)
	}
	if err := h.client.Publish(ctx, h.channel, payload).Err(); err != nil {
		return fmt.Errorf("redishook: publish: %w", err)
	}
	return nil
}

// Relay forwards events published by other instances into a local hook,
// usually an ordering.BroadcastHook. It blocks until ctx is cancelled.
// Malformed messages are skipped.
func Relay(ctx context.Context, client Subscriber, channel string, target ordering.RefreshHook) error {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = DefaultChannel
	}
	pubsub := client.Subscribe(ctx, channel)
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("redishook: subscribe: %w", err)
	}
	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			event, err := Decode(msg.Payload)
			if err != nil {
				continue
			}
			if err := target.CollectionUpdated(ctx, event); err != nil {
				return err
			}
		}
	}
}

// Decode parses a published event.
func Decode(payload string) (ordering.CollectionEvent, error) {
	var event ordering.CollectionEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return ordering.CollectionEvent{}, fmt.Errorf("redishook: decode event: %w", err)
	}
	if event.Collection == "" {
		return ordering.CollectionEvent{}, fmt.Errorf("redishook: event without collection")
	}
	return event, nil
}
