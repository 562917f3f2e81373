package activity

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// Event is a normalized activity record emitted by the ordering service.
type Event struct {
	Verb           string
	ActorID        string
	UserID         string
	TenantID       string
	ObjectType     string
	ObjectID       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	OccurredAt     time.Time
}

// Hook receives activity events.
type Hook interface {
	Notify(ctx context.Context, event Event) error
}

// HookFunc adapts a function to Hook.
type HookFunc func(ctx context.Context, event Event) error

// Notify implements Hook.
func (f HookFunc) Notify(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Hooks fans events out to every hook. Events without a verb, object type or
// object id are dropped.
type Hooks []Hook

// Notify normalizes the event and forwards it to each hook, joining errors.
func (h Hooks) Notify(ctx context.Context, event Event) error {
	evt := NormalizeEvent(event)
	if evt.Verb == "" || evt.ObjectType == "" || evt.ObjectID == "" {
		return nil
	}
	var errs error
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, evt); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

// NormalizeEvent trims identifiers and clones mutable fields.
func NormalizeEvent(event Event) Event {
	event.Verb = strings.TrimSpace(event.Verb)
	event.ActorID = strings.TrimSpace(event.ActorID)
	event.UserID = strings.TrimSpace(event.UserID)
	event.TenantID = strings.TrimSpace(event.TenantID)
	event.ObjectType = strings.TrimSpace(event.ObjectType)
	event.ObjectID = strings.TrimSpace(event.ObjectID)
	event.Channel = strings.TrimSpace(event.Channel)
	if event.Metadata != nil {
		meta := make(map[string]any, len(event.Metadata))
		for k, v := range event.Metadata {
			meta[k] = v
		}
		event.Metadata = meta
	}
	if event.Recipients != nil {
		event.Recipients = append([]string(nil), event.Recipients...)
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	return event
}

// CaptureHook stores events in memory; useful in tests.
type CaptureHook struct {
	mu     sync.Mutex
	Events []Event
}

// Notify implements Hook.
func (c *CaptureHook) Notify(_ context.Context, event Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Events = append(c.Events, event)
	return nil
}
