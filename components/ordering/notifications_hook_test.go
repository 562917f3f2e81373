package ordering

import (
	"context"
	"errors"
	"testing"
)

type recordingNotifications struct {
	events []CollectionEvent
	err    error
}

func (r *recordingNotifications) PublishCollectionEvent(_ context.Context, event CollectionEvent) error {
	r.events = append(r.events, event)
	return r.err
}

func TestNotificationsHookForwardsEvents(t *testing.T) {
	client := &recordingNotifications{}
	hook := &NotificationsHook{Client: client}
	event := CollectionEvent{Collection: CollectionFeaturedImages, Reason: "reorder"}
	if err := hook.CollectionUpdated(context.Background(), event); err != nil {
		t.Fatalf("CollectionUpdated returned error: %v", err)
	}
	if len(client.events) != 1 || client.events[0].Reason != "reorder" {
		t.Fatalf("expected event to be forwarded, got %+v", client.events)
	}

	var empty *NotificationsHook
	if err := empty.CollectionUpdated(context.Background(), event); err != nil {
		t.Fatalf("nil hook should be a no-op, got %v", err)
	}
}

func TestMultiHookFansOutAndStopsAtFirstError(t *testing.T) {
	broadcast := NewBroadcastHook()
	events, cancel := broadcast.Subscribe()
	defer cancel()
	failing := &recordingNotifications{err: errors.New("downstream unavailable")}
	after := &recordingNotifications{}

	hooks := MultiHook{broadcast, nil, &NotificationsHook{Client: failing}, &NotificationsHook{Client: after}}
	err := hooks.CollectionUpdated(context.Background(), CollectionEvent{Collection: CollectionHeroBanners, Scope: "mobile"})
	if err == nil {
		t.Fatalf("expected error from failing hook")
	}
	select {
	case event := <-events:
		if event.Scope != "mobile" {
			t.Fatalf("unexpected broadcast event %+v", event)
		}
	default:
		t.Fatalf("expected broadcast hook to run before the failing hook")
	}
	if len(failing.events) != 1 {
		t.Fatalf("expected failing hook to be called once, got %d", len(failing.events))
	}
	if len(after.events) != 0 {
		t.Fatalf("hooks after the error should not run, got %d events", len(after.events))
	}
}
