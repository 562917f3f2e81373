package ordering

import (
	"context"
	"testing"
)

func TestBroadcastHookSubscribe(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	defer cancel()
	event := CollectionEvent{Collection: CollectionHeroBanners, Scope: "mobile", Reason: "reorder"}
	if err := hook.CollectionUpdated(context.Background(), event); err != nil {
		t.Fatalf("CollectionUpdated returned error: %v", err)
	}
	select {
	case e := <-ch:
		if e.Collection != event.Collection || e.Scope != event.Scope {
			t.Fatalf("expected %+v, got %+v", event, e)
		}
	default:
		t.Fatalf("expected event to be delivered")
	}
}

func TestBroadcastHookCancelClosesChannel(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel")
	}
	if err := hook.CollectionUpdated(context.Background(), CollectionEvent{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBroadcastHookFiltersByCollectionAndScope(t *testing.T) {
	hook := NewBroadcastHook()
	mobile, cancelMobile := hook.SubscribeTo(EventFilter{Collection: CollectionHeroBanners, Scope: "mobile"})
	defer cancelMobile()
	featured, cancelFeatured := hook.SubscribeTo(EventFilter{Collection: CollectionFeaturedImages})
	defer cancelFeatured()

	ctx := context.Background()
	events := []CollectionEvent{
		{Collection: CollectionHeroBanners, Scope: "desktop", Reason: "reorder"},
		{Collection: CollectionHeroBanners, Scope: "mobile", Reason: "reorder"},
		{Collection: CollectionHeroBanners, Reason: "refresh"},
		{Collection: CollectionFeaturedImages, Reason: "create"},
	}
	for _, event := range events {
		if err := hook.CollectionUpdated(ctx, event); err != nil {
			t.Fatalf("CollectionUpdated returned error: %v", err)
		}
	}

	got := drain(mobile)
	if len(got) != 2 || got[0].Scope != "mobile" || got[1].Reason != "refresh" {
		t.Fatalf("unexpected mobile events %+v", got)
	}
	got = drain(featured)
	if len(got) != 1 || got[0].Collection != CollectionFeaturedImages {
		t.Fatalf("unexpected featured events %+v", got)
	}
}

func TestFilterFromQueryNormalizesCollection(t *testing.T) {
	values := map[string]string{"collection": "HeroBanners", "scope": "desktop"}
	filter := FilterFromQuery(func(k string) string { return values[k] })
	if filter != (EventFilter{Collection: CollectionHeroBanners, Scope: "desktop"}) {
		t.Fatalf("unexpected filter %+v", filter)
	}
}

func drain(ch <-chan CollectionEvent) []CollectionEvent {
	var out []CollectionEvent
	for {
		select {
		case e := <-ch:
			out = append(out, e)
		default:
			return out
		}
	}
}
