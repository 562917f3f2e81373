package ordering

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// EventFilter narrows a subscription. Empty fields match everything, and
// collection-wide events (no scope) reach every scope of their collection.
type EventFilter struct {
	Collection string
	Scope      string
}

// FilterFromQuery reads the collection and scope query parameters.
func FilterFromQuery(query func(string) string) EventFilter {
	return EventFilter{
		Collection: NormalizeCode(query("collection")),
		Scope:      query("scope"),
	}
}

// Matches reports whether the event belongs to the filtered board.
func (f EventFilter) Matches(event CollectionEvent) bool {
	if f.Collection != "" && f.Collection != event.Collection {
		return false
	}
	return f.Scope == "" || event.Scope == "" || f.Scope == event.Scope
}

type subscription struct {
	ch     chan CollectionEvent
	filter EventFilter
}

// BroadcastHook fans out collection events to in-process subscribers.
type BroadcastHook struct {
	mu   sync.RWMutex
	subs map[int]subscription
	next int
}

// NewBroadcastHook creates a broadcast hook.
func NewBroadcastHook() *BroadcastHook {
	return &BroadcastHook{
		subs: make(map[int]subscription),
	}
}

// CollectionUpdated satisfies RefreshHook. Slow subscribers miss events
// rather than block writers.
func (h *BroadcastHook) CollectionUpdated(_ context.Context, event CollectionEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if !sub.filter.Matches(event) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
	return nil
}

// Subscribe returns a channel of every collection event and a cancel func.
func (h *BroadcastHook) Subscribe() (<-chan CollectionEvent, func()) {
	return h.SubscribeTo(EventFilter{})
}

// SubscribeTo returns a channel of the events matching filter.
func (h *BroadcastHook) SubscribeTo(filter EventFilter) (<-chan CollectionEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan CollectionEvent, 8)
	h.subs[id] = subscription{ch: ch, filter: filter}
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub.ch)
		}
	}
	return ch, cancel
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the request and streams collection events as JSON.
// The collection and scope query parameters narrow the stream to one board.
func (h *BroadcastHook) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, cancel := h.SubscribeTo(FilterFromQuery(r.URL.Query().Get))
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}

// ServeSSE provides a Server-Sent Events endpoint for collection events.
func (h *BroadcastHook) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	events, cancel := h.SubscribeTo(FilterFromQuery(r.URL.Query().Get))
	defer cancel()

	encoder := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			_, _ = w.Write([]byte("data: "))
			if err := encoder.Encode(event); err != nil {
				return
			}
			_, _ = w.Write([]byte("\n"))
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}
