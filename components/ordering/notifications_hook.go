package ordering

import "context"

// NoticeLevel grades user facing notices.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a non-fatal message surfaced to the admin user (a toast).
type Notice struct {
	Level      NoticeLevel `json:"level"`
	Collection string      `json:"collection"`
	Scope      string      `json:"scope,omitempty"`
	Message    string      `json:"message"`
}

// Notifier shows notices to the user.
type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, notice Notice)

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, notice Notice) {
	f(ctx, notice)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, Notice) {}

// NotificationsClient defines the minimal interface needed from go-notifications (or similar).
type NotificationsClient interface {
	PublishCollectionEvent(ctx context.Context, event CollectionEvent) error
}

// NotificationsHook forwards collection events to an external notifications client.
type NotificationsHook struct {
	Client NotificationsClient
}

// CollectionUpdated publishes events to the configured notifications client.
func (h *NotificationsHook) CollectionUpdated(ctx context.Context, event CollectionEvent) error {
	if h == nil || h.Client == nil {
		return nil
	}
	return h.Client.PublishCollectionEvent(ctx, event)
}

// MultiHook fans an event out to several hooks, stopping at the first error.
type MultiHook []RefreshHook

// CollectionUpdated implements RefreshHook.
func (m MultiHook) CollectionUpdated(ctx context.Context, event CollectionEvent) error {
	for _, hook := range m {
		if hook == nil {
			continue
		}
		if err := hook.CollectionUpdated(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

type noopRefreshHook struct{}

func (noopRefreshHook) CollectionUpdated(context.Context, CollectionEvent) error {
	return nil
}
