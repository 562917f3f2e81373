package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-reorder/components/ordering"
)

// RefreshCollectionInput emits refresh notifications for a collection.
type RefreshCollectionInput struct {
	Event ordering.CollectionEvent
}

type refreshNotifier interface {
	NotifyCollectionUpdated(ctx context.Context, event ordering.CollectionEvent) error
}

// RefreshCollectionCommand triggers refresh hooks without forcing transports.
type RefreshCollectionCommand struct {
	service   refreshNotifier
	telemetry Telemetry
}

// NewRefreshCollectionCommand creates the command.
func NewRefreshCollectionCommand(service refreshNotifier, telemetry Telemetry) *RefreshCollectionCommand {
	return &RefreshCollectionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshCollectionInput] = (*RefreshCollectionCommand)(nil)

// Execute notifies the service's refresh hooks.
func (c *RefreshCollectionCommand) Execute(ctx context.Context, msg RefreshCollectionInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	if msg.Event.Reason == "" {
		msg.Event.Reason = "refresh"
	}
	if err := c.service.NotifyCollectionUpdated(ctx, msg.Event); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "ordering.command.refresh", map[string]any{
		"collection": msg.Event.Collection,
		"scope":      msg.Event.Scope,
	})
	return nil
}
