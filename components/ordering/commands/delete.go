package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// DeleteItemInput identifies the item to remove.
type DeleteItemInput struct {
	Collection string
	ItemID     string
}

type deleteService interface {
	DeleteItem(ctx context.Context, collection, id string) error
}

// DeleteItemCommand removes an item and lets the service compact positions.
type DeleteItemCommand struct {
	service   deleteService
	telemetry Telemetry
}

// NewDeleteItemCommand builds the command.
func NewDeleteItemCommand(service deleteService, telemetry Telemetry) *DeleteItemCommand {
	return &DeleteItemCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DeleteItemInput] = (*DeleteItemCommand)(nil)

// Execute removes the item.
func (c *DeleteItemCommand) Execute(ctx context.Context, msg DeleteItemInput) error {
	if c.service == nil {
		return errors.New("delete command requires service")
	}
	if err := c.service.DeleteItem(ctx, msg.Collection, msg.ItemID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "ordering.command.delete", map[string]any{
		"collection": msg.Collection,
		"item_id":    msg.ItemID,
	})
	return nil
}
