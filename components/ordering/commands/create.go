package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-reorder/components/ordering"
)

// CreateItemInput carries the new item and receives the stored copy.
type CreateItemInput struct {
	Item   ordering.CreateItemInput
	Result *ordering.Item
}

type createService interface {
	CreateItem(ctx context.Context, input ordering.CreateItemInput) (ordering.Item, error)
}

// CreateItemCommand wraps Service.CreateItem.
type CreateItemCommand struct {
	service   createService
	telemetry Telemetry
}

// NewCreateItemCommand creates a command instance.
func NewCreateItemCommand(service createService, telemetry Telemetry) *CreateItemCommand {
	return &CreateItemCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CreateItemInput] = (*CreateItemCommand)(nil)

// Execute stores the item and copies the result into msg.Result when set.
func (c *CreateItemCommand) Execute(ctx context.Context, msg CreateItemInput) error {
	if c.service == nil {
		return errors.New("create command requires service")
	}
	item, err := c.service.CreateItem(ctx, msg.Item)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = item
	}
	c.telemetry.Record(ctx, "ordering.command.create", map[string]any{
		"collection": msg.Item.Collection,
		"item_id":    item.ID,
		"position":   item.Position,
	})
	return nil
}
