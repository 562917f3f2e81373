package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-reorder/components/ordering"
)

type positionsService interface {
	UpdatePositions(ctx context.Context, input ordering.UpdatePositionsInput) error
}

// UpdatePositionsCommand wraps Service.UpdatePositions so transports can
// persist a reorder batch without linking directly against the service.
type UpdatePositionsCommand struct {
	service   positionsService
	telemetry Telemetry
}

// NewUpdatePositionsCommand builds the command.
func NewUpdatePositionsCommand(service positionsService, telemetry Telemetry) *UpdatePositionsCommand {
	return &UpdatePositionsCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ordering.UpdatePositionsInput] = (*UpdatePositionsCommand)(nil)

// Execute applies the new ordering.
func (c *UpdatePositionsCommand) Execute(ctx context.Context, msg ordering.UpdatePositionsInput) error {
	if c.service == nil {
		return errors.New("update positions command requires service")
	}
	if err := c.service.UpdatePositions(ctx, msg); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "ordering.command.update_positions", map[string]any{
		"collection": msg.Collection,
		"scope":      msg.Scope,
		"count":      len(msg.Positions),
	})
	return nil
}
