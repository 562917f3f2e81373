package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-reorder/components/ordering"
)

// SeedCollectionsInput controls bootstrap behavior.
type SeedCollectionsInput struct {
	ManifestPath string
	SeedItems    bool
}

// SeedCollectionsCommand registers manifest collections and optionally seeds
// demo content.
type SeedCollectionsCommand struct {
	registry  *ordering.Registry
	service   *ordering.Service
	telemetry Telemetry
}

// NewSeedCollectionsCommand wires dependencies.
func NewSeedCollectionsCommand(registry *ordering.Registry, service *ordering.Service, telemetry Telemetry) *SeedCollectionsCommand {
	return &SeedCollectionsCommand{
		registry:  registry,
		service:   service,
		telemetry: normalizeTelemetry(telemetry),
	}
}

var _ gocommand.Commander[SeedCollectionsInput] = (*SeedCollectionsCommand)(nil)

// Execute runs the bootstrap pipeline.
func (c *SeedCollectionsCommand) Execute(ctx context.Context, msg SeedCollectionsInput) error {
	if c.registry == nil {
		return errors.New("seed command requires registry")
	}
	if err := ordering.RegisterManifest(c.registry, msg.ManifestPath); err != nil {
		return err
	}
	if msg.SeedItems && c.service != nil {
		if err := ordering.SeedItems(ctx, c.service, ordering.DefaultSeedItems()); err != nil {
			return err
		}
	}
	c.telemetry.Record(ctx, "ordering.seed", map[string]any{
		"manifest":   msg.ManifestPath,
		"seed_items": msg.SeedItems,
	})
	return nil
}
