package ordering

import (
	"context"
	"errors"
	"fmt"
)

// RegisterManifest loads a manifest file into the registry when a path is given.
func RegisterManifest(registry *Registry, path string) error {
	if registry == nil {
		return errors.New("ordering: registry is required")
	}
	if path == "" {
		return nil
	}
	if _, err := registry.LoadManifestFile(path); err != nil {
		return fmt.Errorf("register manifest: %w", err)
	}
	return nil
}

// SeedItems creates the demo content through the service so that positions
// are assigned the same way as for API clients.
func SeedItems(ctx context.Context, service *Service, items []CreateItemInput) error {
	if service == nil {
		return errors.New("ordering: service is required to seed items")
	}
	var seedErr error
	for _, input := range items {
		if _, err := service.CreateItem(ctx, input); err != nil {
			seedErr = errors.Join(seedErr, fmt.Errorf("seed %s/%s: %w", input.Collection, input.Title, err))
		}
	}
	return seedErr
}
