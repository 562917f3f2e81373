package ordering

import (
	core "github.com/goliatone/go-reorder/components/ordering"
)

// Service exposes the underlying components/ordering.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// Item re-export for convenience.
type Item = core.Item

// CreateItemInput re-export for convenience.
type CreateItemInput = core.CreateItemInput

// CollectionDefinition re-export for convenience.
type CollectionDefinition = core.CollectionDefinition

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// NewMemoryStore proxies to the in-memory store constructor.
func NewMemoryStore() *core.MemoryStore {
	return core.NewMemoryStore()
}
