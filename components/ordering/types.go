package ordering

import "context"

// CollectionClient is the backend contract consumed by the Reconciler. Service
// implements it in-process and restclient.Client implements it over HTTP.
type CollectionClient interface {
	List(ctx context.Context, query ListQuery) ([]Item, error)
	UpdatePositions(ctx context.Context, input UpdatePositionsInput) error
}

// Store persists ordered items. Implementations must apply UpdatePositions
// atomically and ensure thread safety.
type Store interface {
	List(ctx context.Context, query ListQuery) ([]Item, error)
	Create(ctx context.Context, input CreateItemInput) (Item, error)
	Delete(ctx context.Context, collection, id string) (Item, error)
	UpdatePositions(ctx context.Context, input UpdatePositionsInput) error
}

// CollectionRegistry stores collection definitions.
type CollectionRegistry interface {
	Register(def CollectionDefinition) error
	Definition(code string) (CollectionDefinition, bool)
	Definitions() []CollectionDefinition
}

// RefreshHook notifies transports (REST/WebSocket/Redis) about collection changes.
type RefreshHook interface {
	CollectionUpdated(ctx context.Context, event CollectionEvent) error
}

// CollectionDefinition describes an ordered collection exposed by the backend.
type CollectionDefinition struct {
	Code         string         `json:"code" yaml:"code"`
	Name         string         `json:"name" yaml:"name"`
	PartitionKey string         `json:"partition_key,omitempty" yaml:"partition_key,omitempty"`
	Scopes       []string       `json:"scopes,omitempty" yaml:"scopes,omitempty"`
	Schema       map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Partitioned reports whether positions are ranked per scope.
func (d CollectionDefinition) Partitioned() bool {
	return d.PartitionKey != ""
}

// ListQuery selects the items of a collection, optionally a single scope.
type ListQuery struct {
	Collection string `json:"collection"`
	Scope      string `json:"scope,omitempty"`
}

// PositionUpdate assigns a rank to a single item.
type PositionUpdate struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

// UpdatePositionsInput is the batched reorder payload. Scope is informational;
// the store derives the scope of every id from its own records.
type UpdatePositionsInput struct {
	Collection string           `json:"collection"`
	Scope      string           `json:"scope,omitempty"`
	Positions  []PositionUpdate `json:"positions"`
}

// CreateItemInput configures a new item. A nil Position appends to the scope.
type CreateItemInput struct {
	Collection string         `json:"collection"`
	Scope      string         `json:"scope,omitempty"`
	Title      string         `json:"title,omitempty"`
	Image      string         `json:"image,omitempty"`
	Active     Flag           `json:"is_active"`
	Position   *int           `json:"position,omitempty"`
	Fields     map[string]any `json:"fields,omitempty"`
}

// CollectionEvent describes changes that transports might care about.
type CollectionEvent struct {
	Collection string   `json:"collection"`
	Scope      string   `json:"scope,omitempty"`
	ItemID     string   `json:"item_id,omitempty"`
	ItemIDs    []string `json:"item_ids,omitempty"`
	Reason     string   `json:"reason"`
}
