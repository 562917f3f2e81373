package ordering

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-reorder/pkg/activity"
)

// Options configures the ordering Service. Every collaborator is provided via
// interface so applications can swap implementations.
type Options struct {
	Store          Store
	Registry       CollectionRegistry
	Validator      FieldValidator
	RefreshHook    RefreshHook
	Telemetry      Telemetry
	ActivityHooks  activity.Hooks
	ActivityConfig activity.Config
}

// Service is the backend of the ordered collections API. It enforces the
// 1..n position invariant on every write.
type Service struct {
	opts     Options
	activity *activity.Emitter
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Service{
		opts:     opts,
		activity: activity.NewEmitter(opts.ActivityHooks, opts.ActivityConfig),
	}
}

var _ CollectionClient = (*Service)(nil)

// Collections lists the registered collection definitions.
func (s *Service) Collections() []CollectionDefinition {
	return s.opts.Registry.Definitions()
}

// Collection resolves a definition by code.
func (s *Service) Collection(code string) (CollectionDefinition, error) {
	if strings.TrimSpace(code) == "" {
		return CollectionDefinition{}, errMissingCollection
	}
	def, ok := s.opts.Registry.Definition(code)
	if !ok {
		return CollectionDefinition{}, fmt.Errorf("%w: %s", ErrUnknownCollection, code)
	}
	return def, nil
}

// List returns the items of a collection sorted by scope then position.
func (s *Service) List(ctx context.Context, query ListQuery) ([]Item, error) {
	store, err := s.store()
	if err != nil {
		return nil, err
	}
	def, err := s.Collection(query.Collection)
	if err != nil {
		return nil, err
	}
	query.Collection = def.Code
	if !def.Partitioned() {
		query.Scope = ""
	}
	items, err := store.List(ctx, query)
	if err != nil {
		return nil, err
	}
	SortByPosition(items)
	return items, nil
}

// UpdatePositions validates and atomically applies a positions batch.
func (s *Service) UpdatePositions(ctx context.Context, input UpdatePositionsInput) error {
	store, err := s.store()
	if err != nil {
		return err
	}
	def, err := s.Collection(input.Collection)
	if err != nil {
		return err
	}
	input.Collection = def.Code
	if len(input.Positions) == 0 {
		return fmt.Errorf("%w: empty batch", ErrInvalidBatch)
	}
	if err := store.UpdatePositions(ctx, input); err != nil {
		return err
	}
	ids := make([]string, len(input.Positions))
	for i, p := range input.Positions {
		ids[i] = p.ID
	}
	if err := s.opts.RefreshHook.CollectionUpdated(ctx, CollectionEvent{
		Collection: def.Code,
		Scope:      input.Scope,
		ItemIDs:    ids,
		Reason:     "reorder",
	}); err != nil {
		return err
	}
	meta := map[string]any{
		"collection": def.Code,
		"scope":      input.Scope,
		"count":      len(input.Positions),
	}
	s.recordTelemetry(ctx, "ordering.positions.update", meta)
	s.emitActivity(ctx, "ordering.positions.update", "collection", def.Code, meta)
	return nil
}

// CreateItem validates the item fields and stores it at the end of its scope,
// or at the requested position with the following items shifted down.
func (s *Service) CreateItem(ctx context.Context, input CreateItemInput) (Item, error) {
	store, err := s.store()
	if err != nil {
		return Item{}, err
	}
	def, err := s.Collection(input.Collection)
	if err != nil {
		return Item{}, err
	}
	input.Collection = def.Code
	if err := checkScope(def, input.Scope); err != nil {
		return Item{}, err
	}
	if input.Position != nil && *input.Position < 1 {
		return Item{}, fmt.Errorf("%w: position %d", ErrInvalidBatch, *input.Position)
	}
	if err := s.opts.Validator.Validate(def, input.Fields); err != nil {
		return Item{}, err
	}
	item, err := store.Create(ctx, input)
	if err != nil {
		return Item{}, err
	}
	if err := s.opts.RefreshHook.CollectionUpdated(ctx, CollectionEvent{
		Collection: def.Code,
		Scope:      item.Scope,
		ItemID:     item.ID,
		Reason:     "create",
	}); err != nil {
		return Item{}, err
	}
	meta := map[string]any{
		"collection": def.Code,
		"scope":      item.Scope,
		"position":   item.Position,
	}
	s.recordTelemetry(ctx, "ordering.item.create", meta)
	s.emitActivity(ctx, "ordering.item.create", "item", item.ID, meta)
	return item, nil
}

// DeleteItem removes an item and compacts the positions of its scope.
func (s *Service) DeleteItem(ctx context.Context, collection, id string) error {
	store, err := s.store()
	if err != nil {
		return err
	}
	def, err := s.Collection(collection)
	if err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return errMissingItemID
	}
	removed, err := store.Delete(ctx, def.Code, id)
	if err != nil {
		return err
	}
	if err := s.opts.RefreshHook.CollectionUpdated(ctx, CollectionEvent{
		Collection: def.Code,
		Scope:      removed.Scope,
		ItemID:     removed.ID,
		Reason:     "delete",
	}); err != nil {
		return err
	}
	meta := map[string]any{
		"collection": def.Code,
		"scope":      removed.Scope,
	}
	s.recordTelemetry(ctx, "ordering.item.delete", meta)
	s.emitActivity(ctx, "ordering.item.delete", "item", removed.ID, meta)
	return nil
}

// NotifyCollectionUpdated exposes refresh hook invocation for commands/transports.
func (s *Service) NotifyCollectionUpdated(ctx context.Context, event CollectionEvent) error {
	if err := s.opts.RefreshHook.CollectionUpdated(ctx, event); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "ordering.collection.event", map[string]any{
		"collection": event.Collection,
		"reason":     event.Reason,
	})
	return nil
}

func (s *Service) store() (Store, error) {
	if s.opts.Store == nil {
		return nil, errMissingStore
	}
	return s.opts.Store, nil
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

func (s *Service) emitActivity(ctx context.Context, verb, objectType, objectID string, meta map[string]any) {
	actor := actorFrom(ctx)
	code, _ := meta["collection"].(string)
	err := s.activity.Emit(ctx, activity.Event{
		Verb:           verb,
		DefinitionCode: code,
		ActorID:        actor.ActorID,
		UserID:         actor.UserID,
		TenantID:       actor.TenantID,
		ObjectType:     objectType,
		ObjectID:       objectID,
		Metadata:       meta,
	})
	if err != nil {
		s.recordTelemetry(ctx, "ordering.activity.error", map[string]any{
			"verb":  verb,
			"error": err.Error(),
		})
	}
}

func checkScope(def CollectionDefinition, scope string) error {
	if !def.Partitioned() {
		if scope != "" {
			return fmt.Errorf("%w: collection %s is not partitioned", ErrInvalidScope, def.Code)
		}
		return nil
	}
	for _, known := range def.Scopes {
		if known == scope {
			return nil
		}
	}
	return fmt.Errorf("%w: collection %s has no %s %q", ErrInvalidScope, def.Code, def.PartitionKey, scope)
}
