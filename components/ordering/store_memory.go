package ordering

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is a concurrency-safe Store used by tests, demos and the
// development server.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string][]Item
	newID       func() string
}

// NewMemoryStore builds an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: map[string][]Item{},
		newID:       uuid.NewString,
	}
}

var _ Store = (*MemoryStore)(nil)

// List returns copies of the items of a collection, optionally one scope.
func (s *MemoryStore) List(_ context.Context, query ListQuery) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.collections[query.Collection]
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if query.Scope != "" && item.Scope != query.Scope {
			continue
		}
		out = append(out, item.Clone())
	}
	SortByPosition(out)
	return out, nil
}

// Create appends the item to its scope at max(position)+1, or inserts it at
// the requested position and shifts the rest of the scope.
func (s *MemoryStore) Create(_ context.Context, input CreateItemInput) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.collections[input.Collection]
	maxPos := 0
	for _, item := range items {
		if item.Scope == input.Scope && item.Position > maxPos {
			maxPos = item.Position
		}
	}
	position := maxPos + 1
	if input.Position != nil && *input.Position <= maxPos {
		position = *input.Position
		for i := range items {
			if items[i].Scope == input.Scope && items[i].Position >= position {
				items[i].Position++
			}
		}
	}
	item := Item{
		ID:       s.newID(),
		Position: position,
		Scope:    input.Scope,
		Title:    input.Title,
		Image:    input.Image,
		Active:   input.Active,
		Fields:   input.Fields,
	}.Clone()
	s.collections[input.Collection] = append(items, item)
	return item.Clone(), nil
}

// Delete removes the item and renumbers the remaining items of its scope.
func (s *MemoryStore) Delete(_ context.Context, collection, id string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.collections[collection]
	idx := -1
	for i, item := range items {
		if item.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	removed := items[idx]
	items = append(items[:idx:idx], items[idx+1:]...)
	s.collections[collection] = compactScope(items, removed.Scope)
	return removed, nil
}

// UpdatePositions applies the batch atomically after ValidateBatch.
func (s *MemoryStore) UpdatePositions(_ context.Context, input UpdatePositionsInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.collections[input.Collection]
	if err := ValidateBatch(items, input.Positions); err != nil {
		return err
	}
	next := make(map[string]int, len(input.Positions))
	for _, p := range input.Positions {
		next[p.ID] = p.Position
	}
	updated := make([]Item, len(items))
	for i, item := range items {
		if pos, ok := next[item.ID]; ok {
			item.Position = pos
		}
		updated[i] = item
	}
	s.collections[input.Collection] = updated
	return nil
}

func compactScope(items []Item, scope string) []Item {
	var inScope []Item
	var rest []Item
	for _, item := range items {
		if item.Scope == scope {
			inScope = append(inScope, item)
		} else {
			rest = append(rest, item)
		}
	}
	SortByPosition(inScope)
	return append(rest, Renumber(inScope)...)
}
