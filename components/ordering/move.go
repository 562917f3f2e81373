package ordering

import (
	"fmt"
	"sort"
)

// Move lifts the element at from and reinserts it at to, then renumbers the
// result. Elements between the two indexes shift by one. The input slice is
// left untouched.
func Move(items []Item, from, to int) ([]Item, error) {
	n := len(items)
	if from < 0 || from >= n {
		return nil, fmt.Errorf("%w: source %d (len %d)", ErrIndexOutOfRange, from, n)
	}
	if to < 0 || to >= n {
		return nil, fmt.Errorf("%w: target %d (len %d)", ErrIndexOutOfRange, to, n)
	}
	result := make([]Item, 0, n)
	for i, item := range items {
		if i != from {
			result = append(result, item)
		}
	}
	moved := items[from]
	result = append(result, Item{})
	copy(result[to+1:], result[to:n-1])
	result[to] = moved
	return Renumber(result), nil
}

// Renumber assigns position = index + 1 on a copy of items.
func Renumber(items []Item) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		item.Position = i + 1
		out[i] = item
	}
	return out
}

// PositionUpdates returns the {id, position} batch for the list as ordered.
func PositionUpdates(items []Item) []PositionUpdate {
	updates := make([]PositionUpdate, len(items))
	for i, item := range items {
		updates[i] = PositionUpdate{ID: item.ID, Position: item.Position}
	}
	return updates
}

// SortByPosition orders items by scope, then position, then id.
func SortByPosition(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Scope != items[j].Scope {
			return items[i].Scope < items[j].Scope
		}
		if items[i].Position != items[j].Position {
			return items[i].Position < items[j].Position
		}
		return items[i].ID < items[j].ID
	})
}

// GroupByScope partitions items preserving their relative order.
func GroupByScope(items []Item) map[string][]Item {
	groups := make(map[string][]Item)
	for _, item := range items {
		groups[item.Scope] = append(groups[item.Scope], item)
	}
	return groups
}

// ValidateSequence checks that positions are exactly 1..n in array order.
func ValidateSequence(items []Item) error {
	for i, item := range items {
		if item.Position != i+1 {
			return fmt.Errorf("%w: item %s at index %d has position %d", ErrInvalidBatch, item.ID, i, item.Position)
		}
	}
	return nil
}

// ValidateBatch checks a batch against the current items of a collection.
// Every id must exist and appear once, every scope touched by the batch must be
// fully covered, and the positions within each such scope must be exactly 1..k.
func ValidateBatch(current []Item, updates []PositionUpdate) error {
	if len(updates) == 0 {
		return fmt.Errorf("%w: empty batch", ErrInvalidBatch)
	}
	scopeOf := make(map[string]string, len(current))
	scopeSize := make(map[string]int)
	for _, item := range current {
		scopeOf[item.ID] = item.Scope
		scopeSize[item.Scope]++
	}
	seen := make(map[string]struct{}, len(updates))
	positions := make(map[string]map[int]struct{})
	for _, u := range updates {
		if u.ID == "" {
			return fmt.Errorf("%w: %v", ErrInvalidBatch, errMissingItemID)
		}
		scope, ok := scopeOf[u.ID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrItemNotFound, u.ID)
		}
		if _, dup := seen[u.ID]; dup {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidBatch, u.ID)
		}
		seen[u.ID] = struct{}{}
		if positions[scope] == nil {
			positions[scope] = map[int]struct{}{}
		}
		if _, dup := positions[scope][u.Position]; dup {
			return fmt.Errorf("%w: duplicate position %d in scope %q", ErrInvalidBatch, u.Position, scope)
		}
		positions[scope][u.Position] = struct{}{}
	}
	for scope, ranks := range positions {
		size := scopeSize[scope]
		if len(ranks) != size {
			return fmt.Errorf("%w: scope %q has %d items, batch covers %d", ErrInvalidBatch, scope, size, len(ranks))
		}
		for p := range ranks {
			if p < 1 || p > size {
				return fmt.Errorf("%w: position %d outside 1..%d in scope %q", ErrInvalidBatch, p, size, scope)
			}
		}
	}
	return nil
}
