package ordering

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSequentialStore() *MemoryStore {
	store := NewMemoryStore()
	n := 0
	store.newID = func() string {
		n++
		return fmt.Sprintf("item-%d", n)
	}
	return store
}

func TestMemoryStoreCreateAppendsPerScope(t *testing.T) {
	ctx := context.Background()
	store := newSequentialStore()
	for _, scope := range []string{"desktop", "mobile", "desktop"} {
		_, err := store.Create(ctx, CreateItemInput{Collection: CollectionHeroBanners, Scope: scope})
		require.NoError(t, err)
	}
	desktop, err := store.List(ctx, ListQuery{Collection: CollectionHeroBanners, Scope: "desktop"})
	require.NoError(t, err)
	assert.Equal(t, []string{"item-1", "item-3"}, ids(desktop))
	require.NoError(t, ValidateSequence(desktop))

	mobile, err := store.List(ctx, ListQuery{Collection: CollectionHeroBanners, Scope: "mobile"})
	require.NoError(t, err)
	require.Len(t, mobile, 1)
	assert.Equal(t, 1, mobile[0].Position)
}

func TestMemoryStoreCreateAtPositionShifts(t *testing.T) {
	ctx := context.Background()
	store := newSequentialStore()
	for i := 0; i < 3; i++ {
		_, err := store.Create(ctx, CreateItemInput{Collection: CollectionFeaturedImages})
		require.NoError(t, err)
	}
	pos := 2
	created, err := store.Create(ctx, CreateItemInput{Collection: CollectionFeaturedImages, Position: &pos})
	require.NoError(t, err)
	assert.Equal(t, 2, created.Position)

	items, err := store.List(ctx, ListQuery{Collection: CollectionFeaturedImages})
	require.NoError(t, err)
	assert.Equal(t, []string{"item-1", "item-4", "item-2", "item-3"}, ids(items))
	require.NoError(t, ValidateSequence(items))
}

func TestMemoryStoreDeleteCompactsScope(t *testing.T) {
	ctx := context.Background()
	store := newSequentialStore()
	for i := 0; i < 4; i++ {
		_, err := store.Create(ctx, CreateItemInput{Collection: CollectionFeaturedImages})
		require.NoError(t, err)
	}
	removed, err := store.Delete(ctx, CollectionFeaturedImages, "item-2")
	require.NoError(t, err)
	assert.Equal(t, "item-2", removed.ID)

	items, err := store.List(ctx, ListQuery{Collection: CollectionFeaturedImages})
	require.NoError(t, err)
	assert.Equal(t, []string{"item-1", "item-3", "item-4"}, ids(items))
	require.NoError(t, ValidateSequence(items))

	_, err = store.Delete(ctx, CollectionFeaturedImages, "item-2")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestMemoryStoreUpdatePositionsIsAtomic(t *testing.T) {
	ctx := context.Background()
	store := newSequentialStore()
	for i := 0; i < 3; i++ {
		_, err := store.Create(ctx, CreateItemInput{Collection: CollectionFeaturedImages})
		require.NoError(t, err)
	}
	err := store.UpdatePositions(ctx, UpdatePositionsInput{
		Collection: CollectionFeaturedImages,
		Positions:  []PositionUpdate{{ID: "item-1", Position: 3}, {ID: "item-2", Position: 3}, {ID: "item-3", Position: 1}},
	})
	assert.ErrorIs(t, err, ErrInvalidBatch)
	items, _ := store.List(ctx, ListQuery{Collection: CollectionFeaturedImages})
	assert.Equal(t, []string{"item-1", "item-2", "item-3"}, ids(items))

	require.NoError(t, store.UpdatePositions(ctx, UpdatePositionsInput{
		Collection: CollectionFeaturedImages,
		Positions:  []PositionUpdate{{ID: "item-1", Position: 3}, {ID: "item-2", Position: 1}, {ID: "item-3", Position: 2}},
	}))
	items, _ = store.List(ctx, ListQuery{Collection: CollectionFeaturedImages})
	assert.Equal(t, []string{"item-2", "item-3", "item-1"}, ids(items))
}

func TestMemoryStoreListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := newSequentialStore()
	_, err := store.Create(ctx, CreateItemInput{Collection: CollectionFeaturedImages, Fields: map[string]any{"category": "rings"}})
	require.NoError(t, err)
	items, _ := store.List(ctx, ListQuery{Collection: CollectionFeaturedImages})
	items[0].Fields["category"] = "changed"
	items[0].Position = 9
	again, _ := store.List(ctx, ListQuery{Collection: CollectionFeaturedImages})
	assert.Equal(t, "rings", again[0].Fields["category"])
	assert.Equal(t, 1, again[0].Position)
}
