package pgstore

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-reorder/components/ordering"
)

// newTestStore connects to ORDERING_TEST_DATABASE_URL and isolates the test
// under a collection code unique to it.
func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dsn := os.Getenv("ORDERING_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("ORDERING_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	store, err := New(ctx, dsn)
	require.NoError(t, err)
	collection := "test-" + ordering.NormalizeCode(t.Name())
	t.Cleanup(func() {
		_, _ = store.pool.Exec(context.Background(), `DELETE FROM ordered_items WHERE collection = $1`, collection)
		store.Close()
	})
	require.NoError(t, store.ensureSchema(ctx))
	_, err = store.pool.Exec(ctx, `DELETE FROM ordered_items WHERE collection = $1`, collection)
	require.NoError(t, err)
	return store, collection
}

func seed(t *testing.T, store *Store, collection, scope string, n int) []ordering.Item {
	t.Helper()
	items := make([]ordering.Item, 0, n)
	for i := 0; i < n; i++ {
		item, err := store.Create(context.Background(), ordering.CreateItemInput{
			Collection: collection,
			Scope:      scope,
			Title:      "item",
			Active:     true,
			Fields:     map[string]any{"link_url": "/x"},
		})
		require.NoError(t, err)
		items = append(items, item)
	}
	return items
}

func ids(items []ordering.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestStoreCreateAndList(t *testing.T) {
	store, collection := newTestStore(t)
	ctx := context.Background()
	created := seed(t, store, collection, "desktop", 3)
	seed(t, store, collection, "mobile", 1)

	desktop, err := store.List(ctx, ordering.ListQuery{Collection: collection, Scope: "desktop"})
	require.NoError(t, err)
	assert.Equal(t, ids(created), ids(desktop))
	require.NoError(t, ordering.ValidateSequence(desktop))
	assert.Equal(t, "/x", desktop[0].Fields["link_url"])
	assert.True(t, bool(desktop[0].Active))

	all, err := store.List(ctx, ordering.ListQuery{Collection: collection})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestStoreUpdatePositions(t *testing.T) {
	store, collection := newTestStore(t)
	ctx := context.Background()
	created := seed(t, store, collection, "", 4)
	moved, err := ordering.Move(created, 0, 2)
	require.NoError(t, err)

	require.NoError(t, store.UpdatePositions(ctx, ordering.UpdatePositionsInput{
		Collection: collection,
		Positions:  ordering.PositionUpdates(moved),
	}))
	items, err := store.List(ctx, ordering.ListQuery{Collection: collection})
	require.NoError(t, err)
	assert.Equal(t, ids(moved), ids(items))

	err = store.UpdatePositions(ctx, ordering.UpdatePositionsInput{
		Collection: collection,
		Positions:  []ordering.PositionUpdate{{ID: created[0].ID, Position: 1}},
	})
	assert.ErrorIs(t, err, ordering.ErrInvalidBatch)
}

func TestStoreDeleteCompacts(t *testing.T) {
	store, collection := newTestStore(t)
	ctx := context.Background()
	created := seed(t, store, collection, "", 3)

	removed, err := store.Delete(ctx, collection, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, created[0].ID, removed.ID)

	items, err := store.List(ctx, ordering.ListQuery{Collection: collection})
	require.NoError(t, err)
	assert.Equal(t, ids(created[1:]), ids(items))
	require.NoError(t, ordering.ValidateSequence(items))

	_, err = store.Delete(ctx, collection, created[0].ID)
	assert.ErrorIs(t, err, ordering.ErrItemNotFound)
}

func TestSchemaGateRetriesAfterFailure(t *testing.T) {
	var gate schemaGate
	calls := 0
	failing := errors.New("connection reset")
	apply := func(context.Context) error {
		calls++
		if calls == 1 {
			return failing
		}
		return nil
	}

	err := gate.ensure(context.Background(), apply)
	require.ErrorIs(t, err, failing)
	require.NoError(t, gate.ensure(context.Background(), apply))
	require.NoError(t, gate.ensure(context.Background(), apply))
	assert.Equal(t, 2, calls)
}
