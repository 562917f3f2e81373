package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-reorder/components/ordering"
)

func newTestApp(t *testing.T, cfg appConfig) *app {
	t.Helper()
	a, err := build(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func request(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestBuildSeedsMemoryStore(t *testing.T) {
	a := newTestApp(t, appConfig{Seed: true})
	items, err := a.service.List(context.Background(), ordering.ListQuery{
		Collection: ordering.CollectionHeroBanners,
		Scope:      "desktop",
	})
	require.NoError(t, err)
	assert.Len(t, items, 3)
	require.NoError(t, ordering.ValidateSequence(items))
}

func TestBuildRejectsMalformedTokens(t *testing.T) {
	_, err := build(context.Background(), appConfig{Tokens: []string{"missing-separator"}}, nil)
	assert.Error(t, err)
}

func TestMuxHandlerServesUnderBasePath(t *testing.T) {
	a := newTestApp(t, appConfig{Seed: true, BasePath: "/admin/api/", Tokens: []string{"secret=admin-1"}})
	h := a.muxHandler()

	rec := request(t, h, http.MethodGet, "/admin/api/featured-images", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = request(t, h, http.MethodGet, "/admin/api/featured-images", "secret", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var items []ordering.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 3)

	moved, err := ordering.Move(items, 2, 0)
	require.NoError(t, err)
	payload, err := json.Marshal(map[string]any{"positions": ordering.PositionUpdates(moved)})
	require.NoError(t, err)
	rec = request(t, h, http.MethodPut, "/admin/api/featured-images/positions/update", "secret", string(payload))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored, err := a.service.List(context.Background(), ordering.ListQuery{Collection: ordering.CollectionFeaturedImages})
	require.NoError(t, err)
	assert.Equal(t, items[2].ID, stored[0].ID)
}

func TestBasePathDefaults(t *testing.T) {
	assert.Equal(t, "/api", (&app{cfg: appConfig{}}).basePath())
	assert.Equal(t, "/ordering", (&app{cfg: appConfig{BasePath: "ordering/"}}).basePath())
}

func TestRefreshEventsReachBroadcastAndNotifications(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	a, err := build(context.Background(), appConfig{Seed: true, Tokens: []string{"secret=admin-1@acme"}}, zap.New(core))
	require.NoError(t, err)
	t.Cleanup(a.Close)

	events, cancel := a.broadcast.Subscribe()
	defer cancel()

	rec := request(t, a.muxHandler(), http.MethodPost, "/api/hero-banners/_refresh?device_type=mobile", "secret", "")
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	select {
	case event := <-events:
		assert.Equal(t, ordering.CollectionHeroBanners, event.Collection)
		assert.Equal(t, "mobile", event.Scope)
	default:
		t.Fatalf("expected refresh event on the broadcast hook")
	}

	entries := logs.FilterMessage("collection updated").FilterField(zap.String("reason", "refresh")).All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "hero-banners", fields["collection"])
	assert.Equal(t, "admin-1", fields["user_id"])
	assert.Equal(t, "acme", fields["tenant_id"])
}
