package goadmin_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-reorder/pkg/goadmin"
	orderingpkg "github.com/goliatone/go-reorder/pkg/ordering"
)

type stubMenuBuilder struct {
	items []goadmin.MenuItem
	err   error
}

func (s *stubMenuBuilder) EnsureMenuItem(_ context.Context, _ string, item goadmin.MenuItem) error {
	s.items = append(s.items, item)
	return s.err
}

func TestAdminBootstrapSeedsMenuPerCollection(t *testing.T) {
	builder := &stubMenuBuilder{}
	service := orderingpkg.NewService(orderingpkg.Options{Store: orderingpkg.NewMemoryStore()})
	admin, err := goadmin.New(goadmin.Config{
		EnableOrdering: true,
		Service:        service,
		MenuBuilder:    builder,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if len(builder.items) != len(service.Collections()) {
		t.Fatalf("expected %d menu items, got %d", len(service.Collections()), len(builder.items))
	}
	for i, item := range builder.items {
		if item.Position != i+1 {
			t.Fatalf("expected position %d, got %d", i+1, item.Position)
		}
		if item.Label == "" || item.Route == "" {
			t.Fatalf("incomplete menu item %+v", item)
		}
	}
	if admin.Ordering() == nil {
		t.Fatalf("expected ordering service")
	}
}

func TestAdminBootstrapJoinsMenuErrors(t *testing.T) {
	builder := &stubMenuBuilder{err: errors.New("menu offline")}
	admin, err := goadmin.New(goadmin.Config{
		EnableOrdering: true,
		Service:        orderingpkg.NewService(orderingpkg.Options{}),
		MenuBuilder:    builder,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err == nil {
		t.Fatalf("expected bootstrap error")
	}
}

func TestAdminRequiresServiceWhenEnabled(t *testing.T) {
	if _, err := goadmin.New(goadmin.Config{EnableOrdering: true}); err == nil {
		t.Fatalf("expected error without service")
	}
}

func TestAdminDisabledSkipsBootstrap(t *testing.T) {
	builder := &stubMenuBuilder{}
	admin, err := goadmin.New(goadmin.Config{
		EnableOrdering: false,
		MenuBuilder:    builder,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if len(builder.items) != 0 {
		t.Fatalf("expected 0 calls, got %d", len(builder.items))
	}
	if admin.Ordering() != nil {
		t.Fatalf("expected nil ordering service when disabled")
	}
}
