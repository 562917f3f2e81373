package queries

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-reorder/components/ordering"
)

type stubListService struct {
	calls int
	query ordering.ListQuery
}

func (s *stubListService) List(_ context.Context, query ordering.ListQuery) ([]ordering.Item, error) {
	s.calls++
	s.query = query
	return []ordering.Item{{ID: "a", Position: 1}}, nil
}

func TestListItemsQuery(t *testing.T) {
	service := &stubListService{}
	query := NewListItemsQuery(service)
	items, err := query.Query(context.Background(), ordering.ListQuery{Collection: "hero-banners", Scope: "mobile"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if service.calls != 1 || service.query.Scope != "mobile" {
		t.Fatalf("expected 1 scoped call, got %d %+v", service.calls, service.query)
	}
	if len(items) != 1 {
		t.Fatalf("expected items to be returned")
	}
}

func TestCollectionsQuery(t *testing.T) {
	service := ordering.NewService(ordering.Options{})
	query := NewCollectionsQuery(service)

	all, err := query.Query(context.Background(), CollectionInput{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected default collections, got %d", len(all))
	}

	one, err := query.Query(context.Background(), CollectionInput{Code: "hero-banners"})
	if err != nil || len(one) != 1 || one[0].PartitionKey != "device_type" {
		t.Fatalf("expected hero banners definition, got %+v (%v)", one, err)
	}

	_, err = query.Query(context.Background(), CollectionInput{Code: "carousels"})
	if !errors.Is(err, ordering.ErrUnknownCollection) {
		t.Fatalf("expected unknown collection, got %v", err)
	}
}
