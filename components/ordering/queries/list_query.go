package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-reorder/components/ordering"
)

type listService interface {
	List(ctx context.Context, query ordering.ListQuery) ([]ordering.Item, error)
}

// ListItemsQuery executes read-only listing of a collection scope.
type ListItemsQuery struct {
	service listService
}

// NewListItemsQuery builds the query.
func NewListItemsQuery(service listService) *ListItemsQuery {
	return &ListItemsQuery{service: service}
}

var _ gocommand.Querier[ordering.ListQuery, []ordering.Item] = (*ListItemsQuery)(nil)

// Query lists the items sorted by position.
func (q *ListItemsQuery) Query(ctx context.Context, query ordering.ListQuery) ([]ordering.Item, error) {
	return q.service.List(ctx, query)
}
