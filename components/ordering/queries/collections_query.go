package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-reorder/components/ordering"
)

// CollectionInput identifies a collection definition request. An empty code
// lists every collection.
type CollectionInput struct {
	Code string
}

type collectionService interface {
	Collections() []ordering.CollectionDefinition
	Collection(code string) (ordering.CollectionDefinition, error)
}

// CollectionsQuery resolves collection definitions.
type CollectionsQuery struct {
	service collectionService
}

// NewCollectionsQuery builds the query.
func NewCollectionsQuery(service collectionService) *CollectionsQuery {
	return &CollectionsQuery{service: service}
}

var _ gocommand.Querier[CollectionInput, []ordering.CollectionDefinition] = (*CollectionsQuery)(nil)

// Query returns one definition when a code is given, otherwise all of them.
func (q *CollectionsQuery) Query(_ context.Context, input CollectionInput) ([]ordering.CollectionDefinition, error) {
	if input.Code == "" {
		return q.service.Collections(), nil
	}
	def, err := q.service.Collection(input.Code)
	if err != nil {
		return nil, err
	}
	return []ordering.CollectionDefinition{def}, nil
}
