package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-reorder/components/ordering"
	"github.com/goliatone/go-reorder/components/ordering/commands"
	"github.com/goliatone/go-reorder/components/ordering/queries"
)

// Executor is the operation surface shared by the HTTP transports.
type Executor interface {
	Collection(ctx context.Context, code string) (ordering.CollectionDefinition, error)
	List(ctx context.Context, query ordering.ListQuery) ([]ordering.Item, error)
	UpdatePositions(ctx context.Context, input ordering.UpdatePositionsInput) error
	CreateItem(ctx context.Context, input ordering.CreateItemInput) (ordering.Item, error)
	DeleteItem(ctx context.Context, collection, id string) error
	Refresh(ctx context.Context, event ordering.CollectionEvent) error
}

// CommandExecutor implements Executor on top of go-command commands and queries.
type CommandExecutor struct {
	Collections gocommand.Querier[queries.CollectionInput, []ordering.CollectionDefinition]
	Items       gocommand.Querier[ordering.ListQuery, []ordering.Item]
	Update      gocommand.Commander[ordering.UpdatePositionsInput]
	Create      gocommand.Commander[commands.CreateItemInput]
	Delete      gocommand.Commander[commands.DeleteItemInput]
	Notify      gocommand.Commander[commands.RefreshCollectionInput]
}

var _ Executor = (*CommandExecutor)(nil)

// NewCommandExecutor wires every command and query against the service.
func NewCommandExecutor(service *ordering.Service, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		Collections: queries.NewCollectionsQuery(service),
		Items:       queries.NewListItemsQuery(service),
		Update:      commands.NewUpdatePositionsCommand(service, telemetry),
		Create:      commands.NewCreateItemCommand(service, telemetry),
		Delete:      commands.NewDeleteItemCommand(service, telemetry),
		Notify:      commands.NewRefreshCollectionCommand(service, telemetry),
	}
}

// Collection resolves a single definition.
func (e *CommandExecutor) Collection(ctx context.Context, code string) (ordering.CollectionDefinition, error) {
	if e.Collections == nil {
		return ordering.CollectionDefinition{}, errors.New("httpapi: collections query not configured")
	}
	defs, err := e.Collections.Query(ctx, queries.CollectionInput{Code: code})
	if err != nil {
		return ordering.CollectionDefinition{}, err
	}
	if len(defs) == 0 {
		return ordering.CollectionDefinition{}, ordering.ErrUnknownCollection
	}
	return defs[0], nil
}

// List runs the list query.
func (e *CommandExecutor) List(ctx context.Context, query ordering.ListQuery) ([]ordering.Item, error) {
	if e.Items == nil {
		return nil, errors.New("httpapi: list query not configured")
	}
	return e.Items.Query(ctx, query)
}

// UpdatePositions runs the update command.
func (e *CommandExecutor) UpdatePositions(ctx context.Context, input ordering.UpdatePositionsInput) error {
	if e.Update == nil {
		return errors.New("httpapi: update command not configured")
	}
	return e.Update.Execute(ctx, input)
}

// CreateItem runs the create command and returns the stored item.
func (e *CommandExecutor) CreateItem(ctx context.Context, input ordering.CreateItemInput) (ordering.Item, error) {
	if e.Create == nil {
		return ordering.Item{}, errors.New("httpapi: create command not configured")
	}
	var created ordering.Item
	if err := e.Create.Execute(ctx, commands.CreateItemInput{Item: input, Result: &created}); err != nil {
		return ordering.Item{}, err
	}
	return created, nil
}

// DeleteItem runs the delete command.
func (e *CommandExecutor) DeleteItem(ctx context.Context, collection, id string) error {
	if e.Delete == nil {
		return errors.New("httpapi: delete command not configured")
	}
	return e.Delete.Execute(ctx, commands.DeleteItemInput{Collection: collection, ItemID: id})
}

// Refresh runs the refresh command so subscribers reload the collection.
func (e *CommandExecutor) Refresh(ctx context.Context, event ordering.CollectionEvent) error {
	if e.Notify == nil {
		return errors.New("httpapi: refresh command not configured")
	}
	return e.Notify.Execute(ctx, commands.RefreshCollectionInput{Event: event})
}
