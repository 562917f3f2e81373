package ordering

import (
	"context"
	"errors"
	"io"
)

// BoardSource resolves collections and lists their items.
type BoardSource interface {
	CollectionClient
	Collection(code string) (CollectionDefinition, error)
}

// ControllerOptions configures the HTML board controller.
type ControllerOptions struct {
	Service  BoardSource
	Renderer Renderer
	Template string
}

// Controller renders the server side snapshot of a collection board.
type Controller struct {
	service  BoardSource
	renderer Renderer
	template string
}

// NewController wires the service and renderer into a controller.
func NewController(opts ControllerOptions) *Controller {
	tpl := opts.Template
	if tpl == "" {
		tpl = "board.html"
	}
	return &Controller{
		service:  opts.Service,
		renderer: opts.Renderer,
		template: tpl,
	}
}

// Board loads every scope of the collection into a fresh Board.
func (c *Controller) Board(ctx context.Context, collection string) (*Board, error) {
	if c.service == nil {
		return nil, errors.New("ordering: controller service not configured")
	}
	def, err := c.service.Collection(collection)
	if err != nil {
		return nil, err
	}
	board, err := NewBoard(BoardOptions{Client: c.service, Definition: def})
	if err != nil {
		return nil, err
	}
	// Load failures are kept per scope and rendered as an empty list with an error.
	_ = board.LoadAll(ctx)
	return board, nil
}

// RenderTemplate renders the board of a collection into w.
func (c *Controller) RenderTemplate(ctx context.Context, collection string, w io.Writer) error {
	if c.renderer == nil {
		return errors.New("ordering: controller renderer not configured")
	}
	board, err := c.Board(ctx, collection)
	if err != nil {
		return err
	}
	_, err = c.renderer.Render(c.template, boardPayload(board), w)
	return err
}

func boardPayload(board *Board) map[string]any {
	def := board.Definition()
	views := board.Views()
	scopes := make([]map[string]any, 0, len(views))
	for _, view := range views {
		items := make([]map[string]any, 0, len(view.Items))
		for _, item := range view.Items {
			items = append(items, map[string]any{
				"id":        item.ID,
				"position":  item.Position,
				"title":     item.Title,
				"image":     item.Image,
				"is_active": bool(item.Active),
			})
		}
		scopes = append(scopes, map[string]any{
			"scope":    view.Scope,
			"status":   string(view.Status),
			"updating": view.Status == StatusUpdating,
			"error":    view.Error,
			"items":    items,
		})
	}
	return map[string]any{
		"collection":    def.Code,
		"title":         def.Name,
		"partition_key": def.PartitionKey,
		"scopes":        scopes,
	}
}
