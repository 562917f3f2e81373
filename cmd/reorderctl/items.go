package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-reorder/components/ordering"
)

type listCmd struct {
	Collection string `arg:"" help:"Collection code (hero-banners, featured-images, ...)."`
	Scope      string `help:"Only list one scope (for example desktop)."`
}

func (cmd *listCmd) Run(ctx context.Context, root *cli) error {
	e, err := root.env()
	if err != nil {
		return err
	}
	return cmd.run(ctx, e)
}

func (cmd *listCmd) run(ctx context.Context, e *env) error {
	items, err := e.client.List(ctx, ordering.ListQuery{Collection: cmd.Collection, Scope: cmd.Scope})
	if err != nil {
		return err
	}
	return writeYAML(e.out, itemRows(items))
}

type moveCmd struct {
	Collection string `arg:"" help:"Collection code."`
	From       int    `required:"" help:"Current 1-based position of the item."`
	To         int    `required:"" help:"Target 1-based position."`
	Scope      string `help:"Scope the positions refer to (required for partitioned collections)."`
}

func (cmd *moveCmd) Run(ctx context.Context, root *cli) error {
	e, err := root.env()
	if err != nil {
		return err
	}
	return cmd.run(ctx, e)
}

// run replays the move as a drag and drop so the same batching and rollback
// rules apply as in the board.
func (cmd *moveCmd) run(ctx context.Context, e *env) error {
	var notices []ordering.Notice
	rec, err := ordering.NewReconciler(ordering.ReconcilerOptions{
		Client:     e.client,
		Collection: cmd.Collection,
		Scope:      cmd.Scope,
		Notifier: ordering.NotifierFunc(func(_ context.Context, n ordering.Notice) {
			notices = append(notices, n)
		}),
	})
	if err != nil {
		return err
	}
	if err := rec.Load(ctx); err != nil {
		return err
	}
	if n := len(rec.Items()); cmd.To < 1 || cmd.To > n {
		return fmt.Errorf("reorderctl: target position %d is outside 1..%d", cmd.To, n)
	}
	if !rec.BeginDrag(cmd.From - 1) {
		return fmt.Errorf("reorderctl: no item at position %d", cmd.From)
	}
	rec.DragOver(cmd.To - 1)
	if err := rec.Drop(ctx, cmd.To-1); err != nil {
		for _, n := range notices {
			fmt.Fprintf(e.out, "%s: %s\n", n.Level, n.Message)
		}
		return err
	}
	return writeYAML(e.out, itemRows(rec.Items()))
}

type createCmd struct {
	Collection string            `arg:"" help:"Collection code."`
	Title      string            `required:"" help:"Item title."`
	Image      string            `help:"Image path or URL."`
	Scope      string            `help:"Scope of the item for partitioned collections."`
	Position   int               `help:"Insert at this 1-based position instead of appending."`
	Inactive   bool              `help:"Create the item hidden."`
	Field      map[string]string `help:"Extra fields as key=value (repeatable)."`
}

func (cmd *createCmd) Run(ctx context.Context, root *cli) error {
	e, err := root.env()
	if err != nil {
		return err
	}
	return cmd.run(ctx, e)
}

func (cmd *createCmd) run(ctx context.Context, e *env) error {
	input := ordering.CreateItemInput{
		Collection: cmd.Collection,
		Scope:      cmd.Scope,
		Title:      cmd.Title,
		Image:      cmd.Image,
		Active:     ordering.Flag(!cmd.Inactive),
	}
	if cmd.Position > 0 {
		pos := cmd.Position
		input.Position = &pos
	}
	if len(cmd.Field) > 0 {
		input.Fields = make(map[string]any, len(cmd.Field))
		for k, v := range cmd.Field {
			input.Fields[strings.TrimSpace(k)] = v
		}
	}
	item, err := e.client.CreateItem(ctx, input)
	if err != nil {
		return err
	}
	return writeYAML(e.out, itemRows([]ordering.Item{item}))
}

type deleteCmd struct {
	Collection string `arg:"" help:"Collection code."`
	ID         string `arg:"" help:"Item id."`
}

func (cmd *deleteCmd) Run(ctx context.Context, root *cli) error {
	e, err := root.env()
	if err != nil {
		return err
	}
	return cmd.run(ctx, e)
}

func (cmd *deleteCmd) run(ctx context.Context, e *env) error {
	if err := e.client.DeleteItem(ctx, cmd.Collection, cmd.ID); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "✓ Deleted %s from %s\n", cmd.ID, cmd.Collection)
	return nil
}

type itemRow struct {
	ID       string         `yaml:"id"`
	Position int            `yaml:"position"`
	Scope    string         `yaml:"scope,omitempty"`
	Title    string         `yaml:"title"`
	Image    string         `yaml:"image,omitempty"`
	Active   bool           `yaml:"is_active"`
	Fields   map[string]any `yaml:"fields,omitempty"`
}

func itemRows(items []ordering.Item) []itemRow {
	rows := make([]itemRow, len(items))
	for i, item := range items {
		rows[i] = itemRow{
			ID:       item.ID,
			Position: item.Position,
			Scope:    item.Scope,
			Title:    item.Title,
			Image:    item.Image,
			Active:   bool(item.Active),
			Fields:   item.Fields,
		}
	}
	return rows
}
