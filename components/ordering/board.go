package ordering

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
)

// BoardOptions configures a Board.
type BoardOptions struct {
	Client           CollectionClient
	Definition       CollectionDefinition
	Notifier         Notifier
	Telemetry        Telemetry
	RefreshOnSuccess bool
}

// Board groups one Reconciler per scope of a collection. Unpartitioned
// collections get a single reconciler under the empty scope.
type Board struct {
	definition CollectionDefinition
	scopes     map[string]*Reconciler
	order      []string
}

// NewBoard builds reconcilers for every scope of the definition.
func NewBoard(opts BoardOptions) (*Board, error) {
	if opts.Definition.Code == "" {
		return nil, errMissingCollection
	}
	scopes := []string{""}
	if opts.Definition.Partitioned() {
		if len(opts.Definition.Scopes) == 0 {
			return nil, fmt.Errorf("ordering: collection %s is partitioned by %s but declares no scopes",
				opts.Definition.Code, opts.Definition.PartitionKey)
		}
		scopes = append([]string(nil), opts.Definition.Scopes...)
	}
	board := &Board{
		definition: opts.Definition,
		scopes:     make(map[string]*Reconciler, len(scopes)),
		order:      scopes,
	}
	for _, scope := range scopes {
		rec, err := NewReconciler(ReconcilerOptions{
			Client:           opts.Client,
			Collection:       opts.Definition.Code,
			Scope:            scope,
			Notifier:         opts.Notifier,
			Telemetry:        opts.Telemetry,
			RefreshOnSuccess: opts.RefreshOnSuccess,
		})
		if err != nil {
			return nil, err
		}
		board.scopes[scope] = rec
	}
	return board, nil
}

// LoadAll fetches every scope concurrently. Each scope keeps its own error;
// the first one is returned.
func (b *Board) LoadAll(ctx context.Context) error {
	var g errgroup.Group
	for _, scope := range b.order {
		rec := b.scopes[scope]
		g.Go(func() error {
			return rec.Load(ctx)
		})
	}
	return g.Wait()
}

// Scope returns the reconciler of a partition.
func (b *Board) Scope(name string) (*Reconciler, bool) {
	rec, ok := b.scopes[name]
	return rec, ok
}

// Scopes lists the partitions in declaration order.
func (b *Board) Scopes() []string {
	return append([]string(nil), b.order...)
}

// Definition returns the collection definition the board was built from.
func (b *Board) Definition() CollectionDefinition {
	return b.definition
}

// Views snapshots every scope, sorted by scope name.
func (b *Board) Views() []View {
	views := make([]View, 0, len(b.scopes))
	for _, scope := range b.order {
		views = append(views, b.scopes[scope].View())
	}
	sort.SliceStable(views, func(i, j int) bool { return views[i].Scope < views[j].Scope })
	return views
}
