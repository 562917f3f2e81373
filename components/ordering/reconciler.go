package ordering

import (
	"context"
	"fmt"
	"sync"
)

// Status is the rendering state of a reconciled list.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusLoading  Status = "loading"
	StatusUpdating Status = "updating"
)

// ReconcilerOptions configures a Reconciler for one collection scope.
type ReconcilerOptions struct {
	Client     CollectionClient
	Collection string
	Scope      string
	Notifier   Notifier
	Telemetry  Telemetry
	// RefreshOnSuccess re-fetches after a successful persist to absorb any
	// server side normalization.
	RefreshOnSuccess bool
}

// Reconciler keeps a locally rendered ordered list in sync with the backend.
// Drops are applied optimistically and persisted in a single batched call; a
// failed persist is reconciled by replacing local state with a fresh read.
// At most one reorder is in flight at a time.
type Reconciler struct {
	opts ReconcilerOptions

	mu     sync.Mutex
	items  []Item
	status Status
	drag   dragState
	err    error
	// gen is bumped by every Load and Drop; a fetch applies its result only
	// while it still owns the latest generation.
	gen uint64
}

type dragState struct {
	active bool
	source int
	target int
}

// View is a rendering snapshot of the reconciler.
type View struct {
	Collection string `json:"collection"`
	Scope      string `json:"scope,omitempty"`
	Status     Status `json:"status"`
	Items      []Item `json:"items"`
	DragSource int    `json:"drag_source"`
	DropTarget int    `json:"drop_target"`
	Error      string `json:"error,omitempty"`
}

// NewReconciler validates options and builds an empty reconciler. Call Load to
// populate it.
func NewReconciler(opts ReconcilerOptions) (*Reconciler, error) {
	if opts.Client == nil {
		return nil, errMissingClient
	}
	if opts.Collection == "" {
		return nil, errMissingCollection
	}
	if opts.Notifier == nil {
		opts.Notifier = noopNotifier{}
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Reconciler{opts: opts, status: StatusIdle}, nil
}

// Load fetches the authoritative list. On failure the list is emptied and the
// error is kept for display; there is no retry.
func (r *Reconciler) Load(ctx context.Context) error {
	r.mu.Lock()
	if r.status == StatusUpdating {
		r.mu.Unlock()
		return ErrReorderInFlight
	}
	r.gen++
	gen := r.gen
	r.status = StatusLoading
	r.mu.Unlock()

	items, err := r.fetch(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		return err
	}
	r.status = StatusIdle
	if err != nil {
		r.items = nil
		r.err = err
		return err
	}
	r.items = items
	r.err = nil
	return nil
}

// BeginDrag records the lifted element. It reports false when the index is out
// of range or when the list is loading or persisting a previous reorder.
func (r *Reconciler) BeginDrag(source int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusIdle {
		return false
	}
	if source < 0 || source >= len(r.items) {
		return false
	}
	r.drag = dragState{active: true, source: source, target: source}
	return true
}

// DragOver records the candidate drop index for highlighting.
func (r *Reconciler) DragOver(target int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.drag.active || target < 0 || target >= len(r.items) {
		return
	}
	r.drag.target = target
}

// Drop completes the drag at target. Without an active drag, or when target is
// the source index, it only clears the drag state. Otherwise the moved list is
// applied immediately and persisted; on failure the list is replaced with a
// fresh read and an error wrapping ErrPersistFailed is returned. A drop while
// the list is loading or persisting returns ErrReorderInFlight.
func (r *Reconciler) Drop(ctx context.Context, target int) error {
	r.mu.Lock()
	drag := r.drag
	r.drag = dragState{}
	if !drag.active || drag.source == target {
		r.mu.Unlock()
		return nil
	}
	if r.status != StatusIdle {
		r.mu.Unlock()
		return ErrReorderInFlight
	}
	snapshot := r.items
	next, err := Move(snapshot, drag.source, target)
	if err != nil {
		r.mu.Unlock()
		return nil
	}
	r.items = next
	r.status = StatusUpdating
	r.gen++
	r.mu.Unlock()

	input := UpdatePositionsInput{
		Collection: r.opts.Collection,
		Scope:      r.opts.Scope,
		Positions:  PositionUpdates(next),
	}
	if err := r.opts.Client.UpdatePositions(ctx, input); err != nil {
		r.rollback(ctx, snapshot, err)
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}
	r.opts.Telemetry.Record(ctx, "ordering.reorder.persisted", map[string]any{
		"collection": r.opts.Collection,
		"scope":      r.opts.Scope,
		"count":      len(input.Positions),
		"from":       drag.source,
		"to":         target,
	})

	if r.opts.RefreshOnSuccess {
		if items, err := r.fetch(ctx); err == nil {
			r.mu.Lock()
			r.items = items
			r.mu.Unlock()
		}
	}
	r.mu.Lock()
	r.status = StatusIdle
	r.err = nil
	r.mu.Unlock()
	r.opts.Notifier.Notify(ctx, Notice{
		Level:      NoticeSuccess,
		Collection: r.opts.Collection,
		Scope:      r.opts.Scope,
		Message:    "Positions updated",
	})
	return nil
}

// EndDrag clears transient drag state. Always safe to call.
func (r *Reconciler) EndDrag() {
	r.mu.Lock()
	r.drag = dragState{}
	r.mu.Unlock()
}

// rollback discards the optimistic list in favour of the server's. When the
// re-fetch fails too, the pre-drag snapshot is the last known server state.
func (r *Reconciler) rollback(ctx context.Context, snapshot []Item, cause error) {
	items, fetchErr := r.fetch(ctx)
	r.mu.Lock()
	if fetchErr != nil {
		r.items = snapshot
		r.err = fetchErr
	} else {
		r.items = items
		r.err = nil
	}
	r.status = StatusIdle
	r.mu.Unlock()

	payload := map[string]any{
		"collection": r.opts.Collection,
		"scope":      r.opts.Scope,
		"error":      cause.Error(),
	}
	if fetchErr != nil {
		payload["refetch_error"] = fetchErr.Error()
	}
	r.opts.Telemetry.Record(ctx, "ordering.reorder.reverted", payload)
	r.opts.Notifier.Notify(ctx, Notice{
		Level:      NoticeError,
		Collection: r.opts.Collection,
		Scope:      r.opts.Scope,
		Message:    "Could not save the new order, the list was reloaded: " + cause.Error(),
	})
}

func (r *Reconciler) fetch(ctx context.Context) ([]Item, error) {
	listed, err := r.opts.Client.List(ctx, ListQuery{
		Collection: r.opts.Collection,
		Scope:      r.opts.Scope,
	})
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(listed))
	for _, item := range listed {
		if r.opts.Scope != "" && item.Scope != "" && item.Scope != r.opts.Scope {
			continue
		}
		items = append(items, item)
	}
	SortByPosition(items)
	return items, nil
}

// Items returns a copy of the rendered list.
func (r *Reconciler) Items() []Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Item(nil), r.items...)
}

// Status reports whether the list is idle, loading or persisting.
func (r *Reconciler) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Busy reports whether a reorder is being persisted.
func (r *Reconciler) Busy() bool {
	return r.Status() == StatusUpdating
}

// DragSource returns the lifted index or -1.
func (r *Reconciler) DragSource() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.drag.active {
		return -1
	}
	return r.drag.source
}

// DropTarget returns the highlighted index or -1.
func (r *Reconciler) DropTarget() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.drag.active {
		return -1
	}
	return r.drag.target
}

// Err returns the last load error, if any.
func (r *Reconciler) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Scope returns the partition this reconciler manages.
func (r *Reconciler) Scope() string {
	return r.opts.Scope
}

// View snapshots the reconciler for rendering.
func (r *Reconciler) View() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	view := View{
		Collection: r.opts.Collection,
		Scope:      r.opts.Scope,
		Status:     r.status,
		Items:      append([]Item{}, r.items...),
		DragSource: -1,
		DropTarget: -1,
	}
	if r.drag.active {
		view.DragSource = r.drag.source
		view.DropTarget = r.drag.target
	}
	if r.err != nil {
		view.Error = r.err.Error()
	}
	return view
}
