package pgstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/goliatone/go-reorder/components/ordering"
)

const schema = `
CREATE TABLE IF NOT EXISTS ordered_items (
  collection TEXT NOT NULL,
  id TEXT NOT NULL,
  scope TEXT NOT NULL DEFAULT '',
  position INTEGER NOT NULL,
  title TEXT NOT NULL DEFAULT '',
  image TEXT NOT NULL DEFAULT '',
  is_active BOOLEAN NOT NULL DEFAULT FALSE,
  fields JSONB NOT NULL DEFAULT '{}'::jsonb,
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS idx_ordered_items_scope ON ordered_items (collection, scope, position);
`

const selectItems = `SELECT id, scope, position, title, image, is_active, fields FROM ordered_items`

// Store persists ordered collections in PostgreSQL. Every write runs in a
// transaction that locks the affected rows first.
type Store struct {
	pool   *pgxpool.Pool
	schema schemaGate
}

var _ ordering.Store = (*Store)(nil)

// New connects to the database and verifies the connection.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, strings.TrimSpace(dsn))
	if err != nil {
		return nil, fmt.Errorf("pgstore: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgstore: ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewWithPool wraps an existing pool.
func NewWithPool(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	return s.schema.ensure(ctx, func(ctx context.Context) error {
		_, err := s.pool.Exec(ctx, schema)
		return err
	})
}

// schemaGate runs the migration until it succeeds once. A failed attempt,
// such as one cut short by a cancelled request, is retried by the next call.
type schemaGate struct {
	mu    sync.Mutex
	ready bool
}

func (g *schemaGate) ensure(ctx context.Context, apply func(context.Context) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ready {
		return nil
	}
	if err := apply(ctx); err != nil {
		return fmt.Errorf("pgstore: ensure schema: %w", err)
	}
	g.ready = true
	return nil
}

// List returns the items of a collection sorted by scope then position.
func (s *Store) List(ctx context.Context, query ordering.ListQuery) ([]ordering.Item, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	sql := selectItems + ` WHERE collection = $1`
	args := []any{query.Collection}
	if query.Scope != "" {
		sql += ` AND scope = $2`
		args = append(args, query.Scope)
	}
	sql += ` ORDER BY scope, position, id`
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("pgstore: list: %w", err)
	}
	return collectItems(rows)
}

// Create inserts the item at the end of its scope, or at the requested
// position with the following rows shifted down.
func (s *Store) Create(ctx context.Context, input ordering.CreateItemInput) (ordering.Item, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return ordering.Item{}, err
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return ordering.Item{}, fmt.Errorf("pgstore: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var maxPos int
	rows, err := tx.Query(ctx, `SELECT position FROM ordered_items
WHERE collection = $1 AND scope = $2 FOR UPDATE`, input.Collection, input.Scope)
	if err != nil {
		return ordering.Item{}, fmt.Errorf("pgstore: lock scope: %w", err)
	}
	positions, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return ordering.Item{}, fmt.Errorf("pgstore: lock scope: %w", err)
	}
	for _, p := range positions {
		maxPos = max(maxPos, p)
	}
	position := maxPos + 1
	if input.Position != nil && *input.Position <= maxPos {
		position = *input.Position
		if _, err := tx.Exec(ctx, `UPDATE ordered_items SET position = position + 1
WHERE collection = $1 AND scope = $2 AND position >= $3`, input.Collection, input.Scope, position); err != nil {
			return ordering.Item{}, fmt.Errorf("pgstore: shift scope: %w", err)
		}
	}
	item := ordering.Item{
		ID:       uuid.NewString(),
		Position: position,
		Scope:    input.Scope,
		Title:    input.Title,
		Image:    input.Image,
		Active:   input.Active,
		Fields:   input.Fields,
	}
	fields := item.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	if _, err := tx.Exec(ctx, `INSERT INTO ordered_items
(collection, id, scope, position, title, image, is_active, fields)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		input.Collection, item.ID, item.Scope, item.Position, item.Title, item.Image, bool(item.Active), fields); err != nil {
		return ordering.Item{}, fmt.Errorf("pgstore: insert: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return ordering.Item{}, fmt.Errorf("pgstore: commit: %w", err)
	}
	return item.Clone(), nil
}

// Delete removes the item and renumbers its scope to 1..n.
func (s *Store) Delete(ctx context.Context, collection, id string) (ordering.Item, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return ordering.Item{}, err
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return ordering.Item{}, fmt.Errorf("pgstore: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `DELETE FROM ordered_items WHERE collection = $1 AND id = $2
RETURNING id, scope, position, title, image, is_active, fields`, collection, id)
	removed, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return ordering.Item{}, fmt.Errorf("%w: %s", ordering.ErrItemNotFound, id)
	}
	if err != nil {
		return ordering.Item{}, fmt.Errorf("pgstore: delete: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE ordered_items o SET position = r.rn
FROM (
  SELECT id, ROW_NUMBER() OVER (ORDER BY position, id) AS rn
  FROM ordered_items WHERE collection = $1 AND scope = $2
) r
WHERE o.collection = $1 AND o.id = r.id AND o.position <> r.rn`, collection, removed.Scope); err != nil {
		return ordering.Item{}, fmt.Errorf("pgstore: compact: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return ordering.Item{}, fmt.Errorf("pgstore: commit: %w", err)
	}
	return removed, nil
}

// UpdatePositions locks the collection, validates the batch against the
// locked rows and applies it in one round trip.
func (s *Store) UpdatePositions(ctx context.Context, input ordering.UpdatePositionsInput) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pgstore: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, selectItems+` WHERE collection = $1 FOR UPDATE`, input.Collection)
	if err != nil {
		return fmt.Errorf("pgstore: lock collection: %w", err)
	}
	current, err := collectItems(rows)
	if err != nil {
		return err
	}
	if err := ordering.ValidateBatch(current, input.Positions); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, p := range input.Positions {
		batch.Queue(`UPDATE ordered_items SET position = $3 WHERE collection = $1 AND id = $2`,
			input.Collection, p.ID, p.Position)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("pgstore: update positions: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("pgstore: commit: %w", err)
	}
	return nil
}

func scanItem(row pgx.Row) (ordering.Item, error) {
	var (
		item   ordering.Item
		active bool
		fields map[string]any
	)
	if err := row.Scan(&item.ID, &item.Scope, &item.Position, &item.Title, &item.Image, &active, &fields); err != nil {
		return ordering.Item{}, err
	}
	item.Active = ordering.Flag(active)
	if len(fields) > 0 {
		item.Fields = fields
	}
	return item, nil
}

func collectItems(rows pgx.Rows) ([]ordering.Item, error) {
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ordering.Item, error) {
		return scanItem(row)
	})
	if err != nil {
		return nil, fmt.Errorf("pgstore: scan: %w", err)
	}
	return items, nil
}
