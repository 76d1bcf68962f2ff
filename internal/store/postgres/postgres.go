// Package postgres implements store.OrderStore on PostgreSQL. The item
// snapshot lives in a JSONB column so that every write to an order is a single
// row statement.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Lixing-Zhang/orderboard/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
    owner_id     TEXT        NOT NULL,
    id           TEXT        NOT NULL,
    token        TEXT        NOT NULL,
    items        JSONB       NOT NULL CHECK (jsonb_array_length(items) > 0),
    status       TEXT        NOT NULL,
    queue        TEXT        NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL,
    updated_at   TIMESTAMPTZ NOT NULL,
    completed_at TIMESTAMPTZ,
    deleted_at   TIMESTAMPTZ,
    deleted      BOOLEAN     NOT NULL DEFAULT FALSE,
    PRIMARY KEY (owner_id, id)
);
CREATE INDEX IF NOT EXISTS orders_live_idx ON orders (owner_id, created_at) WHERE NOT deleted;
`

const selectColumns = `id, token, items, status, queue, created_at, updated_at, completed_at, deleted_at, deleted`

// Config holds connection settings
type Config struct {
	DSN        string
	MaxConns   int32
	MaxRetries int
	RetryDelay time.Duration
}

// Store is a pgx-backed order store
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an existing pool
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Connect opens a pool, retrying the ping until the database answers or the
// retries run out
func Connect(ctx context.Context, cfg Config, log *slog.Logger) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 10
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = pool.Ping(pingCtx)
		cancel()
		if err == nil {
			break
		}
		if attempt >= cfg.MaxRetries {
			pool.Close()
			return nil, fmt.Errorf("database unreachable after %d attempts: %w", attempt, err)
		}
		log.Warn("database not ready, retrying", "attempt", attempt, "error", err)
		select {
		case <-time.After(cfg.RetryDelay):
		case <-ctx.Done():
			pool.Close()
			return nil, fmt.Errorf("database connect canceled: %w", ctx.Err())
		}
	}

	return &Store{pool: pool}, nil
}

// Migrate creates the orders table if needed
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("%w: migrate: %v", models.ErrStore, err)
	}
	return nil
}

// Close releases the pool
func (s *Store) Close() {
	s.pool.Close()
}

// LoadOrders returns live orders oldest first
func (s *Store) LoadOrders(ctx context.Context, ownerID string) ([]models.Order, error) {
	return s.query(ctx, `SELECT `+selectColumns+` FROM orders
        WHERE owner_id = $1 AND NOT deleted
        ORDER BY created_at, id`, ownerID)
}

// LoadAllOrders includes soft-deleted orders
func (s *Store) LoadAllOrders(ctx context.Context, ownerID string) ([]models.Order, error) {
	return s.query(ctx, `SELECT `+selectColumns+` FROM orders
        WHERE owner_id = $1
        ORDER BY created_at, id`, ownerID)
}

func (s *Store) query(ctx context.Context, sql string, args ...any) ([]models.Order, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query orders: %v", models.ErrStore, err)
	}
	defer rows.Close()

	orders := make([]models.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read orders: %v", models.ErrStore, err)
	}
	return orders, nil
}

// GetOrder returns one order, deleted or not
func (s *Store) GetOrder(ctx context.Context, ownerID, orderID string) (models.Order, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM orders
        WHERE owner_id = $1 AND id = $2`, ownerID, orderID)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Order{}, fmt.Errorf("%w: order %s", models.ErrNotFound, orderID)
	}
	return o, err
}

// SaveOrder upserts the full order row
func (s *Store) SaveOrder(ctx context.Context, ownerID string, o models.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
        INSERT INTO orders (
            owner_id, id, token, items, status, queue,
            created_at, updated_at, completed_at, deleted_at, deleted
        ) VALUES (
            $1, $2, $3, $4::jsonb, $5, $6, $7, $8, $9, $10, $11
        )
        ON CONFLICT (owner_id, id) DO UPDATE SET
            token = EXCLUDED.token,
            items = EXCLUDED.items,
            status = EXCLUDED.status,
            queue = EXCLUDED.queue,
            updated_at = EXCLUDED.updated_at,
            completed_at = EXCLUDED.completed_at,
            deleted_at = EXCLUDED.deleted_at,
            deleted = EXCLUDED.deleted
    `,
		ownerID,
		o.ID,
		o.Token,
		string(items),
		string(o.Status),
		string(o.Queue),
		o.CreatedAt,
		o.UpdatedAt,
		o.CompletedAt,
		o.DeletedAt,
		o.Deleted,
	)
	if err != nil {
		return fmt.Errorf("%w: insert order %s: %v", models.ErrStore, o.ID, err)
	}
	return nil
}

// UpdateOrder merges patch with a single UPDATE statement. Cancelled rows
// are excluded by the statement itself, so a racing cancel always wins.
func (s *Store) UpdateOrder(ctx context.Context, ownerID, orderID string, patch models.OrderPatch) error {
	sets, args, err := patchClauses(patch)
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, ownerID, orderID)
	sql := fmt.Sprintf("UPDATE orders SET %s WHERE owner_id = $%d AND id = $%d AND NOT deleted",
		strings.Join(sets, ", "), len(args)-1, len(args))

	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%w: update order %s: %v", models.ErrStore, orderID, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	err = s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE owner_id = $1 AND id = $2)`,
		ownerID, orderID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%w: check order %s: %v", models.ErrStore, orderID, err)
	}
	if exists {
		return fmt.Errorf("%w: order %s is cancelled", models.ErrInvalidState, orderID)
	}
	return fmt.Errorf("%w: order %s", models.ErrNotFound, orderID)
}

// patchClauses turns the non-nil fields of patch into SET clauses with
// positional arguments starting at $1
func patchClauses(patch models.OrderPatch) ([]string, []any, error) {
	var (
		sets []string
		args []any
	)
	add := func(column, cast string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d%s", column, len(args), cast))
	}

	if patch.Items != nil {
		items, err := json.Marshal(patch.Items)
		if err != nil {
			return nil, nil, fmt.Errorf("encode items: %w", err)
		}
		add("items", "::jsonb", string(items))
	}
	if patch.Status != nil {
		add("status", "", string(*patch.Status))
	}
	if patch.Queue != nil {
		add("queue", "", string(*patch.Queue))
	}
	if patch.UpdatedAt != nil {
		add("updated_at", "", *patch.UpdatedAt)
	}
	if patch.CompletedAt != nil {
		add("completed_at", "", *patch.CompletedAt)
	}
	if patch.DeletedAt != nil {
		add("deleted_at", "", *patch.DeletedAt)
	}
	if patch.Deleted != nil {
		add("deleted", "", *patch.Deleted)
	}
	return sets, args, nil
}

func scanOrder(row pgx.Row) (models.Order, error) {
	var (
		o      models.Order
		items  []byte
		status string
		queue  string
	)
	err := row.Scan(
		&o.ID,
		&o.Token,
		&items,
		&status,
		&queue,
		&o.CreatedAt,
		&o.UpdatedAt,
		&o.CompletedAt,
		&o.DeletedAt,
		&o.Deleted,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Order{}, err
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("%w: scan order: %v", models.ErrStore, err)
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return models.Order{}, fmt.Errorf("%w: decode items of order %s: %v", models.ErrStore, o.ID, err)
	}
	o.Status = models.Status(status)
	o.Queue = models.Queue(queue)
	return o, nil
}
