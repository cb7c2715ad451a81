package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/bob1127/eSIM-pwa-sub000/internal/domain/errors"
	"github.com/bob1127/eSIM-pwa-sub000/internal/domain/model"
	"github.com/bob1127/eSIM-pwa-sub000/internal/domain/repository"
)

// PgxPool is the pool surface the storage uses, satisfied by *pgxpool.Pool
// and by pgxmock in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   PgxPool
	logger *slog.Logger
}

type orderRepository struct {
	storage *Storage
}

type planRepository struct {
	storage *Storage
}

type couponRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Plans() repository.PlanRepository {
	return &planRepository{storage: s}
}

func (s *Storage) Coupons() repository.CouponRepository {
	return &couponRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            customer_name TEXT NOT NULL,
            customer_email TEXT NOT NULL,
            customer_phone TEXT NOT NULL,
            items JSONB NOT NULL,
            total_price DOUBLE PRECISION NOT NULL,
            status TEXT NOT NULL,
            coupon_code TEXT NOT NULL DEFAULT '',
            discount DOUBLE PRECISION NOT NULL DEFAULT 0,
            qrcode_data JSONB,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            notified_at TIMESTAMPTZ,
            last_notify_at TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS plan_mappings (
            sku TEXT PRIMARY KEY,
            plan_id TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS coupons (
            code TEXT PRIMARY KEY,
            discount DOUBLE PRECISION NOT NULL,
            expires_at TIMESTAMPTZ
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_email ON orders(customer_email, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_unnotified ON orders(status) WHERE notified_at IS NULL`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

const orderColumns = `id, customer_name, customer_email, customer_phone, items, total_price,
                      status, coupon_code, discount, qrcode_data, created_at, updated_at, notified_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var (
		o        model.Order
		itemsRaw []byte
		qrRaw    []byte
	)
	err := row.Scan(&o.ID, &o.Contact.Name, &o.Contact.Email, &o.Contact.Phone, &itemsRaw,
		&o.TotalPrice, &o.Status, &o.CouponCode, &o.Discount, &qrRaw, &o.CreatedAt, &o.UpdatedAt, &o.NotifiedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemsRaw, &o.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	if len(qrRaw) > 0 {
		if err := json.Unmarshal(qrRaw, &o.Fulfillment); err != nil {
			return nil, fmt.Errorf("decode fulfillment payload: %w", err)
		}
	}
	return &o, nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return &domainErrors.StoreError{Op: "encode items", Err: err}
	}

	const query = `INSERT INTO orders (id, customer_name, customer_email, customer_phone, items,
                       total_price, status, coupon_code, discount)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
                   RETURNING created_at, updated_at`
	err = r.storage.pool.QueryRow(ctx, query,
		order.ID, order.Contact.Name, order.Contact.Email, order.Contact.Phone, items,
		order.TotalPrice, order.Status, order.CouponCode, order.Discount,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return &domainErrors.StoreError{Op: "create order", Err: err}
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListByEmail(ctx context.Context, email string) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_email=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const selectQuery = `SELECT status FROM orders WHERE id=$1 FOR UPDATE`
		var current model.OrderStatus
		if err := tx.QueryRow(ctx, selectQuery, id).Scan(&current); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if !current.CanTransition(status) {
			return domainErrors.ErrInvalidTransition
		}
		const updateQuery = `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2`
		if _, err := tx.Exec(ctx, updateQuery, status, id); err != nil {
			return &domainErrors.StoreError{Op: "update status", Err: err}
		}
		return nil
	})
}

func (r *orderRepository) SetFulfillment(ctx context.Context, id string, records []model.FulfillmentRecord, completed bool) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return &domainErrors.StoreError{Op: "encode fulfillment payload", Err: err}
	}

	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const selectQuery = `SELECT status FROM orders WHERE id=$1 FOR UPDATE`
		var current model.OrderStatus
		if err := tx.QueryRow(ctx, selectQuery, id).Scan(&current); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		if completed {
			if !current.CanTransition(model.OrderStatusCompleted) {
				return domainErrors.ErrInvalidTransition
			}
			const updateQuery = `UPDATE orders SET qrcode_data=$1, status=$2, updated_at=NOW() WHERE id=$3`
			if _, err := tx.Exec(ctx, updateQuery, payload, model.OrderStatusCompleted, id); err != nil {
				return &domainErrors.StoreError{Op: "set fulfillment", Err: err}
			}
			return nil
		}

		// Partial run: record vendor state already created without moving the
		// status, so a retry can resume instead of purchasing twice.
		const updateQuery = `UPDATE orders SET qrcode_data=$1, updated_at=NOW() WHERE id=$2`
		if _, err := tx.Exec(ctx, updateQuery, payload, id); err != nil {
			return &domainErrors.StoreError{Op: "set fulfillment", Err: err}
		}
		return nil
	})
}

func (r *orderRepository) MarkNotified(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE orders SET notified_at=$1, updated_at=NOW() WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, at, id)
	if err != nil {
		return &domainErrors.StoreError{Op: "mark notified", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) ClaimUnnotified(ctx context.Context, limit int) ([]model.Order, error) {
	// last_notify_at spaces out repeated attempts for the same order; the
	// row lock keeps concurrent claimers from picking the same batch.
	selectQuery := `SELECT ` + orderColumns + `
                         FROM orders
                         WHERE status=$1 AND notified_at IS NULL
                           AND (last_notify_at IS NULL OR last_notify_at < NOW() - INTERVAL '1 minute')
                         ORDER BY updated_at
                         LIMIT $2
                         FOR UPDATE SKIP LOCKED`

	var orders []model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, model.OrderStatusCompleted, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			o, err := scanOrder(rows)
			if err != nil {
				return err
			}
			orders = append(orders, *o)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		for _, o := range orders {
			if _, err := tx.Exec(ctx, `UPDATE orders SET last_notify_at=NOW() WHERE id=$1`, o.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// --- PlanRepository implementation ---

func (r *planRepository) PlanIDFor(ctx context.Context, normalizedSKU string) (string, error) {
	const query = `SELECT plan_id FROM plan_mappings WHERE sku=$1`
	var planID string
	err := r.storage.pool.QueryRow(ctx, query, normalizedSKU).Scan(&planID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domainErrors.ErrNotFound
		}
		return "", err
	}
	return planID, nil
}

func (r *planRepository) Upsert(ctx context.Context, normalizedSKU, planID string) error {
	const query = `INSERT INTO plan_mappings (sku, plan_id) VALUES ($1, $2)
                   ON CONFLICT (sku) DO UPDATE SET plan_id = EXCLUDED.plan_id`
	if _, err := r.storage.pool.Exec(ctx, query, normalizedSKU, planID); err != nil {
		return &domainErrors.StoreError{Op: "upsert plan mapping", Err: err}
	}
	return nil
}

// --- CouponRepository implementation ---

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	const query = `SELECT code, discount, expires_at FROM coupons WHERE code=$1`
	var c model.Coupon
	err := r.storage.pool.QueryRow(ctx, query, code).Scan(&c.Code, &c.Discount, &c.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
