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

	domainErrors "github.com/jmcastano/payflow/internal/domain/errors"
	"github.com/jmcastano/payflow/internal/domain/model"
	"github.com/jmcastano/payflow/internal/domain/repository"
)

// pgxPool is the pool surface used by the storage, abstracted for tests.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

var _ repository.Factory = (*Storage)(nil)

type orderRepository struct {
	storage *Storage
}

type productRepository struct {
	storage *Storage
}

type customerRepository struct {
	storage *Storage
}

type deliveryRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
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

func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{storage: s}
}

func (s *Storage) Customers() repository.CustomerRepository {
	return &customerRepository{storage: s}
}

func (s *Storage) Deliveries() repository.DeliveryRepository {
	return &deliveryRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            price DOUBLE PRECISION NOT NULL,
            stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0)
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            product_id TEXT NOT NULL REFERENCES products(id),
            amount_in_cents BIGINT NOT NULL,
            status TEXT NOT NULL DEFAULT 'PENDING',
            gateway_transaction_id TEXT,
            customer_email TEXT,
            metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS customers (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL DEFAULT '',
            email TEXT UNIQUE NOT NULL,
            phone TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS deliveries (
            id TEXT PRIMARY KEY,
            order_id TEXT UNIQUE NOT NULL REFERENCES orders(id),
            customer_id TEXT NOT NULL DEFAULT '',
            customer_name TEXT NOT NULL,
            address TEXT NOT NULL,
            city TEXT NOT NULL,
            phone TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'PENDING_SHIPMENT',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_gateway_tx ON orders(gateway_transaction_id) WHERE gateway_transaction_id IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status_updated ON orders(status, updated_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

const orderColumns = `id, product_id, amount_in_cents, status, gateway_transaction_id, customer_email, metadata, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o        model.Order
		status   string
		metadata []byte
	)
	err := row.Scan(&o.ID, &o.ProductID, &o.AmountInCents, &status, &o.GatewayTransactionID, &o.CustomerEmail, &metadata, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	o.Status = model.OrderStatus(status)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &o.Metadata); err != nil {
			return nil, fmt.Errorf("decode order metadata: %w", err)
		}
	}
	return &o, nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	metadata := []byte(`{}`)
	if order.Metadata != nil {
		encoded, err := json.Marshal(order.Metadata)
		if err != nil {
			return nil, fmt.Errorf("encode order metadata: %w", err)
		}
		metadata = encoded
	}

	const query = `INSERT INTO orders (id, product_id, amount_in_cents, status, gateway_transaction_id, customer_email, metadata)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)
                   RETURNING created_at, updated_at`
	created := *order
	err := r.storage.pool.QueryRow(ctx, query,
		order.ID, order.ProductID, order.AmountInCents, string(order.Status),
		order.GatewayTransactionID, order.CustomerEmail, metadata,
	).Scan(&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &created, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *orderRepository) GetByGatewayTransactionID(ctx context.Context, gatewayTxID string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE gateway_transaction_id=$1`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, gatewayTxID))
}

// UpdateStatus takes a row lock on the order before mutating it, so that two
// concurrent deliveries of the same event observe distinct previous statuses
// and only one of them sees the transition into APPROVED.
func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus, gatewayTxID *string) (*model.Order, model.OrderStatus, error) {
	var (
		updated  *model.Order
		previous model.OrderStatus
	)

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const lockQuery = `SELECT status FROM orders WHERE id=$1 FOR UPDATE`
		var prev string
		if err := tx.QueryRow(ctx, lockQuery, id).Scan(&prev); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		previous = model.OrderStatus(prev)

		updateQuery := `UPDATE orders
                        SET status=$1, gateway_transaction_id=COALESCE($2, gateway_transaction_id), updated_at=NOW()
                        WHERE id=$3
                        RETURNING ` + orderColumns
		order, err := scanOrder(tx.QueryRow(ctx, updateQuery, string(status), gatewayTxID, id))
		if err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return updated, previous, nil
}

func (r *orderRepository) SelectStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]model.Order, error) {
	selectQuery := `SELECT ` + orderColumns + `
                    FROM orders
                    WHERE status='PENDING' AND updated_at < $1
                    ORDER BY updated_at
                    LIMIT $2
                    FOR UPDATE SKIP LOCKED`
	cutoff := time.Now().Add(-olderThan)

	var orders []model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, cutoff, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			order, err := scanOrder(rows)
			if err != nil {
				return err
			}
			orders = append(orders, *order)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// --- ProductRepository implementation ---

func (r *productRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	const query = `INSERT INTO products (id, name, description, price, stock) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.storage.pool.Exec(ctx, query, product.ID, product.Name, product.Description, product.Price, product.Stock); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	created := *product
	return &created, nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	const query = `SELECT id, name, description, price, stock FROM products WHERE id=$1`
	var p model.Product
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	const query = `SELECT id, name, description, price, stock FROM products ORDER BY name`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DecreaseStock decrements in a single conditional statement; the counter is
// left untouched when the remaining stock is insufficient.
func (r *productRepository) DecreaseStock(ctx context.Context, id string, quantity int) error {
	const query = `UPDATE products SET stock = stock - $2 WHERE id=$1 AND stock >= $2`
	tag, err := r.storage.pool.Exec(ctx, query, id, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	const exists = `SELECT stock FROM products WHERE id=$1`
	var stock int
	if err := r.storage.pool.QueryRow(ctx, exists, id).Scan(&stock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrNotFound
		}
		return err
	}
	return fmt.Errorf("%w: product %s has %d, requested %d", domainErrors.ErrInsufficientStock, id, stock, quantity)
}

// --- CustomerRepository implementation ---

func (r *customerRepository) Create(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	const query = `INSERT INTO customers (id, name, email, phone) VALUES ($1, $2, $3, $4)
                   ON CONFLICT (email) DO NOTHING
                   RETURNING created_at, updated_at`
	created := *customer
	err := r.storage.pool.QueryRow(ctx, query, customer.ID, customer.Name, customer.Email, customer.Phone).
		Scan(&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost the race to a concurrent upsert for the same email.
			return r.GetByEmail(ctx, customer.Email)
		}
		return nil, err
	}
	return &created, nil
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	const query = `SELECT id, name, email, phone, created_at, updated_at FROM customers WHERE email=$1`
	var c model.Customer
	err := r.storage.pool.QueryRow(ctx, query, email).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *customerRepository) List(ctx context.Context) ([]model.Customer, error) {
	const query = `SELECT id, name, email, phone, created_at, updated_at FROM customers ORDER BY created_at`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Customer
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- DeliveryRepository implementation ---

func (r *deliveryRepository) Create(ctx context.Context, delivery *model.Delivery) (*model.Delivery, bool, error) {
	const query = `INSERT INTO deliveries (id, order_id, customer_id, customer_name, address, city, phone, status)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                   ON CONFLICT (order_id) DO NOTHING
                   RETURNING created_at, updated_at`
	created := *delivery
	err := r.storage.pool.QueryRow(ctx, query,
		delivery.ID, delivery.OrderID, delivery.CustomerID, delivery.CustomerName,
		delivery.Address, delivery.City, delivery.Phone, string(delivery.Status),
	).Scan(&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			existing, err := r.GetByOrderID(ctx, delivery.OrderID)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	return &created, true, nil
}

func (r *deliveryRepository) GetByOrderID(ctx context.Context, orderID string) (*model.Delivery, error) {
	const query = `SELECT id, order_id, customer_id, customer_name, address, city, phone, status, created_at, updated_at
                   FROM deliveries WHERE order_id=$1`
	var (
		d      model.Delivery
		status string
	)
	err := r.storage.pool.QueryRow(ctx, query, orderID).
		Scan(&d.ID, &d.OrderID, &d.CustomerID, &d.CustomerName, &d.Address, &d.City, &d.Phone, &status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	d.Status = model.DeliveryStatus(status)
	return &d, nil
}

func (r *deliveryRepository) List(ctx context.Context) ([]model.Delivery, error) {
	const query = `SELECT id, order_id, customer_id, customer_name, address, city, phone, status, created_at, updated_at
                   FROM deliveries ORDER BY created_at`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Delivery
	for rows.Next() {
		var (
			d      model.Delivery
			status string
		)
		if err := rows.Scan(&d.ID, &d.OrderID, &d.CustomerID, &d.CustomerName, &d.Address, &d.City, &d.Phone, &status, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		d.Status = model.DeliveryStatus(status)
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
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
