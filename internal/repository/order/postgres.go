package order

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

// Create writes the order row and all of its lines in one transaction so a
// partially stored order can never be observed.
func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	addrJSON, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return nil, err
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const orderQ = `
INSERT INTO orders (id, user_id, shipping_address, total_price, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text, created_at
`
	var created domain.Order
	if err := tx.QueryRow(ctx, orderQ, o.ID, o.UserID, addrJSON, o.TotalPrice, string(o.Status)).Scan(
		&created.ID,
		&created.CreatedAt,
	); err != nil {
		r.logger.Printf("order repo: create user_id=%s error=%v", o.UserID, err)
		return nil, err
	}

	const lineQ = `
INSERT INTO order_lines (order_id, product_id, name, variant_key, quantity, unit_price)
VALUES ($1, $2, $3, $4, $5, $6)
`
	for _, item := range o.Items {
		if _, err := tx.Exec(ctx, lineQ, created.ID, item.ProductID, item.Name, item.VariantKey, item.Quantity, item.UnitPrice); err != nil {
			r.logger.Printf("order repo: insert line order_id=%s product_id=%s error=%v", created.ID, item.ProductID, err)
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	created.UserID = o.UserID
	created.Items = o.Items
	created.ShippingAddress = o.ShippingAddress
	created.TotalPrice = o.TotalPrice
	created.Status = o.Status
	return &created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `
SELECT id::text, user_id::text, shipping_address, total_price, status, created_at
FROM orders
WHERE id = $1
`
	o, err := r.scanOrder(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `
SELECT id::text, user_id::text, shipping_address, total_price, status, created_at
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		r.logger.Printf("order repo: list user_id=%s error=%v", userID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		if err := r.loadLines(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *postgresRepo) scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var addrJSON []byte
	var status string
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&addrJSON,
		&o.TotalPrice,
		&status,
		&o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: scan error=%v", err)
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	if len(addrJSON) > 0 {
		if err := json.Unmarshal(addrJSON, &o.ShippingAddress); err != nil {
			r.logger.Printf("order repo: decode address id=%s err=%v", o.ID, err)
			return nil, err
		}
	}
	return &o, nil
}

func (r *postgresRepo) loadLines(ctx context.Context, o *domain.Order) error {
	const q = `
SELECT product_id::text, name, variant_key, quantity, unit_price
FROM order_lines
WHERE order_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.VariantKey, &item.Quantity, &item.UnitPrice); err != nil {
			return err
		}
		o.Items = append(o.Items, item)
	}
	return rows.Err()
}
