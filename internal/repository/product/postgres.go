package product

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

const productColumns = `id::text, name, brand, COALESCE(description, ''), price, images, stock, colors, rating, num_reviews, created_at`

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	imagesJSON, colorsJSON, err := encodeProductJSON(p)
	if err != nil {
		return nil, err
	}
	const q = `
INSERT INTO products (name, brand, description, price, images, stock, colors, rating, num_reviews)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9)
RETURNING ` + productColumns + `
`
	created, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.Name, p.Brand, p.Description, p.Price, imagesJSON, p.Stock, colorsJSON, p.Rating, p.NumReviews))
	if err != nil {
		r.logger.Printf("product repo: create name=%q error=%v", p.Name, err)
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	imagesJSON, colorsJSON, err := encodeProductJSON(p)
	if err != nil {
		return nil, err
	}
	const q = `
UPDATE products
SET name = $2,
    brand = $3,
    description = NULLIF($4, ''),
    price = $5,
    images = $6,
    stock = $7,
    colors = $8,
    rating = $9,
    num_reviews = $10
WHERE id = $1
RETURNING ` + productColumns + `
`
	updated, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.ID, p.Name, p.Brand, p.Description, p.Price, imagesJSON, p.Stock, colorsJSON, p.Rating, p.NumReviews))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: update id=%s error=%v", p.ID, err)
		return nil, err
	}
	return updated, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("product repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Upsert inserts or overwrites a product, keeping the provided ID when one is
// given. Used by the catalog importer and seeder, which supply stable IDs.
func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	imagesJSON, colorsJSON, err := encodeProductJSON(p)
	if err != nil {
		return nil, err
	}
	const q = `
INSERT INTO products (id, name, brand, description, price, images, stock, colors, rating, num_reviews)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    brand = EXCLUDED.brand,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    images = EXCLUDED.images,
    stock = EXCLUDED.stock,
    colors = EXCLUDED.colors,
    rating = EXCLUDED.rating,
    num_reviews = EXCLUDED.num_reviews
RETURNING ` + productColumns + `
`
	upserted, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.ID, p.Name, p.Brand, p.Description, p.Price, imagesJSON, p.Stock, colorsJSON, p.Rating, p.NumReviews))
	if err != nil {
		r.logger.Printf("product repo: upsert name=%q error=%v", p.Name, err)
		return nil, err
	}
	return upserted, nil
}

func encodeProductJSON(p domain.Product) ([]byte, []byte, error) {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return nil, nil, err
	}
	colors := p.Colors
	if colors == nil {
		colors = []domain.ProductColor{}
	}
	colorsJSON, err := json.Marshal(colors)
	if err != nil {
		return nil, nil, err
	}
	return imagesJSON, colorsJSON, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var imagesJSON, colorsJSON []byte
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Brand,
		&p.Description,
		&p.Price,
		&imagesJSON,
		&p.Stock,
		&colorsJSON,
		&p.Rating,
		&p.NumReviews,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(imagesJSON) > 0 {
		if err := json.Unmarshal(imagesJSON, &p.Images); err != nil {
			return nil, err
		}
	}
	if len(colorsJSON) > 0 {
		if err := json.Unmarshal(colorsJSON, &p.Colors); err != nil {
			return nil, err
		}
	}
	return &p, nil
}
