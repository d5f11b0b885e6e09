package seed

import (
	"context"
	"fmt"

	"storefront/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// Fixed IDs keep repeated seed runs from duplicating the catalog.
var catalog = []domain.Product{
	{
		ID:          "0e4c5d1a-9f7b-4f33-9a67-1d2e3f405001",
		Name:        "Aster One",
		Brand:       "Aster",
		Description: "6.1 inch OLED display, 128GB storage, dual camera",
		Price:       8990000,
		Stock:       25,
		Images:      []string{"/images/aster-one.jpg"},
		Colors: []domain.ProductColor{
			{Name: "Black", Code: "#1c1c1e"},
			{Name: "Silver", Code: "#d8d8dc"},
		},
		Rating:     4.5,
		NumReviews: 12,
	},
	{
		ID:          "0e4c5d1a-9f7b-4f33-9a67-1d2e3f405002",
		Name:        "Aster One Pro",
		Brand:       "Aster",
		Description: "6.7 inch OLED display, 256GB storage, triple camera",
		Price:       12990000,
		Stock:       14,
		Images:      []string{"/images/aster-one-pro.jpg"},
		Colors: []domain.ProductColor{
			{Name: "Graphite", Code: "#41424c"},
			{Name: "Gold", Code: "#f5e0c0"},
		},
		Rating:     4.8,
		NumReviews: 31,
	},
	{
		ID:          "0e4c5d1a-9f7b-4f33-9a67-1d2e3f405003",
		Name:        "Nimbus S",
		Brand:       "Nimbus",
		Description: "6.4 inch AMOLED display, 128GB storage, 5000mAh battery",
		Price:       6490000,
		Stock:       40,
		Images:      []string{"/images/nimbus-s.jpg"},
		Colors: []domain.ProductColor{
			{Name: "Blue", Code: "#2457c5"},
			{Name: "White", Code: "#f4f4f4"},
		},
		Rating:     4.2,
		NumReviews: 8,
	},
	{
		ID:          "0e4c5d1a-9f7b-4f33-9a67-1d2e3f405004",
		Name:        "Nimbus S Lite",
		Brand:       "Nimbus",
		Description: "6.2 inch LCD display, 64GB storage",
		Price:       3990000,
		Stock:       60,
		Images:      []string{"/images/nimbus-s-lite.jpg"},
		Colors: []domain.ProductColor{
			{Name: "Green", Code: "#3a7d44"},
		},
		Rating:     3.9,
		NumReviews: 5,
	},
}

// Apply upserts a small phone catalog for manual testing. Repeated runs
// update the same rows instead of inserting duplicates.
func Apply(ctx context.Context, repo ProductWriter) error {
	for _, p := range catalog {
		if _, err := repo.Upsert(ctx, p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.Name, err)
		}
	}
	return nil
}
