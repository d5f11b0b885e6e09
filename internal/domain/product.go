package domain

import "time"

// ProductColor is a selectable variant of a product.
type ProductColor struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Product is a catalog entry. Price is stored in whole currency units.
type Product struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Brand       string         `json:"brand"`
	Description string         `json:"description,omitempty"`
	Price       int64          `json:"price"`
	Images      []string       `json:"images"`
	Stock       int            `json:"stock"`
	Colors      []ProductColor `json:"colors,omitempty"`
	Rating      float64        `json:"rating"`
	NumReviews  int            `json:"numReviews"`
	CreatedAt   time.Time      `json:"createdAt"`
}
