package domain

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// OrderItem captures a product at the moment the order was placed; later
// catalog edits must not change it.
type OrderItem struct {
	ProductID  string `json:"productId"`
	Name       string `json:"name,omitempty"`
	VariantKey string `json:"variantKey,omitempty"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int64  `json:"unitPrice"`
}

// ShippingAddress holds the delivery fields collected at checkout. All five
// are required; no format validation is applied beyond presence.
type ShippingAddress struct {
	FullName   string `json:"fullName"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Phone      string `json:"phone"`
}

// Order belongs to exactly one user. Status is set to pending at creation and
// is only ever changed by back-office tooling outside this service.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	TotalPrice      int64           `json:"totalPrice"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
}
