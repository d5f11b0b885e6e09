package order

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"storefront/internal/domain"
	orderrepo "storefront/internal/repository/order"
)

var (
	// ErrEmptyOrder is returned when an order has no items.
	ErrEmptyOrder = errors.New("order must contain at least one item")
	// ErrIncompleteAddress is returned when a shipping field is missing.
	ErrIncompleteAddress = errors.New("all shipping address fields are required")
	// ErrForbidden is returned when a user reads someone else's order.
	ErrForbidden = errors.New("order belongs to another user")
)

// Service validates and stores orders.
type Service struct {
	repo orderrepo.Repository
}

func New(repo orderrepo.Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput mirrors the order submission payload.
type CreateInput struct {
	Items           []domain.OrderItem     `json:"items"`
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	TotalPrice      int64                  `json:"totalPrice"`
}

// Create validates the submission and stores a new pending order.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, item := range in.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return nil, errors.New("item product id required")
		}
		if item.Quantity <= 0 {
			return nil, errors.New("item quantity must be positive")
		}
		if item.UnitPrice < 0 {
			return nil, errors.New("item price must not be negative")
		}
	}
	if !addressComplete(in.ShippingAddress) {
		return nil, ErrIncompleteAddress
	}
	if in.TotalPrice <= 0 {
		return nil, errors.New("total price must be positive")
	}

	return s.repo.Create(ctx, domain.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Items:           in.Items,
		ShippingAddress: in.ShippingAddress,
		TotalPrice:      in.TotalPrice,
		Status:          domain.OrderPending,
	})
}

// Get returns an order, enforcing that only its owner or an admin may read it.
func (s *Service) Get(ctx context.Context, userID string, isAdmin bool, orderID string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID && !isAdmin {
		return nil, ErrForbidden
	}
	return o, nil
}

// List returns the caller's orders, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func addressComplete(a domain.ShippingAddress) bool {
	for _, field := range []string{a.FullName, a.Address, a.City, a.PostalCode, a.Phone} {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}
