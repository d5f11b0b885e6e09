// Package checkout drives order submission: it validates the cart and
// session, builds the order payload with the flat shipping fee, and
// tracks the submission state so only one submit runs at a time.
package checkout

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"

	"storefront/internal/cart"
	"storefront/internal/client"
	"storefront/internal/domain"
	"storefront/internal/session"
)

var (
	// ErrEmptyCart rejects a submit with nothing in the cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrAuthRequired rejects a submit without an active session.
	ErrAuthRequired = errors.New("sign in to place an order")
	// ErrIncompleteAddress rejects a submit with missing address fields.
	ErrIncompleteAddress = errors.New("shipping address is incomplete")
	// ErrSubmitInFlight rejects a submit while another one is running.
	ErrSubmitInFlight = errors.New("order submission already in progress")
)

// State is the submission state of the flow.
type State int

const (
	Idle State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

type orderPlacer interface {
	CreateOrder(ctx context.Context, req client.OrderRequest) (string, error)
}

// Flow owns one checkout attempt at a time over a cart and session.
type Flow struct {
	mu      sync.Mutex
	state   State
	api     orderPlacer
	cart    *cart.Store
	session *session.Holder
	logger  *log.Logger
}

func NewFlow(api orderPlacer, cartStore *cart.Store, sess *session.Holder, logger *log.Logger) *Flow {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Flow{
		state:   Idle,
		api:     api,
		cart:    cartStore,
		session: sess,
		logger:  logger,
	}
}

// State returns the current submission state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Submit places an order for the current cart. On success the cart is
// cleared; on failure it is left untouched so the user can retry. A
// concurrent submit is rejected without disturbing the running one.
func (f *Flow) Submit(ctx context.Context, addr domain.ShippingAddress) (string, error) {
	f.mu.Lock()
	if f.state == Submitting {
		f.mu.Unlock()
		return "", ErrSubmitInFlight
	}

	items := f.cart.Items()
	if len(items) == 0 {
		f.state = Failed
		f.mu.Unlock()
		return "", ErrEmptyCart
	}
	if !f.session.Active() {
		f.state = Failed
		f.mu.Unlock()
		return "", ErrAuthRequired
	}
	if !addressComplete(addr) {
		f.state = Failed
		f.mu.Unlock()
		return "", ErrIncompleteAddress
	}

	f.state = Submitting
	f.mu.Unlock()

	totals := cart.TotalsFor(items)
	req := client.OrderRequest{
		Items:           orderItems(items),
		ShippingAddress: addr,
		TotalPrice:      totals.Total,
	}

	orderID, err := f.api.CreateOrder(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = Failed
		f.logger.Printf("checkout: submit failed: %v", err)
		return "", err
	}

	f.cart.Clear()
	f.state = Succeeded
	return orderID, nil
}

// Reset returns the flow to Idle so a new checkout can start.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Submitting {
		f.state = Idle
	}
}

func orderItems(items []cart.LineItem) []domain.OrderItem {
	out := make([]domain.OrderItem, 0, len(items))
	for _, li := range items {
		out = append(out, domain.OrderItem{
			ProductID:  li.ProductID,
			Name:       li.Name,
			VariantKey: li.VariantKey,
			Quantity:   li.Quantity,
			UnitPrice:  li.UnitPrice,
		})
	}
	return out
}

func addressComplete(a domain.ShippingAddress) bool {
	return a.FullName != "" && a.Address != "" && a.City != "" &&
		a.PostalCode != "" && a.Phone != ""
}
