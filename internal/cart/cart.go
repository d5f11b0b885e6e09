package cart

import (
	"io"
	"log"
	"sync"
)

// LineItem is a single cart line. Lines for the same product but a
// different variant stay separate.
type LineItem struct {
	ProductID  string `json:"productId"`
	VariantKey string `json:"variantKey,omitempty"`
	Name       string `json:"name"`
	Image      string `json:"image,omitempty"`
	UnitPrice  int64  `json:"unitPrice"`
	Quantity   int    `json:"quantity"`
}

func (li LineItem) key() lineKey {
	return lineKey{productID: li.ProductID, variantKey: li.VariantKey}
}

type lineKey struct {
	productID  string
	variantKey string
}

// Store holds the cart state and writes every change through to storage.
// Mutations never fail; a storage error only loses persistence and is
// logged, the in-memory cart stays consistent.
type Store struct {
	mu      sync.Mutex
	items   []LineItem
	storage Storage
	logger  *log.Logger
}

// NewStore loads any persisted cart from storage. A load error starts
// the cart empty rather than failing.
func NewStore(storage Storage, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Store{storage: storage, logger: logger}
	if storage != nil {
		items, err := storage.Load()
		if err != nil {
			logger.Printf("cart: load failed, starting empty: %v", err)
		} else {
			s.items = items
		}
	}
	return s
}

// Add puts an item in the cart. An existing line with the same product
// and variant absorbs the quantity instead of creating a duplicate.
func (s *Store) Add(item LineItem) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].key() == item.key() {
			s.items[i].Quantity += item.Quantity
			s.persistLocked()
			return
		}
	}
	s.items = append(s.items, item)
	s.persistLocked()
}

// SetQuantity replaces the quantity of an existing line. A quantity of
// zero or less removes the line. Unknown lines are ignored.
func (s *Store) SetQuantity(productID, variantKey string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := lineKey{productID: productID, variantKey: variantKey}
	for i := range s.items {
		if s.items[i].key() != key {
			continue
		}
		if qty <= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		} else {
			s.items[i].Quantity = qty
		}
		s.persistLocked()
		return
	}
}

// Remove drops a line from the cart. Removing an absent line is a no-op.
func (s *Store) Remove(productID, variantKey string) {
	s.SetQuantity(productID, variantKey, 0)
}

// Clear empties the cart and deletes the persisted copy.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	if s.storage == nil {
		return
	}
	if err := s.storage.Delete(); err != nil {
		s.logger.Printf("cart: clear storage failed: %v", err)
	}
}

// Items returns a copy of the current cart lines.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len reports the number of distinct lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) persistLocked() {
	if s.storage == nil {
		return
	}
	if err := s.storage.Save(s.items); err != nil {
		s.logger.Printf("cart: save failed: %v", err)
	}
}
