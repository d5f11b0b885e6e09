package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// Storage persists cart lines between runs.
type Storage interface {
	Load() ([]LineItem, error)
	Save(items []LineItem) error
	Delete() error
}

// FileStorage keeps the cart as a JSON array in a single file.
type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (f *FileStorage) Load() ([]LineItem, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cart file: %w", err)
	}

	var items []LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode cart file: %w", err)
	}
	return items, nil
}

func (f *FileStorage) Save(items []LineItem) error {
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := os.WriteFile(f.path, raw, 0o600); err != nil {
		return fmt.Errorf("write cart file: %w", err)
	}
	return nil
}

func (f *FileStorage) Delete() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove cart file: %w", err)
	}
	return nil
}

// MemoryStorage is an in-memory Storage, mainly for tests.
type MemoryStorage struct {
	mu    sync.Mutex
	items []LineItem
	set   bool
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load() ([]LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return nil, nil
	}
	out := make([]LineItem, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *MemoryStorage) Save(items []LineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make([]LineItem, len(items))
	copy(m.items, items)
	m.set = true
	return nil
}

func (m *MemoryStorage) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	m.set = false
	return nil
}
