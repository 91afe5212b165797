package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	discounts "erj-server/internal/discounts/domain"
)

const registryFile = "discounts.json"

// Store keeps the discount registry as one JSON document under a storage
// root. A root with no document reads as the statutory seed, matching the
// browser-local behavior of the original field application.
type Store struct {
	mu   sync.Mutex
	root string
}

// NewStore constructs a store rooted at the given directory, creating it
// when absent.
func NewStore(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("localstore: storage root required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

// List returns the registry in order, seeding it when no document exists.
func (s *Store) List(ctx context.Context) ([]discounts.Discount, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Get returns one discount by code.
func (s *Store) Get(ctx context.Context, code string) (discounts.Discount, error) {
	_ = ctx
	if strings.TrimSpace(code) == "" {
		return discounts.Discount{}, discounts.ErrEmptyCode
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load()
	if err != nil {
		return discounts.Discount{}, err
	}
	for _, entry := range entries {
		if entry.Code == code {
			return entry, nil
		}
	}
	return discounts.Discount{}, discounts.ErrDiscountNotFound
}

// Upsert updates an entry in place or appends a new one.
func (s *Store) Upsert(ctx context.Context, discount discounts.Discount) error {
	_ = ctx
	if err := discount.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load()
	if err != nil {
		return err
	}
	replaced := false
	for i, entry := range entries {
		if entry.Code == discount.Code {
			entries[i] = discount
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, discount)
	}
	return s.write(entries)
}

// Replace swaps the whole registry.
func (s *Store) Replace(ctx context.Context, entries []discounts.Discount) error {
	_ = ctx
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(entries)
}

// Reset restores the statutory seed and returns it.
func (s *Store) Reset(ctx context.Context) ([]discounts.Discount, error) {
	_ = ctx
	seed := discounts.Seed()
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(seed); err != nil {
		return nil, err
	}
	return seed, nil
}

func (s *Store) load() ([]discounts.Discount, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return discounts.Seed(), nil
		}
		return nil, err
	}
	var entries []discounts.Discount
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// write is atomic: temp file renamed over the previous document.
func (s *Store) write(entries []discounts.Discount) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	path := s.path()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *Store) path() string {
	return filepath.Join(s.root, registryFile)
}
