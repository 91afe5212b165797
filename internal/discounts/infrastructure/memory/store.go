package memory

import (
	"context"
	"strings"
	"sync"

	discounts "erj-server/internal/discounts/domain"
)

// Store is an in-memory discount registry, seeded with the statutory
// defaults. Registry order is preserved; upserts keep an entry's position.
type Store struct {
	mu      sync.RWMutex
	entries []discounts.Discount
}

// NewStore constructs a seeded store.
func NewStore() *Store {
	return &Store{entries: discounts.Seed()}
}

// List returns the registry in order.
func (s *Store) List(ctx context.Context) ([]discounts.Discount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]discounts.Discount, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// Get returns one discount by code.
func (s *Store) Get(ctx context.Context, code string) (discounts.Discount, error) {
	if strings.TrimSpace(code) == "" {
		return discounts.Discount{}, discounts.ErrEmptyCode
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, entry := range s.entries {
		if entry.Code == code {
			return entry, nil
		}
	}
	return discounts.Discount{}, discounts.ErrDiscountNotFound
}

// Upsert updates an entry in place or appends a new one.
func (s *Store) Upsert(ctx context.Context, discount discounts.Discount) error {
	if err := discount.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, entry := range s.entries {
		if entry.Code == discount.Code {
			s.entries[i] = discount
			return nil
		}
	}
	s.entries = append(s.entries, discount)
	return nil
}

// Replace swaps the whole registry.
func (s *Store) Replace(ctx context.Context, entries []discounts.Discount) error {
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return err
		}
	}
	replacement := make([]discounts.Discount, len(entries))
	copy(replacement, entries)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = replacement
	return nil
}

// Reset restores the statutory seed and returns it.
func (s *Store) Reset(ctx context.Context) ([]discounts.Discount, error) {
	seed := discounts.Seed()
	s.mu.Lock()
	s.entries = seed
	s.mu.Unlock()
	out := make([]discounts.Discount, len(seed))
	copy(out, seed)
	return out, nil
}
