package mongo

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	discounts "erj-server/internal/discounts/domain"
)

const (
	registriesCollection = "registries"
	registryID           = "discounts"
)

// Store keeps the discount registry as a single document so registry order
// survives round trips, mirroring the whole-array writes of the original
// field application.
type Store struct {
	registries *mongodriver.Collection
}

// NewStore constructs a store over the given database.
func NewStore(db *mongodriver.Database) (*Store, error) {
	if db == nil {
		return nil, errors.New("mongo discounts: nil database")
	}
	return &Store{registries: db.Collection(registriesCollection)}, nil
}

type registryDocument struct {
	ID      string               `bson:"_id"`
	Entries []discounts.Discount `bson:"entries"`
}

// List returns the registry in order, seeding it when no document exists.
func (s *Store) List(ctx context.Context) ([]discounts.Discount, error) {
	return s.load(ctx)
}

// Get returns one discount by code.
func (s *Store) Get(ctx context.Context, code string) (discounts.Discount, error) {
	if strings.TrimSpace(code) == "" {
		return discounts.Discount{}, discounts.ErrEmptyCode
	}
	entries, err := s.load(ctx)
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
	if err := discount.Validate(); err != nil {
		return err
	}
	entries, err := s.load(ctx)
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
	return s.write(ctx, entries)
}

// Replace swaps the whole registry.
func (s *Store) Replace(ctx context.Context, entries []discounts.Discount) error {
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return err
		}
	}
	return s.write(ctx, entries)
}

// Reset restores the statutory seed and returns it.
func (s *Store) Reset(ctx context.Context) ([]discounts.Discount, error) {
	seed := discounts.Seed()
	if err := s.write(ctx, seed); err != nil {
		return nil, err
	}
	return seed, nil
}

func (s *Store) load(ctx context.Context) ([]discounts.Discount, error) {
	var doc registryDocument
	err := s.registries.FindOne(ctx, bson.M{"_id": registryID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return discounts.Seed(), nil
		}
		return nil, err
	}
	return doc.Entries, nil
}

func (s *Store) write(ctx context.Context, entries []discounts.Discount) error {
	doc := registryDocument{ID: registryID, Entries: entries}
	_, err := s.registries.ReplaceOne(ctx, bson.M{"_id": registryID}, doc, options.Replace().SetUpsert(true))
	return err
}
