package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	manifest "erj-server/internal/manifest/domain"
)

const (
	reportsCollection  = "reports"
	countersCollection = "counters"
	reportCounterID    = "reports"
)

// Repository is the remote document-store backend for reports.
type Repository struct {
	reports  *mongodriver.Collection
	counters *mongodriver.Collection
}

// NewRepository constructs a repository over the given database.
func NewRepository(db *mongodriver.Database) (*Repository, error) {
	if db == nil {
		return nil, errors.New("mongo repo: nil database")
	}
	return &Repository{
		reports:  db.Collection(reportsCollection),
		counters: db.Collection(countersCollection),
	}, nil
}

// EnsureIndexes creates the slug index used for upserts and lookups.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.reports.Indexes().CreateOne(ctx, mongodriver.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

type reportDocument struct {
	Slug   string          `bson:"slug"`
	Report manifest.Report `bson:"report"`
}

// Save upserts a report document by slug; replaying the same save is
// idempotent.
func (r *Repository) Save(ctx context.Context, report *manifest.Report) error {
	if report == nil {
		return manifest.ErrNilReport
	}
	if report.Number == "" {
		return manifest.ErrEmptyReportID
	}
	doc := reportDocument{Slug: report.ID(), Report: *report}
	_, err := r.reports.ReplaceOne(ctx, bson.M{"slug": doc.Slug}, doc, options.Replace().SetUpsert(true))
	return err
}

// Get loads a report by slug.
func (r *Repository) Get(ctx context.Context, id string) (*manifest.Report, error) {
	if id == "" {
		return nil, manifest.ErrEmptyReportID
	}
	var doc reportDocument
	err := r.reports.FindOne(ctx, bson.M{"slug": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, manifest.ErrReportNotFound
		}
		return nil, err
	}
	report := doc.Report
	return &report, nil
}

// List returns all reports ordered by number.
func (r *Repository) List(ctx context.Context) ([]*manifest.Report, error) {
	cursor, err := r.reports.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "report.number", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var result []*manifest.Report
	for cursor.Next(ctx) {
		var doc reportDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		report := doc.Report
		result = append(result, &report)
	}
	return result, cursor.Err()
}

// NextSequence atomically increments and returns the report counter.
func (r *Repository) NextSequence(ctx context.Context) (int, error) {
	var doc struct {
		Value int `bson:"value"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": reportCounterID},
		bson.M{"$inc": bson.M{"value": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Value, nil
}
