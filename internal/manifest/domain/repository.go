package manifest

import "context"

// Repository persists reports. Save is an upsert keyed by the report slug
// and must be idempotent under identical input; a failed save leaves the
// in-memory report untouched and re-saveable.
type Repository interface {
	Save(ctx context.Context, report *Report) error
	Get(ctx context.Context, id string) (*Report, error)
	List(ctx context.Context) ([]*Report, error)
	NextSequence(ctx context.Context) (int, error)
}
