package memory

import (
	"context"
	"sort"
	"sync"

	manifest "erj-server/internal/manifest/domain"
)

// Repository is an in-memory report store for demo/testing.
type Repository struct {
	mu       sync.RWMutex
	reports  map[string]manifest.Report
	sequence int
}

// NewRepository constructs a repository.
func NewRepository() *Repository {
	return &Repository{reports: make(map[string]manifest.Report)}
}

// Save upserts a report by its slug. Saving the same report twice is a
// no-op beyond replacing the stored copy.
func (r *Repository) Save(ctx context.Context, report *manifest.Report) error {
	_ = ctx
	if report == nil {
		return manifest.ErrNilReport
	}
	if report.Number == "" {
		return manifest.ErrEmptyReportID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[report.ID()] = *report
	return nil
}

// Get loads a report by slug.
func (r *Repository) Get(ctx context.Context, id string) (*manifest.Report, error) {
	_ = ctx
	if id == "" {
		return nil, manifest.ErrEmptyReportID
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, manifest.ErrReportNotFound
	}
	return &report, nil
}

// List returns all reports ordered by number.
func (r *Repository) List(ctx context.Context) ([]*manifest.Report, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*manifest.Report, 0, len(r.reports))
	for key := range r.reports {
		report := r.reports[key]
		result = append(result, &report)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result, nil
}

// NextSequence increments and returns the report counter.
func (r *Repository) NextSequence(ctx context.Context) (int, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sequence++
	return r.sequence, nil
}
