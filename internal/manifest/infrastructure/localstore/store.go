package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	manifest "erj-server/internal/manifest/domain"
)

const (
	reportsDir  = "reports"
	counterFile = "counter"
)

// Store is the local key-value backend: one JSON document per report under
// a storage root, plus a counter file for the report sequence. It mirrors
// the browser-local persistence mode of the original field application.
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
	if err := os.MkdirAll(filepath.Join(root, reportsDir), 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

// Save upserts a report document by slug. The write is atomic: a temp file
// is renamed over the previous document, so a failed save never corrupts
// the stored copy.
func (s *Store) Save(ctx context.Context, report *manifest.Report) error {
	_ = ctx
	if report == nil {
		return manifest.ErrNilReport
	}
	if report.Number == "" {
		return manifest.ErrEmptyReportID
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.reportPath(report.ID())
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Get loads a report by slug.
func (s *Store) Get(ctx context.Context, id string) (*manifest.Report, error) {
	_ = ctx
	if id == "" {
		return nil, manifest.ErrEmptyReportID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.reportPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, manifest.ErrReportNotFound
		}
		return nil, err
	}
	var report manifest.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// List returns all stored reports ordered by number.
func (s *Store) List(ctx context.Context) ([]*manifest.Report, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := os.ReadDir(filepath.Join(s.root, reportsDir))
	if err != nil {
		return nil, err
	}
	var result []*manifest.Report
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.root, reportsDir, entry.Name()))
		if err != nil {
			return nil, err
		}
		var report manifest.Report
		if err := json.Unmarshal(data, &report); err != nil {
			return nil, err
		}
		result = append(result, &report)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result, nil
}

// NextSequence increments and returns the report counter.
func (s *Store) NextSequence(ctx context.Context) (int, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	path := filepath.Join(s.root, counterFile)
	current := 0
	data, err := os.ReadFile(path)
	if err == nil {
		parsed, parseErr := strconv.Atoi(strings.TrimSpace(string(data)))
		if parseErr == nil {
			current = parsed
		}
	} else if !os.IsNotExist(err) {
		return 0, err
	}
	current++
	if err := os.WriteFile(path, []byte(strconv.Itoa(current)), 0o644); err != nil {
		return 0, err
	}
	return current, nil
}

func (s *Store) reportPath(id string) string {
	return filepath.Join(s.root, reportsDir, id+".json")
}
