package application

import (
	"context"
	"errors"
	"strings"
	"time"

	manifest "erj-server/internal/manifest/domain"
	"erj-server/internal/observability/metrics"
)

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// EntryInput is a rolling-stock entry as submitted by an operator. Numeric
// fields arrive as free-form strings and are coerced, never rejected; the
// kind is the only validated field.
type EntryInput struct {
	Kind               string `json:"kind"`
	Identifier         string `json:"identifier"`
	CountryCode        string `json:"country_code"`
	OperatorCode       string `json:"operator_code"`
	SeriesOrType       string `json:"series_or_type"`
	ClassificationCode string `json:"classification_code"`
	Length             string `json:"length"`
	EmptyMass          string `json:"empty_mass"`
	PayloadMass        string `json:"payload_mass"`
	BrakeMass          string `json:"brake_mass"`
	OriginStation      string `json:"origin_station"`
	DestinationStation string `json:"destination_station"`
	Notes              string `json:"notes"`
}

// ReportService handles report workflows over a pluggable store.
type ReportService struct {
	repo            manifest.Repository
	clock           Clock
	defaultCountry  string
	defaultOperator string
}

// Option configures a ReportService.
type Option func(*ReportService)

// WithDefaultCountry sets the country code seeded on new entries.
func WithDefaultCountry(code string) Option {
	return func(s *ReportService) { s.defaultCountry = code }
}

// WithDefaultOperator sets the operator code seeded on new entries.
func WithDefaultOperator(code string) Option {
	return func(s *ReportService) { s.defaultOperator = code }
}

// NewReportService constructs a service.
func NewReportService(repo manifest.Repository, clock Clock, opts ...Option) (*ReportService, error) {
	if repo == nil {
		return nil, errors.New("report service: nil repo")
	}
	if clock == nil {
		return nil, errors.New("report service: nil clock")
	}
	s := &ReportService{repo: repo, clock: clock}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create allocates the next report number and persists an empty report.
func (s *ReportService) Create(ctx context.Context, crew manifest.Crew) (*manifest.Report, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveReportCreate(result, time.Since(start))
	}()

	if crew.Name == "" || crew.ID == "" {
		result = metrics.ResultError
		return nil, errors.New("report service: crew name and id required")
	}
	sequence, err := s.repo.NextSequence(ctx)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	now := s.clock.Now()
	report := &manifest.Report{
		Number:        manifest.BuildReportNumber(sequence, now),
		CreatedAt:     now,
		CreatedBy:     crew,
		CurrentDriver: crew,
		SectionA:      manifest.SectionA{Date: now.Format("2006-01-02")},
		Entries:       []manifest.RollingStockEntry{},
	}
	if err := s.repo.Save(ctx, report); err != nil {
		result = metrics.ResultError
		return nil, err
	}
	return report, nil
}

// Get loads a report by slug.
func (s *ReportService) Get(ctx context.Context, id string) (*manifest.Report, error) {
	return s.repo.Get(ctx, id)
}

// List returns all reports.
func (s *ReportService) List(ctx context.Context) ([]*manifest.Report, error) {
	return s.repo.List(ctx)
}

// AddEntry coerces the input, appends the entry, recomputes the analysis
// and persists. A failed save leaves the report unsaved but valid; the
// caller may retry against the same state.
func (s *ReportService) AddEntry(ctx context.Context, id string, input EntryInput) (*manifest.Report, error) {
	kind, err := manifest.ParseVehicleKind(strings.TrimSpace(input.Kind))
	if err != nil {
		return nil, err
	}
	report, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	entry := manifest.RollingStockEntry{
		Kind:               kind,
		Identifier:         strings.TrimSpace(input.Identifier),
		CountryCode:        strings.TrimSpace(input.CountryCode),
		OperatorCode:       strings.TrimSpace(input.OperatorCode),
		SeriesOrType:       strings.TrimSpace(input.SeriesOrType),
		ClassificationCode: strings.TrimSpace(input.ClassificationCode),
		LengthMeters:       manifest.ParseQuantity(input.Length),
		EmptyMassTons:      manifest.ParseQuantity(input.EmptyMass),
		PayloadMassTons:    manifest.ParseQuantity(input.PayloadMass),
		BrakeMassTons:      manifest.ParseQuantity(input.BrakeMass),
		OriginStation:      strings.TrimSpace(input.OriginStation),
		DestinationStation: strings.TrimSpace(input.DestinationStation),
		Notes:              input.Notes,
	}
	if entry.CountryCode == "" {
		entry.CountryCode = s.defaultCountry
	}
	if entry.OperatorCode == "" {
		entry.OperatorCode = s.defaultOperator
	}
	report.AddEntry(entry)
	report.RefreshAnalysis()
	if err := s.repo.Save(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// RemoveEntry removes one entry by index, recomputes and persists. The
// operation is destructive and has no undo; callers are expected to confirm
// first.
func (s *ReportService) RemoveEntry(ctx context.Context, id string, index int) (*manifest.Report, error) {
	report, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := report.RemoveEntry(index); err != nil {
		return nil, err
	}
	report.RefreshAnalysis()
	if err := s.repo.Save(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// UpdateEntryNotes edits the notes of one entry in place and persists.
func (s *ReportService) UpdateEntryNotes(ctx context.Context, id string, index int, notes string) (*manifest.Report, error) {
	report, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := report.UpdateEntryNotes(index, notes); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// Analyze recomputes the composition summary, caches it on the report and
// persists the snapshot.
func (s *ReportService) Analyze(ctx context.Context, id string) (manifest.AnalysisResult, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveAnalyze(result, time.Since(start))
	}()

	report, err := s.repo.Get(ctx, id)
	if err != nil {
		result = metrics.ResultError
		return manifest.AnalysisResult{}, err
	}
	analysis := report.RefreshAnalysis()
	if err := s.repo.Save(ctx, report); err != nil {
		result = metrics.ResultError
		return manifest.AnalysisResult{}, err
	}
	return analysis, nil
}

// SetMetadata stores the manifest trip metadata and section A fields.
func (s *ReportService) SetMetadata(ctx context.Context, id string, meta manifest.ManifestMetadata, sectionA manifest.SectionA) (*manifest.Report, error) {
	report, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	report.Metadata = &meta
	if sectionA.TrainNumber != "" {
		report.SectionA.TrainNumber = sectionA.TrainNumber
	}
	if sectionA.Date != "" {
		report.SectionA.Date = sectionA.Date
	}
	if err := s.repo.Save(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// TakeOver hands a report over to another crew member, matched by the exact
// train number and, when given, the departure date. Substring matching is
// deliberately not used: train "12" must never match train "212".
func (s *ReportService) TakeOver(ctx context.Context, trainNumber, date string, crew manifest.Crew) (*manifest.Report, error) {
	result := metrics.ResultSuccess
	defer func() {
		metrics.IncReportTakeover(result)
	}()

	trainNumber = strings.TrimSpace(trainNumber)
	if trainNumber == "" {
		result = metrics.ResultError
		return nil, errors.New("report service: train number required")
	}
	reports, err := s.repo.List(ctx)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	var found *manifest.Report
	for _, report := range reports {
		if report.SectionA.TrainNumber != trainNumber {
			continue
		}
		if date != "" && report.SectionA.Date != date {
			continue
		}
		found = report
		break
	}
	if found == nil {
		result = metrics.ResultError
		return nil, manifest.ErrReportNotFound
	}
	found.TakenBy = &manifest.Takeover{Name: crew.Name, ID: crew.ID, At: s.clock.Now()}
	found.CurrentDriver = crew
	if err := s.repo.Save(ctx, found); err != nil {
		result = metrics.ResultError
		return nil, err
	}
	return found, nil
}
