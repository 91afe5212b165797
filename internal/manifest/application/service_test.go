package application

import (
	"context"
	"errors"
	"testing"
	"time"

	manifest "erj-server/internal/manifest/domain"
	"erj-server/internal/manifest/infrastructure/memory"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func newTestService(t *testing.T) (*ReportService, *memory.Repository) {
	t.Helper()
	repo := memory.NewRepository()
	clock := fixedClock{now: time.Date(2025, time.June, 7, 14, 30, 0, 0, time.UTC)}
	svc, err := NewReportService(repo, clock,
		WithDefaultCountry("51"),
		WithDefaultOperator("PL-RJ"),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func TestCreateAssignsSequentialNumbers(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	crew := manifest.Crew{Name: "Jan Kowalski", ID: "MK-104"}

	first, err := svc.Create(ctx, crew)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.Number != "001/07/06/25" {
		t.Fatalf("first number: got %q, want 001/07/06/25", first.Number)
	}
	second, err := svc.Create(ctx, crew)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if second.Number != "002/07/06/25" {
		t.Fatalf("second number: got %q", second.Number)
	}
	if first.SectionA.Date != "2025-06-07" {
		t.Fatalf("section A date: got %q", first.SectionA.Date)
	}
	if first.CurrentDriver != crew || first.CreatedBy != crew {
		t.Fatalf("crew not stamped: %+v", first)
	}
}

func TestCreateRequiresCrew(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Create(context.Background(), manifest.Crew{}); err == nil {
		t.Fatal("expected error for empty crew")
	}
}

func TestAddEntryCoercesAndDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	report, err := svc.Create(ctx, manifest.Crew{Name: "Jan", ID: "MK-104"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.AddEntry(ctx, report.ID(), EntryInput{
		Kind:       "wagon",
		Identifier: " 61 51 20-70 200-9 ",
		Length:     "24,5",
		EmptyMass:  "38",
		BrakeMass:  "not a number",
	})
	if err != nil {
		t.Fatalf("add entry: %v", err)
	}
	entry := updated.Entries[0]
	if entry.LengthMeters != 24.5 {
		t.Fatalf("comma decimal not coerced: %v", entry.LengthMeters)
	}
	if entry.BrakeMassTons != 0 {
		t.Fatalf("garbage mass should coerce to zero: %v", entry.BrakeMassTons)
	}
	if entry.Identifier != "61 51 20-70 200-9" {
		t.Fatalf("identifier not trimmed: %q", entry.Identifier)
	}
	if entry.CountryCode != "51" || entry.OperatorCode != "PL-RJ" {
		t.Fatalf("defaults not applied: %q %q", entry.CountryCode, entry.OperatorCode)
	}
	if updated.Analysis == nil || updated.Analysis.WagonMassTons != 38 {
		t.Fatalf("analysis not refreshed on add: %+v", updated.Analysis)
	}
}

func TestAddEntryRejectsUnknownKind(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	report, err := svc.Create(ctx, manifest.Crew{Name: "Jan", ID: "MK-104"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.AddEntry(ctx, report.ID(), EntryInput{Kind: "tender"}); !errors.Is(err, manifest.ErrInvalidVehicleKind) {
		t.Fatalf("got %v, want ErrInvalidVehicleKind", err)
	}
}

func TestRemoveEntryRefreshesAnalysis(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	report, err := svc.Create(ctx, manifest.Crew{Name: "Jan", ID: "MK-104"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := report.ID()
	if _, err := svc.AddEntry(ctx, id, EntryInput{Kind: "wagon", EmptyMass: "20"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddEntry(ctx, id, EntryInput{Kind: "wagon", EmptyMass: "30"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	updated, err := svc.RemoveEntry(ctx, id, 0)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(updated.Entries) != 1 || updated.Entries[0].EmptyMassTons != 30 {
		t.Fatalf("wrong entry removed: %+v", updated.Entries)
	}
	if updated.Analysis.WagonMassTons != 30 {
		t.Fatalf("analysis stale after removal: %+v", updated.Analysis)
	}

	if _, err := svc.RemoveEntry(ctx, id, 5); !errors.Is(err, manifest.ErrInvalidIndex) {
		t.Fatalf("got %v, want ErrInvalidIndex", err)
	}
}

func TestUpdateEntryNotesPersists(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	report, err := svc.Create(ctx, manifest.Crew{Name: "Jan", ID: "MK-104"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := report.ID()
	if _, err := svc.AddEntry(ctx, id, EntryInput{Kind: "locomotive"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.UpdateEntryNotes(ctx, id, 0, "rewizja P1"); err != nil {
		t.Fatalf("update notes: %v", err)
	}
	loaded, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Entries[0].Notes != "rewizja P1" {
		t.Fatalf("notes not persisted: %q", loaded.Entries[0].Notes)
	}
}

func TestAnalyzePersistsSnapshot(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	report, err := svc.Create(ctx, manifest.Crew{Name: "Jan", ID: "MK-104"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := report.ID()
	if _, err := svc.AddEntry(ctx, id, EntryInput{Kind: "locomotive", EmptyMass: "80", BrakeMass: "80", Length: "20"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	analysis, err := svc.Analyze(ctx, id)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if analysis.LocomotiveMassTons != 80 || analysis.TotalBrakePercent != 100 {
		t.Fatalf("unexpected analysis: %+v", analysis)
	}
	loaded, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Analysis == nil || *loaded.Analysis != analysis {
		t.Fatalf("snapshot not persisted: %+v", loaded.Analysis)
	}
}

func TestSetMetadata(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	report, err := svc.Create(ctx, manifest.Crew{Name: "Jan", ID: "MK-104"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := svc.SetMetadata(ctx, report.ID(),
		manifest.ManifestMetadata{FromStation: "Skierniewice", ToStation: "Łowicz Główny", DriverName: "Jan"},
		manifest.SectionA{TrainNumber: "16102"},
	)
	if err != nil {
		t.Fatalf("set metadata: %v", err)
	}
	if updated.Metadata == nil || updated.Metadata.ToStation != "Łowicz Główny" {
		t.Fatalf("metadata not stored: %+v", updated.Metadata)
	}
	if updated.SectionA.TrainNumber != "16102" {
		t.Fatalf("train number not stored: %+v", updated.SectionA)
	}
	if updated.SectionA.Date != "2025-06-07" {
		t.Fatalf("date overwritten by empty value: %q", updated.SectionA.Date)
	}
}

func TestTakeOverMatchesExactTrainNumber(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	crew := manifest.Crew{Name: "Jan", ID: "MK-104"}

	short, err := svc.Create(ctx, crew)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	long, err := svc.Create(ctx, crew)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.SetMetadata(ctx, short.ID(), manifest.ManifestMetadata{}, manifest.SectionA{TrainNumber: "12"}); err != nil {
		t.Fatalf("set metadata: %v", err)
	}
	if _, err := svc.SetMetadata(ctx, long.ID(), manifest.ManifestMetadata{}, manifest.SectionA{TrainNumber: "212"}); err != nil {
		t.Fatalf("set metadata: %v", err)
	}

	next := manifest.Crew{Name: "Anna Nowak", ID: "MK-221"}
	taken, err := svc.TakeOver(ctx, "12", "", next)
	if err != nil {
		t.Fatalf("take over: %v", err)
	}
	if taken.Number != short.Number {
		t.Fatalf("matched wrong report: got %q, want %q", taken.Number, short.Number)
	}
	if taken.TakenBy == nil || taken.TakenBy.ID != "MK-221" {
		t.Fatalf("takeover not stamped: %+v", taken.TakenBy)
	}
	if taken.CurrentDriver != next {
		t.Fatalf("current driver not updated: %+v", taken.CurrentDriver)
	}
}

func TestTakeOverFiltersByDate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	crew := manifest.Crew{Name: "Jan", ID: "MK-104"}

	report, err := svc.Create(ctx, crew)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.SetMetadata(ctx, report.ID(), manifest.ManifestMetadata{}, manifest.SectionA{TrainNumber: "16102", Date: "2025-06-07"}); err != nil {
		t.Fatalf("set metadata: %v", err)
	}

	next := manifest.Crew{Name: "Anna", ID: "MK-221"}
	if _, err := svc.TakeOver(ctx, "16102", "2025-06-08", next); !errors.Is(err, manifest.ErrReportNotFound) {
		t.Fatalf("date mismatch should not match: %v", err)
	}
	if _, err := svc.TakeOver(ctx, "16102", "2025-06-07", next); err != nil {
		t.Fatalf("matching date failed: %v", err)
	}
}

func TestTakeOverUnknownTrain(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.TakeOver(context.Background(), "99999", "", manifest.Crew{Name: "Anna", ID: "MK-221"}); !errors.Is(err, manifest.ErrReportNotFound) {
		t.Fatalf("got %v, want ErrReportNotFound", err)
	}
}
