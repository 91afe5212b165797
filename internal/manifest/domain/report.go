package manifest

import (
	"fmt"
	"strings"
	"time"
)

// Takeover records a handover of a report to another crew member.
type Takeover struct {
	Name string    `json:"name" bson:"name"`
	ID   string    `json:"id" bson:"id"`
	At   time.Time `json:"at" bson:"at"`
}

// Report is one train-composition report. The entry sequence is ordered;
// insertion order is the printed line order on the R-7 form.
type Report struct {
	Number        string              `json:"number" bson:"number"`
	CreatedAt     time.Time           `json:"created_at" bson:"created_at"`
	CreatedBy     Crew                `json:"created_by" bson:"created_by"`
	CurrentDriver Crew                `json:"current_driver" bson:"current_driver"`
	TakenBy       *Takeover           `json:"taken_by,omitempty" bson:"taken_by,omitempty"`
	SectionA      SectionA            `json:"section_a" bson:"section_a"`
	Entries       []RollingStockEntry `json:"entries" bson:"entries"`
	Metadata      *ManifestMetadata   `json:"metadata,omitempty" bson:"metadata,omitempty"`
	Analysis      *AnalysisResult     `json:"analysis,omitempty" bson:"analysis,omitempty"`
}

// BuildReportNumber formats a report number as XXX/DD/MM/YY from the store
// sequence and the creation day.
func BuildReportNumber(sequence int, createdAt time.Time) string {
	return fmt.Sprintf("%03d/%02d/%02d/%02d",
		sequence, createdAt.Day(), int(createdAt.Month()), createdAt.Year()%100)
}

// Slug returns the stable storage identifier for a report number. The
// display number carries slashes, which cannot appear in URL path segments
// or filenames.
func Slug(number string) string {
	return strings.ReplaceAll(number, "/", "-")
}

// ID returns the report's storage identifier.
func (r *Report) ID() string {
	return Slug(r.Number)
}

// AddEntry appends an entry to the end of the sequence, preserving print
// order. Partially filled entries are accepted as-is.
func (r *Report) AddEntry(entry RollingStockEntry) {
	r.Entries = append(r.Entries, entry)
}

// RemoveEntry removes exactly one entry, shifting later line numbers down.
// An out-of-range index is a caller error; clamping would delete the wrong
// vehicle.
func (r *Report) RemoveEntry(index int) error {
	if index < 0 || index >= len(r.Entries) {
		return ErrInvalidIndex
	}
	r.Entries = append(r.Entries[:index], r.Entries[index+1:]...)
	return nil
}

// UpdateEntryNotes replaces the notes text of one entry in place. Notes do
// not participate in the analysis.
func (r *Report) UpdateEntryNotes(index int, notes string) error {
	if index < 0 || index >= len(r.Entries) {
		return ErrInvalidIndex
	}
	r.Entries[index].Notes = notes
	return nil
}

// ComputeAnalysis derives the current composition summary. The result is
// deterministic for an unchanged entry sequence; callers must recompute
// after every add or remove since the cached copy is advisory only.
func (r *Report) ComputeAnalysis() AnalysisResult {
	return ComputeAnalysis(r.Entries)
}

// RefreshAnalysis recomputes the summary and caches it on the report.
func (r *Report) RefreshAnalysis() AnalysisResult {
	analysis := r.ComputeAnalysis()
	r.Analysis = &analysis
	return analysis
}
