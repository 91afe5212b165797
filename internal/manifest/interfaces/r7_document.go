package interfaces

import (
	"fmt"
	"time"

	manifest "erj-server/internal/manifest/domain"
	"erj-server/internal/render"
)

// r7Widths are the relative detail-table column widths of the R-7 layout.
var r7Widths = []float64{3, 14, 6, 6, 12, 6, 7, 7, 7, 7, 8, 8, 10}

// BuildR7Document assembles the two-section R-7 manifest document from a
// report snapshot. Section 1 is the itemized vehicle table with the H1
// totals row, section 2 the analysis summary on its own page. The transform
// is stateless; rendering the same snapshot twice differs only in the
// generation timestamp.
func BuildR7Document(report *manifest.Report, generatedAt time.Time) render.Document {
	meta := manifest.ManifestMetadata{}
	if report.Metadata != nil {
		meta = *report.Metadata
	}
	// The totals row must agree with the analysis summary, so both come
	// from the same AnalysisResult instead of independent column sums.
	analysis := report.ComputeAnalysis()
	if report.Analysis != nil {
		analysis = *report.Analysis
	}

	return render.Document{
		Title: "Wykaz pojazdów kolejowych w składzie pociągu (R-7)",
		Sections: []render.Section{
			buildManifestSection(report, meta, analysis, generatedAt),
			buildAnalysisSection(analysis),
		},
	}
}

func buildManifestSection(report *manifest.Report, meta manifest.ManifestMetadata, analysis manifest.AnalysisResult, generatedAt time.Time) render.Section {
	header := render.Paragraph{Text: "Wykaz pojazdów kolejowych w składzie pociągu (R-7)", Bold: true}
	stamp := render.Paragraph{
		Text:  fmt.Sprintf("Nr dokumentu: %s · Data wydruku: %s", report.Number, generatedAt.Format("02.01.2006 15:04")),
		Small: true,
		Align: render.AlignRight,
	}

	tripInfo := render.Table{
		Widths: []float64{25, 25, 25, 25},
		Rows: []render.Row{
			{Cells: []render.Cell{
				{Text: "Nr pociągu: " + render.TextOrDash(report.SectionA.TrainNumber)},
				{Text: "Wyprawiony dnia: " + render.TextOrDash(report.SectionA.Date)},
				{Text: "Ze stacji: " + render.TextOrDash(meta.FromStation)},
				{Text: "Do stacji: " + render.TextOrDash(meta.ToStation)},
			}},
			{Cells: []render.Cell{
				{Text: "Maszynista: " + render.TextOrDash(meta.DriverName)},
				{Text: "Kierownik pociągu: " + render.TextOrDash(meta.ConductorName), Span: 3},
			}},
		},
	}

	detail := render.Table{Widths: r7Widths}
	detail.Rows = append(detail.Rows, render.Row{
		Shaded: true,
		Cells: []render.Cell{
			{Text: "Lp.", Align: render.AlignCenter},
			{Text: "Numer inw.", Align: render.AlignCenter},
			{Text: "Państwo", Align: render.AlignCenter},
			{Text: "Ekspl.", Align: render.AlignCenter},
			{Text: "Typ/seria", Align: render.AlignCenter},
			{Text: "Kod", Align: render.AlignCenter},
			{Text: "Długość (m)", Align: render.AlignCenter},
			{Text: "Masa ład. (t)", Align: render.AlignCenter},
			{Text: "Masa własna (t)", Align: render.AlignCenter},
			{Text: "Masa ham. (t)", Align: render.AlignCenter},
			{Text: "Stacja nadania", Align: render.AlignCenter},
			{Text: "Stacja przezn.", Align: render.AlignCenter},
			{Text: "Uwagi", Align: render.AlignCenter},
		},
	})
	for i, entry := range report.Entries {
		detail.Rows = append(detail.Rows, render.Row{Cells: []render.Cell{
			{Text: fmt.Sprintf("%d", i+1), Align: render.AlignCenter},
			{Text: render.TextOrDash(entry.Identifier)},
			{Text: render.TextOrDash(entry.CountryCode), Align: render.AlignCenter},
			{Text: render.TextOrDash(entry.OperatorCode), Align: render.AlignCenter},
			{Text: render.TextOrDash(entry.SeriesOrType)},
			{Text: render.TextOrDash(entry.ClassificationCode), Align: render.AlignCenter},
			{Text: render.FormatNumber(entry.LengthMeters), Align: render.AlignRight},
			{Text: render.FormatNumber(entry.PayloadMassTons), Align: render.AlignRight},
			{Text: render.FormatNumber(entry.EmptyMassTons), Align: render.AlignRight},
			{Text: render.FormatNumber(entry.BrakeMassTons), Align: render.AlignRight},
			{Text: render.TextOrDash(entry.OriginStation)},
			{Text: render.TextOrDash(entry.DestinationStation)},
			{Text: render.TextOrDash(entry.Notes)},
		}})
	}
	detail.Rows = append(detail.Rows, render.Row{
		Shaded: true,
		Cells: []render.Cell{
			{Text: "H1", Align: render.AlignCenter, Bold: true},
			{Text: "SUMA", Align: render.AlignCenter, Bold: true, Span: 6},
			{Text: render.FormatNumber(analysis.TotalPayloadMassTons), Align: render.AlignRight, Bold: true},
			{Text: render.FormatNumber(analysis.TotalEmptyMassTons), Align: render.AlignRight, Bold: true},
			{Text: render.FormatNumber(analysis.TotalBrakeMassTons), Align: render.AlignRight, Bold: true},
			{Text: render.FormatNumber(analysis.TotalLengthMeters), Align: render.AlignRight, Bold: true},
			{Text: "", Span: 2},
		},
	})

	footer := render.Paragraph{
		Text:  "Formularz wygenerowany przez system eRJ; układ zbliżony do wzoru R-7.",
		Small: true,
	}

	return render.Section{Elements: []render.Element{header, stamp, tripInfo, detail, footer}}
}

func buildAnalysisSection(analysis manifest.AnalysisResult) render.Section {
	title := render.Paragraph{Text: "Podsumowanie analizy", Bold: true}
	summary := render.Table{
		Widths: []float64{60, 40},
		Rows: []render.Row{
			analysisRow("Długość składu (m)", analysis.TotalLengthMeters),
			analysisRow("Masa składu (wagony) (t)", analysis.WagonMassTons),
			analysisRow("Masa pociągu (lokomotywy + wagony) (t)", analysis.TotalMassTons),
			analysisRow("Masa hamująca składu (wagony) (t)", analysis.WagonBrakeMassTons),
			analysisRow("Masa hamująca pociągu (t)", analysis.TotalBrakeMassTons),
			analysisRow("Procent rzeczywisty masy składu (%)", analysis.WagonBrakePercent),
			analysisRow("Procent rzeczywisty masy pociągu (%)", analysis.TotalBrakePercent),
		},
	}
	note := render.Paragraph{
		Text:  "Uwaga: wartości obliczone automatycznie na podstawie danych wprowadzonych do wykazu R-7.",
		Small: true,
	}
	return render.Section{Elements: []render.Element{title, summary, note}}
}

func analysisRow(label string, value float64) render.Row {
	return render.Row{Cells: []render.Cell{
		{Text: label},
		{Text: render.TextOrDash(render.FormatNumber(value)), Align: render.AlignRight},
	}}
}
