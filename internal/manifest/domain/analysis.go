package manifest

// AnalysisResult is the derived train-composition summary. It is a pure
// function of the entry sequence; the copy cached on a report is a
// denormalized snapshot for display and printing, never the source of truth.
//
// TotalPayloadMassTons and TotalEmptyMassTons are the column sums repeated in
// the printed H1 totals row; keeping them here guarantees the totals row and
// the analysis summary can never drift apart.
type AnalysisResult struct {
	TotalLengthMeters       float64 `json:"total_length_meters" bson:"total_length_meters"`
	WagonMassTons           float64 `json:"wagon_mass_tons" bson:"wagon_mass_tons"`
	LocomotiveMassTons      float64 `json:"locomotive_mass_tons" bson:"locomotive_mass_tons"`
	TotalMassTons           float64 `json:"total_mass_tons" bson:"total_mass_tons"`
	WagonBrakeMassTons      float64 `json:"wagon_brake_mass_tons" bson:"wagon_brake_mass_tons"`
	LocomotiveBrakeMassTons float64 `json:"locomotive_brake_mass_tons" bson:"locomotive_brake_mass_tons"`
	TotalBrakeMassTons      float64 `json:"total_brake_mass_tons" bson:"total_brake_mass_tons"`
	WagonBrakePercent       float64 `json:"wagon_brake_percent" bson:"wagon_brake_percent"`
	TotalBrakePercent       float64 `json:"total_brake_percent" bson:"total_brake_percent"`
	TotalPayloadMassTons    float64 `json:"total_payload_mass_tons" bson:"total_payload_mass_tons"`
	TotalEmptyMassTons      float64 `json:"total_empty_mass_tons" bson:"total_empty_mass_tons"`
}

// ComputeAnalysis derives the composition summary from an entry sequence.
// An empty sequence yields all zeroes; both percentages are guarded against
// a zero mass denominator.
func ComputeAnalysis(entries []RollingStockEntry) AnalysisResult {
	var (
		length, payload, empty float64
		wagonMass, locoMass    float64
		wagonBrake, locoBrake  float64
	)
	for _, entry := range entries {
		length += entry.LengthMeters
		payload += entry.PayloadMassTons
		empty += entry.EmptyMassTons
		if entry.Kind == KindLocomotive {
			locoMass += entry.EmptyMassTons + entry.PayloadMassTons
			locoBrake += entry.BrakeMassTons
		} else {
			wagonMass += entry.EmptyMassTons + entry.PayloadMassTons
			wagonBrake += entry.BrakeMassTons
		}
	}

	result := AnalysisResult{
		TotalLengthMeters:       Round2(length),
		WagonMassTons:           Round2(wagonMass),
		LocomotiveMassTons:      Round2(locoMass),
		WagonBrakeMassTons:      Round2(wagonBrake),
		LocomotiveBrakeMassTons: Round2(locoBrake),
		TotalPayloadMassTons:    Round2(payload),
		TotalEmptyMassTons:      Round2(empty),
	}
	result.TotalMassTons = Round2(result.WagonMassTons + result.LocomotiveMassTons)
	result.TotalBrakeMassTons = Round2(result.WagonBrakeMassTons + result.LocomotiveBrakeMassTons)
	if result.WagonMassTons > 0 {
		result.WagonBrakePercent = Round2(result.WagonBrakeMassTons / result.WagonMassTons * 100)
	}
	if result.TotalMassTons > 0 {
		result.TotalBrakePercent = Round2(result.TotalBrakeMassTons / result.TotalMassTons * 100)
	}
	return result
}
