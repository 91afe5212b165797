package manifest

// VehicleKind distinguishes traction units from hauled stock on the R-7 form.
type VehicleKind string

const (
	// KindLocomotive marks a traction unit.
	KindLocomotive VehicleKind = "locomotive"
	// KindWagon marks hauled stock.
	KindWagon VehicleKind = "wagon"
)

// ParseVehicleKind validates a kind value. The enumeration is closed; any
// third value is rejected before it can reach the aggregation code.
func ParseVehicleKind(value string) (VehicleKind, error) {
	switch VehicleKind(value) {
	case KindLocomotive:
		return KindLocomotive, nil
	case KindWagon:
		return KindWagon, nil
	default:
		return "", ErrInvalidVehicleKind
	}
}

// IsValid reports whether the kind is one of the two closed variants.
func (k VehicleKind) IsValid() bool {
	return k == KindLocomotive || k == KindWagon
}

// RollingStockEntry is one vehicle in a train composition. Text fields are
// optional display strings; mass and length quantities default to 0 when the
// operator leaves them blank.
type RollingStockEntry struct {
	Kind               VehicleKind `json:"kind" bson:"kind"`
	Identifier         string      `json:"identifier" bson:"identifier"`
	CountryCode        string      `json:"country_code" bson:"country_code"`
	OperatorCode       string      `json:"operator_code" bson:"operator_code"`
	SeriesOrType       string      `json:"series_or_type" bson:"series_or_type"`
	ClassificationCode string      `json:"classification_code" bson:"classification_code"`
	LengthMeters       float64     `json:"length_meters" bson:"length_meters"`
	EmptyMassTons      float64     `json:"empty_mass_tons" bson:"empty_mass_tons"`
	PayloadMassTons    float64     `json:"payload_mass_tons" bson:"payload_mass_tons"`
	BrakeMassTons      float64     `json:"brake_mass_tons" bson:"brake_mass_tons"`
	OriginStation      string      `json:"origin_station" bson:"origin_station"`
	DestinationStation string      `json:"destination_station" bson:"destination_station"`
	Notes              string      `json:"notes" bson:"notes"`
}

// ManifestMetadata carries the trip-level context printed on the form header.
// Train number and departure date live on the report's section A and are not
// duplicated here.
type ManifestMetadata struct {
	FromStation   string `json:"from_station" bson:"from_station"`
	ToStation     string `json:"to_station" bson:"to_station"`
	DriverName    string `json:"driver_name" bson:"driver_name"`
	ConductorName string `json:"conductor_name" bson:"conductor_name"`
}

// SectionA holds the report fields shared with the printed manifest.
type SectionA struct {
	TrainNumber string `json:"train_number" bson:"train_number"`
	Date        string `json:"date" bson:"date"`
}

// Crew identifies a crew member acting on a report.
type Crew struct {
	Name string `json:"name" bson:"name"`
	ID   string `json:"id" bson:"id"`
}
