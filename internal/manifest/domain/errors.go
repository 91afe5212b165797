package manifest

import "errors"

var (
	// ErrInvalidVehicleKind is returned when a kind is neither locomotive nor wagon.
	ErrInvalidVehicleKind = errors.New("manifest: invalid vehicle kind")
	// ErrInvalidIndex is returned when an entry index is out of range.
	ErrInvalidIndex = errors.New("manifest: entry index out of range")
	// ErrReportNotFound is returned when a report does not exist in the store.
	ErrReportNotFound = errors.New("manifest: report not found")
	// ErrNilReport is returned when saving a nil report.
	ErrNilReport = errors.New("manifest: nil report")
	// ErrEmptyReportID is returned when a report identifier is empty.
	ErrEmptyReportID = errors.New("manifest: empty report id")
)
