package manifest

import (
	"math"
	"strconv"
	"strings"
)

// quantityEpsilon is added before scaling in Round2 so a sum sitting at the
// .005 boundary after binary truncation still rounds up (12.005 -> 12.01).
const quantityEpsilon = 1e-9

// ParseQuantity coerces operator input to a non-negative quantity. Both "."
// and "," are accepted as the fractional separator; empty or unparseable
// input normalizes to exactly 0 and is never an error.
func ParseQuantity(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	value = strings.ReplaceAll(value, ",", ".")
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	if math.IsNaN(parsed) || math.IsInf(parsed, 0) || parsed < 0 {
		return 0
	}
	return parsed
}

// Round2 rounds half away from zero to 2 decimal places.
func Round2(value float64) float64 {
	return math.Round((value+quantityEpsilon)*100) / 100
}
