package render

import (
	"strconv"
	"strings"
)

// FormatNumber renders a numeric cell value for the printed form: comma as
// the decimal separator, space-grouped thousands, at most 2 fractional
// digits, no forced trailing zeros. Input accepts both separators, output is
// fixed to the comma convention; the asymmetry mirrors operator input habits
// versus the document's display locale.
func FormatNumber(value float64) string {
	formatted := strconv.FormatFloat(value, 'f', 2, 64)
	formatted = strings.TrimRight(formatted, "0")
	formatted = strings.TrimRight(formatted, ".")
	integer, fraction, hasFraction := strings.Cut(formatted, ".")
	integer = groupThousands(integer)
	if hasFraction {
		return integer + "," + fraction
	}
	return integer
}

func groupThousands(integer string) string {
	digits := strings.TrimPrefix(integer, "-")
	if len(digits) <= 3 {
		return integer
	}
	var b strings.Builder
	if lead := len(digits) % 3; lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := len(digits) % 3; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(digits[i : i+3])
	}
	if strings.HasPrefix(integer, "-") {
		return "-" + b.String()
	}
	return b.String()
}

// TextOrDash substitutes the placeholder dash for missing text so no cell
// renders empty.
func TextOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
