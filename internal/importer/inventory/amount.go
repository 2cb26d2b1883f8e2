package inventory

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount parses a spreadsheet value cell into cents. It accepts
// US-formatted amounts ("$1,234.56" -> 123456) as well as European ones
// ("1.234,56" -> 123456), distinguishing them by the decimal separator.
func parseAmount(s string) (int64, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.ReplaceAll(clean, " ", "")

	if isEuropean(clean) {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, err
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

// isEuropean reports whether the amount uses a comma as the decimal
// separator, i.e. the last comma comes after the last dot.
func isEuropean(s string) bool {
	comma := strings.LastIndex(s, ",")
	if comma == -1 {
		return false
	}

	return comma > strings.LastIndex(s, ".")
}
