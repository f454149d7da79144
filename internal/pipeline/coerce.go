package pipeline

import (
	"strings"

	"github.com/shopspring/decimal"
)

var numberNoise = strings.NewReplacer(",", "", "₹", "", "$", "", "%", "", " ", "", "\u00a0", "")

// ParseNumber coerces a spreadsheet cell to a decimal. Thousands separators,
// currency symbols and a percent sign are dropped first. Anything that still
// fails to parse is reported as missing rather than as an error.
func ParseNumber(cell string) decimal.NullDecimal {
	s := numberNoise.Replace(strings.TrimSpace(cell))
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
