package pricing

import "strings"

// Weight and volume units are sold in quarter steps; everything else is
// counted whole.
var fractionalUnits = map[string]bool{
	"kg":    true,
	"gram":  true,
	"liter": true,
}

// IsFractionalUnit reports whether the unit allows fractional quantities.
func IsFractionalUnit(unit string) bool {
	return fractionalUnits[strings.ToLower(unit)]
}

// QuantityStep returns the increment a quantity moves by for the unit.
func QuantityStep(unit string) float64 {
	if IsFractionalUnit(unit) {
		return 0.25
	}
	return 1
}

// MinQuantity returns the smallest sellable quantity for the unit. Equals
// the step: a quantity below it means the line should be removed.
func MinQuantity(unit string) float64 {
	return QuantityStep(unit)
}
