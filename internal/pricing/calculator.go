// Package pricing computes order totals and stock shortfalls. Everything in
// here is pure: the catalog is passed in, nothing touches the database, so
// the same functions back both live form totals and server-side recomputes.
package pricing

import "math"

// Line is a (product, quantity) pairing in a draft order.
type Line struct {
	ProductID string
	Quantity  float64
}

// CatalogEntry is the slice of the product catalog the calculator needs.
type CatalogEntry struct {
	ID        string
	SellPrice float64
}

// Totals is the result of ComputeTotals, recomputed on every draft change.
type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	Discount    float64 `json:"discount"`
	DeliveryFee float64 `json:"delivery_fee"`
	Total       float64 `json:"total"`
	ItemCount   int     `json:"item_count"`
}

// ComputeTotals prices the given lines against the catalog. Lines whose
// product is missing from the catalog price at zero. Total is clamped at
// zero so an oversized discount can never render a negative amount; this is
// a display clamp only, the orchestrator rejects such discounts outright.
// ItemCount is the number of distinct lines, not the summed quantity.
func ComputeTotals(lines []Line, catalog []CatalogEntry, discount, deliveryFee float64) Totals {
	prices := make(map[string]float64, len(catalog))
	for _, entry := range catalog {
		prices[entry.ID] = entry.SellPrice
	}

	var subtotal float64
	for _, line := range lines {
		subtotal += prices[line.ProductID] * line.Quantity
	}

	return Totals{
		Subtotal:    subtotal,
		Discount:    discount,
		DeliveryFee: deliveryFee,
		Total:       math.Max(0, subtotal-discount+deliveryFee),
		ItemCount:   len(lines),
	}
}

// LineSubtotal is the frozen-price subtotal of a single line.
func LineSubtotal(price, quantity float64) float64 {
	return price * quantity
}

// Shortfall is the quantity by which a requested line exceeds available
// stock. Zero when stock covers the request. Advisory only: a shortfall
// never blocks adding the line or creating the order.
func Shortfall(quantity, available float64) float64 {
	return math.Max(0, quantity-available)
}

// HasShortfall reports whether the line should carry a stock warning.
func HasShortfall(quantity, available float64) bool {
	return Shortfall(quantity, available) > 0
}
