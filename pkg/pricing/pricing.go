// Package pricing implements the line and order total arithmetic shared by
// every order write path and by exports. All amounts are fixed-point decimals
// rounded half-away-from-zero to two places; order totals sum the already
// rounded line totals so a receipt read line by line always adds up.
package pricing

import "github.com/shopspring/decimal"

const currencyPlaces = 2

// Line is the quantity/unit-price pair a total is derived from.
type Line struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// LineTotal returns round(quantity * unitPrice, 2).
func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Round(currencyPlaces)
}

// OrderTotal sums the rounded line totals and rounds the sum to two places.
// An empty input yields 0.00.
func OrderTotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(LineTotal(line.Quantity, line.UnitPrice))
	}
	return total.Round(currencyPlaces)
}
