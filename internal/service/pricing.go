package service

import (
	"github.com/shopspring/decimal"
)

// PricedLine is one quantity with its distributed unit price and subtotal.
type PricedLine struct {
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// DistributePrice spreads total evenly over every unit in quantities.
// The unit price is truncated to cents and the leftover cents go to the last
// line, so subtotals always sum to total exactly and none is negative.
func DistributePrice(total decimal.Decimal, quantities []int) []PricedLine {
	units := 0
	for _, q := range quantities {
		units += q
	}
	if units <= 0 {
		return nil
	}

	unit := total.Div(decimal.NewFromInt(int64(units))).RoundDown(2)

	lines := make([]PricedLine, len(quantities))
	sum := decimal.Zero
	for i, q := range quantities {
		subtotal := unit.Mul(decimal.NewFromInt(int64(q)))
		lines[i] = PricedLine{Quantity: q, UnitPrice: unit, Subtotal: subtotal}
		sum = sum.Add(subtotal)
	}

	last := len(lines) - 1
	lines[last].Subtotal = lines[last].Subtotal.Add(total.Sub(sum))

	return lines
}

// PriceAtCatalog prices each line at its own unit price and returns the lines with their total.
func PriceAtCatalog(unitPrices []decimal.Decimal, quantities []int) ([]PricedLine, decimal.Decimal) {
	lines := make([]PricedLine, len(quantities))
	total := decimal.Zero
	for i, q := range quantities {
		subtotal := unitPrices[i].Mul(decimal.NewFromInt(int64(q))).Round(2)
		lines[i] = PricedLine{Quantity: q, UnitPrice: unitPrices[i], Subtotal: subtotal}
		total = total.Add(subtotal)
	}
	return lines, total
}
