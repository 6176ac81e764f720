package models

import "math"

// Round2 rounds a monetary value to 2 decimal places, half away from zero
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// UnitPriceOf derives the per-unit price from an item's total price and
// quantity. A zero quantity yields the total price itself so a drained
// item still reports a sane price.
func UnitPriceOf(totalPrice float64, quantity int) float64 {
	if quantity <= 0 {
		return totalPrice
	}
	return totalPrice / float64(quantity)
}

// RemainingTotal returns the stock value left after removing a line total.
// The snapshot unit price is rounded before the line total is derived, so
// on a partial withdrawal the line total can exceed the true total; the
// remainder is clamped at zero, and a drained item is worth nothing.
func RemainingTotal(totalPrice, lineTotal float64, remainingQty int) float64 {
	if remainingQty <= 0 {
		return 0
	}
	remaining := Round2(totalPrice - lineTotal)
	if remaining < 0 {
		return 0
	}
	return remaining
}
