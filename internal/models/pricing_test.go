package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.0, Round2(10.0))
	assert.Equal(t, 3.33, Round2(10.0/3.0))
	assert.Equal(t, 0.13, Round2(0.125))
	assert.Equal(t, -0.13, Round2(-0.125))
	assert.Equal(t, 30.0, Round2(10.0*3))
}

func TestUnitPriceOf(t *testing.T) {
	assert.Equal(t, 10.0, UnitPriceOf(100, 10))
	assert.Equal(t, 2.5, UnitPriceOf(25, 10))

	// A drained item reports its total price instead of dividing by zero.
	assert.Equal(t, 42.0, UnitPriceOf(42, 0))
	assert.Equal(t, 42.0, UnitPriceOf(42, -1))
}

func TestRemainingTotal(t *testing.T) {
	// Plain partial withdrawal: 3 of 10 units at unit price 10.
	assert.Equal(t, 70.0, RemainingTotal(100, 30, 7))

	// Full drain is worth nothing regardless of rounding residue.
	assert.Equal(t, 0.0, RemainingTotal(100, 100.0, 0))
	assert.Equal(t, 0.0, RemainingTotal(100, 99.99, 0))

	// Rounding the unit price up can make the line total exceed the true
	// total: item {totalPrice: 0.30, quantity: 40}, withdraw 39. The unit
	// price rounds 0.0075 -> 0.01, the line total becomes 0.39, and the
	// last unit must be left at zero value, never negative.
	unit := Round2(UnitPriceOf(0.30, 40))
	assert.Equal(t, 0.01, unit)
	line := Round2(unit * 39)
	assert.Equal(t, 0.39, line)

	remaining := RemainingTotal(0.30, line, 1)
	assert.Equal(t, 0.0, remaining)
	assert.GreaterOrEqual(t, UnitPriceOf(remaining, 1), 0.0)
}

func TestWithdrawalArithmetic(t *testing.T) {
	// Item: totalPrice=100, quantity=10, so unit price is 10.
	unit := Round2(UnitPriceOf(100, 10))
	assert.Equal(t, 10.0, unit)

	// Withdrawing 3 units yields a 30.00 line total.
	line := Round2(UnitPriceOf(100, 10) * 3)
	assert.Equal(t, 30.0, line)

	// Remaining stock value after the withdrawal.
	assert.Equal(t, 70.0, Round2(100-line))
}
