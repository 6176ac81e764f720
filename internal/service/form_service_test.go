package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeQuantity(t *testing.T) {
	qty, err := normalizeQuantity(3)
	assert.NoError(t, err)
	assert.Equal(t, 3, qty)

	// Omitted quantity defaults to a single unit.
	qty, err = normalizeQuantity(0)
	assert.NoError(t, err)
	assert.Equal(t, 1, qty)

	_, err = normalizeQuantity(-2)
	assert.Error(t, err)

	var validation *ValidationError
	assert.True(t, errors.As(err, &validation))
}

func TestInsufficientStockMessage(t *testing.T) {
	err := &InsufficientStockError{Available: 0}
	assert.Equal(t, "Only 0 available", err.Error())

	err = &InsufficientStockError{Available: 7}
	assert.Equal(t, "Only 7 available", err.Error())
}
