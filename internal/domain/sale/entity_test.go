package sale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugohenrick/erp-pdv/internal/domain/organization"
)

func TestComputeTotals(t *testing.T) {
	items := []Item{
		{Quantity: 2, UnitPrice: 10, Discount: 1},
		{Quantity: 1, UnitPrice: 5.5},
	}

	subtotal, itemDiscount, finalTotal, err := ComputeTotals(items, 0.5)
	require.NoError(t, err)

	assert.Equal(t, 25.5, subtotal)
	assert.Equal(t, 1.0, itemDiscount)
	assert.Equal(t, 24.0, finalTotal)
	assert.Equal(t, 19.0, items[0].LineTotal)
	assert.Equal(t, 5.5, items[1].LineTotal)
}

func TestComputeTotalsRejectsEmptyAndNegative(t *testing.T) {
	_, _, _, err := ComputeTotals(nil, 0)
	assert.ErrorIs(t, err, ErrNoItems)

	_, _, _, err = ComputeTotals([]Item{{Quantity: 1, UnitPrice: 5, Discount: 10}}, 0)
	assert.ErrorIs(t, err, ErrNegativeLine)
}

func TestComputeTotalsSpreadsResidueOnFirstLine(t *testing.T) {
	// Cada linha arredonda para 0,33; a soma real é 0,999 → 1,00
	items := []Item{
		{Quantity: 1, UnitPrice: 0.333},
		{Quantity: 1, UnitPrice: 0.333},
		{Quantity: 1, UnitPrice: 0.333},
	}

	subtotal, _, _, err := ComputeTotals(items, 0)
	require.NoError(t, err)

	sum := 0.0
	for _, item := range items {
		sum += item.LineTotal
	}
	assert.InDelta(t, subtotal, sum, 1e-9)
	assert.Equal(t, 0.34, items[0].LineTotal)
}

func TestValidateTenders(t *testing.T) {
	cash := func(v float64) Payment { return Payment{Tender: organization.TenderCash, Amount: v} }
	card := func(v float64) Payment { return Payment{Tender: organization.TenderCard, Amount: v} }

	t.Run("troco coberto por dinheiro", func(t *testing.T) {
		tendered, change, err := ValidateTenders([]Payment{cash(25)}, 20)
		require.NoError(t, err)
		assert.Equal(t, 25.0, tendered)
		assert.Equal(t, 5.0, change)
	})

	t.Run("pagamento insuficiente", func(t *testing.T) {
		_, _, err := ValidateTenders([]Payment{cash(10), card(5)}, 20)
		assert.ErrorIs(t, err, ErrInsufficientTender)
	})

	t.Run("excedente sem dinheiro", func(t *testing.T) {
		_, _, err := ValidateTenders([]Payment{card(30)}, 20)
		assert.ErrorIs(t, err, ErrChangeWithoutCash)
	})

	t.Run("excedente misto coberto pelo dinheiro", func(t *testing.T) {
		_, change, err := ValidateTenders([]Payment{card(15), cash(10)}, 20)
		require.NoError(t, err)
		assert.Equal(t, 5.0, change)
	})

	t.Run("cobertura dentro da tolerância", func(t *testing.T) {
		tendered, change, err := ValidateTenders([]Payment{card(19.99)}, 20)
		require.NoError(t, err)
		assert.Equal(t, 19.99, tendered)
		assert.Equal(t, 0.0, change)
	})
}
