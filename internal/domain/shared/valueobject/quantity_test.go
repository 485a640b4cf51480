package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderedQuantity(t *testing.T) {
	t.Run("accepts positive values", func(t *testing.T) {
		tests := []string{"0.001", "1", "10.5", "99999"}
		for _, value := range tests {
			t.Run(value, func(t *testing.T) {
				qty, err := NewOrderedQuantityFromString(value)
				require.NoError(t, err)
				assert.True(t, qty.Amount().Equal(decimal.RequireFromString(value)))
			})
		}
	})

	t.Run("rejects zero and negative values", func(t *testing.T) {
		tests := []string{"0", "-0.001", "-1", "-10.5"}
		for _, value := range tests {
			t.Run(value, func(t *testing.T) {
				_, err := NewOrderedQuantityFromString(value)
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrNonPositiveQuantity)
				assert.Contains(t, err.Error(), "quantity must be larger than 0")
			})
		}
	})
}

func TestNewReceiptQuantity(t *testing.T) {
	t.Run("accepts positive values", func(t *testing.T) {
		qty, err := NewReceiptQuantityFromFloat(2.5)
		require.NoError(t, err)
		assert.True(t, qty.Amount().Equal(decimal.NewFromFloat(2.5)))
	})

	t.Run("rejects zero and negative values", func(t *testing.T) {
		_, err := NewReceiptQuantity(decimal.Zero)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNonPositiveQuantity)

		_, err = NewReceiptQuantityFromFloat(-3)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNonPositiveQuantity)
	})
}

func TestQuantity_Equals(t *testing.T) {
	a := MustNewOrderedQuantity(decimal.NewFromInt(5))
	b := MustNewOrderedQuantity(decimal.RequireFromString("5.0"))
	c := MustNewOrderedQuantity(decimal.NewFromInt(6))

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))

	r1 := MustNewReceiptQuantity(decimal.NewFromInt(5))
	r2 := MustNewReceiptQuantity(decimal.NewFromInt(5))
	assert.True(t, r1.Equals(r2))
}

func TestMustNewQuantity_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { MustNewOrderedQuantity(decimal.Zero) })
	assert.Panics(t, func() { MustNewReceiptQuantity(decimal.NewFromInt(-1)) })
}
