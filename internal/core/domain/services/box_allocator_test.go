package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/domain/model/billing"
	"fulfillment/internal/core/domain/services"
)

func totalCost(suggestions []services.BoxSuggestion) decimal.Decimal {
	total := decimal.Zero
	for _, s := range suggestions {
		total = total.Add(s.TotalCost())
	}
	return total
}

func TestBoxAllocator_SuggestBoxes(t *testing.T) {
	allocator := services.NewBoxAllocator(billing.DefaultRateCard())

	t.Run("should pack 14 units into one 12-box and one 2-box", func(t *testing.T) {
		suggestions, err := allocator.SuggestBoxes(14, false)

		require.NoError(t, err)
		require.Len(t, suggestions, 2)
		assert.Equal(t, billing.RateCodeBox12, suggestions[0].Code)
		assert.Equal(t, 1, suggestions[0].Qty)
		assert.Equal(t, billing.RateCodeBox2, suggestions[1].Code)
		assert.Equal(t, 1, suggestions[1].Qty)
		assert.Equal(t, "26.00", totalCost(suggestions).StringFixed(2))
	})

	t.Run("should fill exact capacities without leftover", func(t *testing.T) {
		suggestions, err := allocator.SuggestBoxes(24, false)

		require.NoError(t, err)
		require.Len(t, suggestions, 1)
		assert.Equal(t, billing.RateCodeBox12, suggestions[0].Code)
		assert.Equal(t, 2, suggestions[0].Qty)
	})

	t.Run("should give leftover below smallest box one smallest box", func(t *testing.T) {
		// 12 + 1: the single leftover unit still ships in a 1-box.
		suggestions, err := allocator.SuggestBoxes(13, false)

		require.NoError(t, err)
		require.Len(t, suggestions, 2)
		assert.Equal(t, billing.RateCodeBox12, suggestions[0].Code)
		assert.Equal(t, billing.RateCodeBox1, suggestions[1].Code)
		assert.Equal(t, 1, suggestions[1].Qty)
	})

	t.Run("should merge leftover into an existing smallest-box line", func(t *testing.T) {
		// Can trays: 25 = 1x24 with 1 leftover -> leftover takes a 6-tray.
		suggestions, err := allocator.SuggestBoxes(25, true)

		require.NoError(t, err)
		require.Len(t, suggestions, 2)
		assert.Equal(t, billing.RateCodeCan24, suggestions[0].Code)
		assert.Equal(t, billing.RateCodeCan6, suggestions[1].Code)
	})

	t.Run("should pack can trays with can capacities", func(t *testing.T) {
		suggestions, err := allocator.SuggestBoxes(42, true)

		require.NoError(t, err)
		require.Len(t, suggestions, 3)
		assert.Equal(t, billing.RateCodeCan24, suggestions[0].Code)
		assert.Equal(t, 1, suggestions[0].Qty)
		assert.Equal(t, billing.RateCodeCan12, suggestions[1].Code)
		assert.Equal(t, 1, suggestions[1].Qty)
		assert.Equal(t, billing.RateCodeCan6, suggestions[2].Code)
		assert.Equal(t, 1, suggestions[2].Qty)
	})

	t.Run("should return empty plan for zero units", func(t *testing.T) {
		suggestions, err := allocator.SuggestBoxes(0, false)

		require.NoError(t, err)
		assert.Empty(t, suggestions)
	})

	t.Run("should reject negative units", func(t *testing.T) {
		_, err := allocator.SuggestBoxes(-1, false)
		require.Error(t, err)
	})

	t.Run("should be deterministic", func(t *testing.T) {
		first, err := allocator.SuggestBoxes(97, false)
		require.NoError(t, err)

		second, err := allocator.SuggestBoxes(97, false)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("single unit takes the smallest box", func(t *testing.T) {
		suggestions, err := allocator.SuggestBoxes(1, false)

		require.NoError(t, err)
		require.Len(t, suggestions, 1)
		assert.Equal(t, billing.RateCodeBox1, suggestions[0].Code)
		assert.Equal(t, 1, suggestions[0].Qty)
	})
}
