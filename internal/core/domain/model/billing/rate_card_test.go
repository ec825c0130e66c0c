package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/domain/model/billing"
)

func TestDefaultRateCard_UnitPrice(t *testing.T) {
	rc := billing.DefaultRateCard()

	t.Run("should price every box code", func(t *testing.T) {
		prices := map[string]string{
			billing.RateCodeBox12: "20",
			billing.RateCodeBox8:  "15",
			billing.RateCodeBox6:  "12",
			billing.RateCodeBox4:  "9.5",
			billing.RateCodeBox3:  "7.5",
			billing.RateCodeBox2:  "6",
			billing.RateCodeBox1:  "5",
		}

		for code, want := range prices {
			price, err := rc.UnitPrice(code)
			require.NoError(t, err, code)
			assert.True(t, price.Equal(decimal.RequireFromString(want)),
				"%s: got %s want %s", code, price, want)
		}
	})

	t.Run("should price handling codes", func(t *testing.T) {
		outbound, err := rc.UnitPrice(billing.RateCodeOutboundHandling)
		require.NoError(t, err)
		assert.True(t, outbound.Equal(decimal.RequireFromString("4.25")))

		ret, err := rc.UnitPrice(billing.RateCodeReturnHandling)
		require.NoError(t, err)
		assert.True(t, ret.Equal(decimal.RequireFromString("6.75")))
	})

	t.Run("should fail for unknown codes", func(t *testing.T) {
		_, err := rc.UnitPrice("PALLET-1")
		require.Error(t, err)
	})
}

func TestDefaultRateCard_ContainerRates(t *testing.T) {
	rc := billing.DefaultRateCard()

	t.Run("should return boxes sorted by capacity descending", func(t *testing.T) {
		rates := rc.ContainerRates(billing.ContainerBoxes)

		require.Len(t, rates, 7)
		capacities := make([]int, 0, len(rates))
		for _, r := range rates {
			capacities = append(capacities, r.Capacity)
		}
		assert.Equal(t, []int{12, 8, 6, 4, 3, 2, 1}, capacities)
	})

	t.Run("should return can trays sorted by capacity descending", func(t *testing.T) {
		rates := rc.ContainerRates(billing.ContainerCans)

		require.Len(t, rates, 3)
		assert.Equal(t, billing.RateCodeCan24, rates[0].Code)
		assert.Equal(t, billing.RateCodeCan12, rates[1].Code)
		assert.Equal(t, billing.RateCodeCan6, rates[2].Code)
	})
}

func TestDefaultRateCard_ContainerCodes(t *testing.T) {
	rc := billing.DefaultRateCard()

	codes := rc.ContainerCodes()
	assert.Len(t, codes, 10)
	assert.Contains(t, codes, billing.RateCodeBox12)
	assert.Contains(t, codes, billing.RateCodeCan6)
	assert.NotContains(t, codes, billing.RateCodeOutboundHandling)

	assert.True(t, rc.IsContainerCode(billing.RateCodeBox4))
	assert.True(t, rc.IsContainerCode(billing.RateCodeCan24))
	assert.False(t, rc.IsContainerCode(billing.RateCodeReturnHandling))
	assert.False(t, rc.IsContainerCode("PALLET-1"))
}
