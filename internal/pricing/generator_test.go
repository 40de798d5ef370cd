package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tierConfig(minValue, pct float64) TierConfig {
	return TierConfig{
		MinOrderValue:   decimal.NewFromFloat(minValue),
		DiscountPercent: decimal.NewFromFloat(pct),
	}
}

func TestRoundToNice(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{1, 1},
		{10, 10},
		{11, 15},
		{47, 50},
		{51, 60},
		{80, 80},
		{101, 120},
		{333, 340},
		{501, 550},
		{999, 1000},
		{1001, 1100},
		{1250, 1300},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RoundToNice(tc.in), "RoundToNice(%d)", tc.in)
	}
}

func TestRoundToNiceIdempotent(t *testing.T) {
	for _, qty := range []int{1, 10, 15, 50, 80, 100, 240, 500, 950, 1000, 1300} {
		once := RoundToNice(qty)
		assert.Equal(t, once, RoundToNice(once), "double rounding moved %d", qty)
	}
}

func TestGenerateTiersStandardConfiguration(t *testing.T) {
	configs := []TierConfig{
		tierConfig(200, 0.5),
		tierConfig(400, 1),
		tierConfig(800, 1.5),
		tierConfig(1000, 3),
	}

	tiers := GenerateTiers(decimal.NewFromFloat(2.5), configs)
	require.Len(t, tiers, 4)

	// ceil(200/2.5)=80 sits in the <=100 bucket and is already a
	// multiple of 10.
	assert.Equal(t, 80, tiers[0].MinQuantity)
	assert.Equal(t, "80 unidades", tiers[0].DisplayText)
	require.NotNil(t, tiers[0].MaxQuantity)
	assert.Equal(t, 159, *tiers[0].MaxQuantity)

	assert.Equal(t, 160, tiers[1].MinQuantity)
	assert.Equal(t, 320, tiers[2].MinQuantity)
	assert.Equal(t, 400, tiers[3].MinQuantity)
	assert.Nil(t, tiers[3].MaxQuantity)

	for i := 1; i < len(tiers); i++ {
		assert.Greater(t, tiers[i].MinQuantity, tiers[i-1].MinQuantity)
	}
}

func TestGenerateTiersPricesRoundToHalfEuro(t *testing.T) {
	tiers := GenerateTiers(decimal.NewFromFloat(10), []TierConfig{tierConfig(100, 12)})
	require.Len(t, tiers, 1)
	// 10 * 0.88 = 8.80 rounds to 9.00
	assert.True(t, tiers[0].PricePerUnit.Equal(decimal.NewFromFloat(9)),
		"price = %s", tiers[0].PricePerUnit)
}

func TestGenerateTiersSkipsCollapsedBreakpoints(t *testing.T) {
	// At a high base price both breakpoints round to the same small
	// quantity, so only the first survives.
	configs := []TierConfig{
		tierConfig(100, 1),
		tierConfig(110, 2),
	}
	tiers := GenerateTiers(decimal.NewFromFloat(60), configs)
	require.Len(t, tiers, 1)
	assert.Equal(t, 2, tiers[0].MinQuantity)
}

func TestGenerateTiersUnsortedInput(t *testing.T) {
	configs := []TierConfig{
		tierConfig(1000, 3),
		tierConfig(200, 0.5),
	}
	tiers := GenerateTiers(decimal.NewFromFloat(2.5), configs)
	require.Len(t, tiers, 2)
	assert.Equal(t, 80, tiers[0].MinQuantity)
	assert.True(t, tiers[0].DiscountPercent.Equal(decimal.NewFromFloat(0.5)))
}

func TestGenerateTiersZeroBasePrice(t *testing.T) {
	assert.Nil(t, GenerateTiers(decimal.Zero, []TierConfig{tierConfig(200, 1)}))
}
