package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/finratio/backend/src/models"
)

func TestCalculateGrowth(t *testing.T) {
	calc := NewGrowthProcessor()

	bucket := models.YearBucket{
		"2023": {
			"매출액":    {Current: 1000},
			"당기순이익": {Current: 100},
		},
		"2022": {
			"매출액":    {Current: 800},
			"당기순이익": {Current: 50},
		},
	}

	growth := calc.Calculate(bucket, []string{"2023", "2022"})

	require.Len(t, growth.RevenueGrowth, 2)
	require.NotNil(t, growth.RevenueGrowth[0])
	assert.InDelta(t, 25.0, *growth.RevenueGrowth[0], 1e-9) // (1000-800)/800*100
	require.NotNil(t, growth.NetIncomeGrowth[0])
	assert.InDelta(t, 100.0, *growth.NetIncomeGrowth[0], 1e-9) // (100-50)/50*100

	// The oldest year in the window has no prior year to compare against.
	assert.Nil(t, growth.RevenueGrowth[1])
	assert.Nil(t, growth.NetIncomeGrowth[1])
}

func TestCalculateGrowthThreeYearWindow(t *testing.T) {
	calc := NewGrowthProcessor()

	bucket := models.YearBucket{
		"2023": {"매출액": {Current: 1200}, "당기순이익": {Current: 60}},
		"2022": {"매출액": {Current: 1000}, "당기순이익": {Current: 40}},
		"2021": {"매출액": {Current: 500}, "당기순이익": {Current: 80}},
	}

	growth := calc.Calculate(bucket, []string{"2023", "2022", "2021"})

	require.Len(t, growth.RevenueGrowth, 3)
	assert.InDelta(t, 20.0, *growth.RevenueGrowth[0], 1e-9)  // 2023 vs 2022
	assert.InDelta(t, 100.0, *growth.RevenueGrowth[1], 1e-9) // 2022 vs 2021
	assert.Nil(t, growth.RevenueGrowth[2], "oldest year must always be the sentinel")
	assert.InDelta(t, 50.0, *growth.NetIncomeGrowth[0], 1e-9)
	assert.InDelta(t, -50.0, *growth.NetIncomeGrowth[1], 1e-9)
	assert.Nil(t, growth.NetIncomeGrowth[2])
}

func TestCalculateGrowthZeroPrevious(t *testing.T) {
	calc := NewGrowthProcessor()

	bucket := models.YearBucket{
		"2023": {"매출액": {Current: 1000}, "당기순이익": {Current: 100}},
		"2022": {"매출액": {Current: 0}, "당기순이익": {Current: 50}},
	}

	growth := calc.Calculate(bucket, []string{"2023", "2022"})

	assert.Nil(t, growth.RevenueGrowth[0], "zero previous value is not computable")
	assert.NotNil(t, growth.NetIncomeGrowth[0])
}

func TestCalculateGrowthSingleYear(t *testing.T) {
	calc := NewGrowthProcessor()

	bucket := models.YearBucket{
		"2023": {"매출액": {Current: 1000}},
	}

	growth := calc.Calculate(bucket, []string{"2023"})

	require.Len(t, growth.RevenueGrowth, 1)
	assert.Nil(t, growth.RevenueGrowth[0])
	assert.Nil(t, growth.NetIncomeGrowth[0])
}

func TestGrowthRateNegativePrevious(t *testing.T) {
	// Division by |previous| keeps the sign of the change meaningful when
	// the prior year was a loss.
	got := growthRate(50, -100)
	require.NotNil(t, got)
	assert.InDelta(t, 150.0, *got, 1e-9)
}
