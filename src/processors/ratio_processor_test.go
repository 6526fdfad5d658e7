package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/finratio/backend/src/models"
)

func ratioTestBucket() models.YearBucket {
	return models.YearBucket{
		"2023": {
			"자산총계":   {Current: 2000},
			"부채총계":   {Current: 800},
			"유동자산":   {Current: 600},
			"유동부채":   {Current: 300},
			"자본총계":   {Current: 1200},
			"매출액":    {Current: 1000},
			"영업이익":   {Current: 150},
			"당기순이익": {Current: 100},
		},
	}
}

func TestCalculateRatios(t *testing.T) {
	calc := NewRatioProcessor()

	ratios := calc.Calculate(ratioTestBucket(), []string{"2023"})

	require.Len(t, ratios.OperatingMargins, 1)
	require.NotNil(t, ratios.OperatingMargins[0])
	assert.InDelta(t, 15.0, *ratios.OperatingMargins[0], 1e-9) // 150/1000*100
	assert.InDelta(t, 10.0, *ratios.NetMargins[0], 1e-9)       // 100/1000*100
	assert.InDelta(t, 100.0/1200*100, *ratios.ROEValues[0], 1e-9)
	assert.InDelta(t, 5.0, *ratios.ROAValues[0], 1e-9)          // 100/2000*100
	assert.InDelta(t, 800.0/1200*100, *ratios.DebtRatios[0], 1e-9)
	assert.InDelta(t, 200.0, *ratios.CurrentRatios[0], 1e-9) // 600/300*100
}

func TestCalculateRatiosZeroDenominator(t *testing.T) {
	calc := NewRatioProcessor()

	// Revenue is zero: both margin ratios are not computable, never an
	// error or infinity.
	bucket := models.YearBucket{
		"2023": {
			"영업이익":   {Current: 50},
			"당기순이익": {Current: 25},
		},
	}

	ratios := calc.Calculate(bucket, []string{"2023"})

	require.Len(t, ratios.OperatingMargins, 1)
	assert.Nil(t, ratios.OperatingMargins[0])
	assert.Nil(t, ratios.NetMargins[0])
	assert.Nil(t, ratios.ROEValues[0])
	assert.Nil(t, ratios.ROAValues[0])
	assert.Nil(t, ratios.DebtRatios[0])
	assert.Nil(t, ratios.CurrentRatios[0])
}

func TestCalculateRatiosMissingYear(t *testing.T) {
	calc := NewRatioProcessor()

	// A target year absent from the bucket extracts all-zero values and
	// degrades per ratio, not per response.
	ratios := calc.Calculate(ratioTestBucket(), []string{"2023", "2021"})

	require.Len(t, ratios.NetMargins, 2)
	assert.NotNil(t, ratios.NetMargins[0])
	assert.Nil(t, ratios.NetMargins[1])
}

func TestCalculateRatiosSeriesLengthsMatch(t *testing.T) {
	calc := NewRatioProcessor()
	targetYears := []string{"2023", "2022", "2021"}

	ratios := calc.Calculate(ratioTestBucket(), targetYears)

	assert.Len(t, ratios.OperatingMargins, len(targetYears))
	assert.Len(t, ratios.NetMargins, len(targetYears))
	assert.Len(t, ratios.ROEValues, len(targetYears))
	assert.Len(t, ratios.ROAValues, len(targetYears))
	assert.Len(t, ratios.DebtRatios, len(targetYears))
	assert.Len(t, ratios.CurrentRatios, len(targetYears))
}

func TestSafeDividePercent(t *testing.T) {
	tests := []struct {
		name        string
		numerator   float64
		denominator float64
		want        *float64
	}{
		{"normal division", 50, 200, fptr(25.0)},
		{"zero numerator", 0, 200, fptr(0.0)},
		{"zero denominator", 50, 0, nil},
		{"negative numerator", -50, 200, fptr(-25.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := safeDividePercent(tt.numerator, tt.denominator)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func fptr(v float64) *float64 { return &v }
