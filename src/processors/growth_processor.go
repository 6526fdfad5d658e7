package processors

import (
	"math"

	"github.com/username/finratio/backend/src/models"
)

// growthProcessorImpl implements the GrowthProcessor interface.
type growthProcessorImpl struct{}

// NewGrowthProcessor creates a new instance of GrowthProcessor.
func NewGrowthProcessor() GrowthProcessor {
	return &growthProcessorImpl{}
}

// Calculate computes year-over-year growth for revenue and net income.
//
// targetYears is ordered most-recent-first, so the chronologically prior
// year of targetYears[i] sits at index i+1. The walk therefore pairs
// (targetYears[i], targetYears[i+1]) for i from 0 to len-2; the last
// index is the oldest year in the window, has nothing to compare
// against, and is always nil.
func (p *growthProcessorImpl) Calculate(bucket models.YearBucket, targetYears []string) GrowthSet {
	growth := GrowthSet{
		RevenueGrowth:   make([]*float64, len(targetYears)),
		NetIncomeGrowth: make([]*float64, len(targetYears)),
	}

	for i := 0; i < len(targetYears)-1; i++ {
		current := ExtractValues(bucket[targetYears[i]], ExtractGrowthOnly)
		previous := ExtractValues(bucket[targetYears[i+1]], ExtractGrowthOnly)

		growth.RevenueGrowth[i] = growthRate(current.Revenue, previous.Revenue)
		growth.NetIncomeGrowth[i] = growthRate(current.NetIncome, previous.NetIncome)
	}

	return growth
}

// growthRate returns (current-previous)/|previous| as a percentage, or
// nil when the previous value is zero.
func growthRate(current, previous float64) *float64 {
	if previous == 0 {
		return nil
	}
	value := (current - previous) / math.Abs(previous) * 100
	return &value
}
