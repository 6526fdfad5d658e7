package processors

import (
	"github.com/username/finratio/backend/src/models"
)

// ratioProcessorImpl implements the RatioProcessor interface.
type ratioProcessorImpl struct{}

// NewRatioProcessor creates a new instance of RatioProcessor.
func NewRatioProcessor() RatioProcessor {
	return &ratioProcessorImpl{}
}

// Calculate computes the six ratio series for the given target years.
// Every series has exactly len(targetYears) entries in the same order.
// All ratios are percentages; a zero denominator yields a nil entry.
func (p *ratioProcessorImpl) Calculate(bucket models.YearBucket, targetYears []string) RatioSet {
	ratios := RatioSet{
		OperatingMargins: make([]*float64, 0, len(targetYears)),
		NetMargins:       make([]*float64, 0, len(targetYears)),
		ROEValues:        make([]*float64, 0, len(targetYears)),
		ROAValues:        make([]*float64, 0, len(targetYears)),
		DebtRatios:       make([]*float64, 0, len(targetYears)),
		CurrentRatios:    make([]*float64, 0, len(targetYears)),
	}

	for _, year := range targetYears {
		values := ExtractValues(bucket[year], ExtractRatioOnly)

		ratios.OperatingMargins = append(ratios.OperatingMargins, safeDividePercent(values.OperatingProfit, values.Revenue))
		ratios.NetMargins = append(ratios.NetMargins, safeDividePercent(values.NetIncome, values.Revenue))
		ratios.ROEValues = append(ratios.ROEValues, safeDividePercent(values.NetIncome, values.TotalEquity))
		ratios.ROAValues = append(ratios.ROAValues, safeDividePercent(values.NetIncome, values.TotalAssets))
		ratios.DebtRatios = append(ratios.DebtRatios, safeDividePercent(values.TotalLiabilities, values.TotalEquity))
		ratios.CurrentRatios = append(ratios.CurrentRatios, safeDividePercent(values.CurrentAssets, values.CurrentLiabilities))
	}

	return ratios
}

// safeDividePercent performs the safe divide of the ratio contract:
// numerator/denominator as a percentage, or nil when the denominator is
// zero. It never panics and never produces infinity.
func safeDividePercent(numerator, denominator float64) *float64 {
	if denominator == 0 {
		return nil
	}
	value := numerator / denominator * 100
	return &value
}
