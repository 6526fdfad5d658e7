package processors

import (
	"math"

	"github.com/username/finratio/backend/src/models"
)

// responseBuilderImpl implements the ResponseBuilder interface.
//
// Sentinel policy: entries that are not computable stay nil and marshal
// as JSON null. A null is never conflated with a true zero ratio;
// consumers are expected to handle absence.
type responseBuilderImpl struct{}

// NewResponseBuilder creates a new instance of ResponseBuilder.
func NewResponseBuilder() ResponseBuilder {
	return &responseBuilderImpl{}
}

// Build packages ratio and growth series into the fixed response shape.
// Every series is forced to exactly len(targetYears) entries: a missing
// or length-mismatched series is replaced wholesale with an all-nil
// series, and every element is individually checked so NaN or infinite
// values degrade to nil rather than leaking into the response.
func (b *responseBuilderImpl) Build(companyName string, targetYears []string, ratios RatioSet, growth GrowthSet) models.FinancialMetricsResponse {
	n := len(targetYears)
	years := make([]string, n)
	copy(years, targetYears)

	return models.FinancialMetricsResponse{
		CompanyName: companyName,
		FinancialMetrics: models.FinancialMetrics{
			OperatingMargin: normalizeSeries(ratios.OperatingMargins, n),
			NetMargin:       normalizeSeries(ratios.NetMargins, n),
			ROE:             normalizeSeries(ratios.ROEValues, n),
			ROA:             normalizeSeries(ratios.ROAValues, n),
			Years:           years,
		},
		GrowthData: models.GrowthData{
			RevenueGrowth:   normalizeSeries(growth.RevenueGrowth, n),
			NetIncomeGrowth: normalizeSeries(growth.NetIncomeGrowth, n),
			Years:           years,
		},
		DebtLiquidityData: models.DebtLiquidityData{
			DebtRatio:    normalizeSeries(ratios.DebtRatios, n),
			CurrentRatio: normalizeSeries(ratios.CurrentRatios, n),
			Years:        years,
		},
	}
}

// normalizeSeries coerces a series to exactly n entries. A nil or
// mismatched input is replaced with an all-nil series; valid elements
// are copied so the response never aliases calculator-owned slices.
func normalizeSeries(series []*float64, n int) []*float64 {
	out := make([]*float64, n)
	if len(series) != n {
		return out
	}
	for i, entry := range series {
		if entry == nil || math.IsNaN(*entry) || math.IsInf(*entry, 0) {
			continue
		}
		value := *entry
		out[i] = &value
	}
	return out
}
