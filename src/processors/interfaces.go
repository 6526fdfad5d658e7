package processors

import (
	"github.com/username/finratio/backend/src/models"
)

// RatioSet holds the six ratio series, one entry per target year in the
// same most-recent-first order as the target-year window. A nil entry
// means "not computable" (zero denominator), which is distinct from a
// true zero ratio.
type RatioSet struct {
	OperatingMargins []*float64
	NetMargins       []*float64
	ROEValues        []*float64
	ROAValues        []*float64
	DebtRatios       []*float64
	CurrentRatios    []*float64
}

// GrowthSet holds the two year-over-year growth series, aligned with the
// target-year window. The oldest year has no prior year and is always nil.
type GrowthSet struct {
	RevenueGrowth   []*float64
	NetIncomeGrowth []*float64
}

// StatementDeduplicator collapses repeated line items from one fetched
// filing batch before persistence.
type StatementDeduplicator interface {
	Dedupe(items []models.RawStatement) []models.RawStatement
}

// RatioProcessor computes the six financial ratios per target year.
type RatioProcessor interface {
	Calculate(bucket models.YearBucket, targetYears []string) RatioSet
}

// GrowthProcessor computes revenue and net-income growth per target year.
type GrowthProcessor interface {
	Calculate(bucket models.YearBucket, targetYears []string) GrowthSet
}

// ResponseBuilder assembles ratio and growth series into the fixed
// metrics response shape, enforcing array lengths and element validity.
type ResponseBuilder interface {
	Build(companyName string, targetYears []string, ratios RatioSet, growth GrowthSet) models.FinancialMetricsResponse
}
