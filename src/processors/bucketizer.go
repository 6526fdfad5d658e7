package processors

import (
	"sort"

	"github.com/username/finratio/backend/src/models"
)

// maxTargetYears is the size of the analysis window: the most recent
// fiscal years considered for ratio and growth computation.
const maxTargetYears = 3

// ExtractMode selects which fields ExtractValues populates, so the ratio
// and growth calculators can share one extraction routine.
type ExtractMode int

const (
	ExtractAll ExtractMode = iota
	ExtractRatioOnly
	ExtractGrowthOnly
)

// The account-name vocabulary is fixed and closed; there is no dynamic
// account discovery. Figures are always compared within one statement
// family per fiscal year.
const (
	accountTotalAssets        = "자산총계"
	accountTotalLiabilities   = "부채총계"
	accountCurrentAssets      = "유동자산"
	accountCurrentLiabilities = "유동부채"
	accountTotalEquity        = "자본총계"
	accountRevenue            = "매출액"
	accountOperatingProfit    = "영업이익"
	accountNetIncome          = "당기순이익"
)

// Bucketize groups stored line items into fiscalYear -> accountName ->
// amounts. Later rows with the same (year, account) overwrite earlier
// ones, so applying it to non-deduplicated input is forgiving and
// re-applying it is idempotent.
func Bucketize(rows []models.StoredStatement) models.YearBucket {
	bucket := make(models.YearBucket)
	for _, row := range rows {
		yearSlice, ok := bucket[row.BsnsYear]
		if !ok {
			yearSlice = make(map[string]models.AccountAmounts)
			bucket[row.BsnsYear] = yearSlice
		}
		yearSlice[row.AccountNm] = models.AccountAmounts{
			Current:    row.ThstrmAmount,
			Prior:      row.FrmtrmAmount,
			PriorPrior: row.BfefrmtrmAmount,
		}
	}
	return bucket
}

// TargetYears returns the analysis window: at most the three most recent
// fiscal years present in the bucket, descending. Fewer years are used as
// is, with no padding.
func TargetYears(bucket models.YearBucket) []string {
	years := make([]string, 0, len(bucket))
	for year := range bucket {
		years = append(years, year)
	}
	// 4-digit year strings sort lexicographically in numeric order.
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	if len(years) > maxTargetYears {
		years = years[:maxTargetYears]
	}
	return years
}

// ExtractValues pulls the named line items out of one fiscal year's
// bucket slice. Accounts missing from the slice yield 0.0. GrowthOnly
// populates just revenue and net income.
func ExtractValues(yearSlice map[string]models.AccountAmounts, mode ExtractMode) models.ExtractedValues {
	current := func(account string) float64 {
		return yearSlice[account].Current
	}

	if mode == ExtractGrowthOnly {
		return models.ExtractedValues{
			Revenue:   current(accountRevenue),
			NetIncome: current(accountNetIncome),
		}
	}

	return models.ExtractedValues{
		TotalAssets:        current(accountTotalAssets),
		TotalLiabilities:   current(accountTotalLiabilities),
		CurrentAssets:      current(accountCurrentAssets),
		CurrentLiabilities: current(accountCurrentLiabilities),
		TotalEquity:        current(accountTotalEquity),
		Revenue:            current(accountRevenue),
		OperatingProfit:    current(accountOperatingProfit),
		NetIncome:          current(accountNetIncome),
	}
}
