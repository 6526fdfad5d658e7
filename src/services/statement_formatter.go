package services

import (
	"sort"

	"github.com/username/finratio/backend/src/models"
)

// formatStatements regroups stored rows into per-year statement-family
// maps keyed by account name, most recent fiscal year first. Rows with a
// statement division outside BS/IS/CF are skipped.
func formatStatements(rows []models.StoredStatement) []models.FormattedYear {
	byYear := make(map[string]*models.FormattedYear)

	for _, row := range rows {
		year, ok := byYear[row.BsnsYear]
		if !ok {
			year = &models.FormattedYear{
				FiscalYear:      row.BsnsYear,
				BalanceSheet:    make(map[string]models.PeriodAmounts),
				IncomeStatement: make(map[string]models.PeriodAmounts),
				CashFlow:        make(map[string]models.PeriodAmounts),
			}
			byYear[row.BsnsYear] = year
		}

		amounts := models.PeriodAmounts{
			Current:    row.ThstrmAmount,
			Prior:      row.FrmtrmAmount,
			PriorPrior: row.BfefrmtrmAmount,
		}

		switch row.SjDiv {
		case "BS":
			year.BalanceSheet[row.AccountNm] = amounts
		case "IS":
			year.IncomeStatement[row.AccountNm] = amounts
		case "CF":
			year.CashFlow[row.AccountNm] = amounts
		}
	}

	years := make([]string, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))

	formatted := make([]models.FormattedYear, 0, len(years))
	for _, year := range years {
		formatted = append(formatted, *byYear[year])
	}
	return formatted
}
