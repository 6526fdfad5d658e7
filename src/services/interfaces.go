package services

import (
	"errors"

	"github.com/username/finratio/backend/src/models"
)

// ErrCompanyNotFound means the company name resolves to no DART filer.
var ErrCompanyNotFound = errors.New("company not found")

// FilingSource fetches company identities and financial statements from
// an external filing provider.
type FilingSource interface {
	// FetchCompanyInfo resolves a registered company name to its identity.
	// Returns ErrCompanyNotFound when no filer matches the name exactly.
	FetchCompanyInfo(companyName string) (*models.Company, error)
	// FetchStatements fetches the annual-report line items for one fiscal
	// year. A year of 0 means "most recent available": the previous
	// calendar year, falling back at most two years further when that
	// year has no filing yet. An empty slice with a nil error means the
	// provider has no data.
	FetchStatements(corpCode string, year int) ([]models.RawStatement, error)
}

// FinancialService owns statement acquisition and the stored-statement
// views built on top of it.
type FinancialService interface {
	CrawlAndSave(companyName string, year int) (*models.CrawlResult, error)
	GetFormattedStatements(companyName string) ([]models.FormattedYear, error)
	DeleteYear(companyName string, year int) (int64, error)
	AutoCrawlAll() *models.CrawlRunSummary
}

// RatioService derives the financial-metrics response from stored
// statements.
type RatioService interface {
	CalculateMetrics(companyName string) (*models.FinancialMetricsResponse, error)
}
