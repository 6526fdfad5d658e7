package services

import (
	"fmt"

	"github.com/username/finratio/backend/src/database"
	"github.com/username/finratio/backend/src/logger"
	"github.com/username/finratio/backend/src/models"
	"github.com/username/finratio/backend/src/processors"
)

// ratioServiceImpl implements the RatioService interface by composing
// the bucketing, ratio, growth and response-shaping steps over the
// stored statements.
type ratioServiceImpl struct {
	ratios  processors.RatioProcessor
	growth  processors.GrowthProcessor
	builder processors.ResponseBuilder
}

// NewRatioService creates a new instance of RatioService.
func NewRatioService(
	ratios processors.RatioProcessor,
	growth processors.GrowthProcessor,
	builder processors.ResponseBuilder,
) RatioService {
	return &ratioServiceImpl{
		ratios:  ratios,
		growth:  growth,
		builder: builder,
	}
}

// CalculateMetrics derives the metrics response from the three most
// recent stored fiscal years. A company with nothing stored gets a
// well-formed response with empty series, never an error.
func (s *ratioServiceImpl) CalculateMetrics(companyName string) (*models.FinancialMetricsResponse, error) {
	rows, err := s.fetchRecentStatements(companyName)
	if err != nil {
		return nil, fmt.Errorf("reading stored statements for %s: %w", companyName, err)
	}

	if len(rows) == 0 {
		logger.L.Warn("No stored statements for metrics request", "company", companyName)
		response := s.builder.Build(companyName, []string{}, processors.RatioSet{}, processors.GrowthSet{})
		return &response, nil
	}

	bucket := processors.Bucketize(rows)
	targetYears := processors.TargetYears(bucket)

	ratioSet := s.ratios.Calculate(bucket, targetYears)
	growthSet := s.growth.Calculate(bucket, targetYears)

	response := s.builder.Build(companyName, targetYears, ratioSet, growthSet)
	return &response, nil
}

// fetchRecentStatements pulls the line items of the three most recent
// fiscal years stored for a company name. Only the columns the ratio
// pipeline consumes are selected.
func (s *ratioServiceImpl) fetchRecentStatements(companyName string) ([]models.StoredStatement, error) {
	rows, err := database.DB.Query(`
		SELECT f.bsns_year, f.account_nm,
		       f.thstrm_amount, f.frmtrm_amount, f.bfefrmtrm_amount
		FROM financials f
		JOIN companies c ON c.corp_code = f.corp_code
		WHERE c.corp_name = ?
		  AND f.bsns_year IN (
			SELECT DISTINCT f2.bsns_year
			FROM financials f2
			JOIN companies c2 ON c2.corp_code = f2.corp_code
			WHERE c2.corp_name = ?
			ORDER BY f2.bsns_year DESC
			LIMIT 3)
		ORDER BY f.bsns_year DESC, f.ord`,
		companyName, companyName,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statements []models.StoredStatement
	for rows.Next() {
		var row models.StoredStatement
		if err := rows.Scan(
			&row.BsnsYear, &row.AccountNm,
			&row.ThstrmAmount, &row.FrmtrmAmount, &row.BfefrmtrmAmount,
		); err != nil {
			return nil, err
		}
		statements = append(statements, row)
	}
	return statements, rows.Err()
}
