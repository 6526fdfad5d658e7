package services

import (
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/username/finratio/backend/src/database"
	"github.com/username/finratio/backend/src/logger"
	"github.com/username/finratio/backend/src/models"
	"github.com/username/finratio/backend/src/processors"
	"github.com/username/finratio/backend/src/utils"
)

// How many fiscal years the stored-statement views cover.
const storedYearWindow = 3

// financialServiceImpl implements the FinancialService interface.
type financialServiceImpl struct {
	source       FilingSource
	deduplicator processors.StatementDeduplicator
	companyCache *cache.Cache
	universe     []string
}

// NewFinancialService creates a new instance of FinancialService. The
// universe is the list of company names the batch crawl covers.
func NewFinancialService(
	source FilingSource,
	deduplicator processors.StatementDeduplicator,
	companyCache *cache.Cache,
	universe []string,
) FinancialService {
	return &financialServiceImpl{
		source:       source,
		deduplicator: deduplicator,
		companyCache: companyCache,
		universe:     universe,
	}
}

// CrawlAndSave acquires one company's annual statements and persists
// them. When rows for the request already exist the stored rows are
// returned without touching the filing source. A company with no filing
// data yields an error-status result, not an error: only infrastructure
// failures surface as errors.
func (s *financialServiceImpl) CrawlAndSave(companyName string, year int) (*models.CrawlResult, error) {
	company, err := s.resolveCompany(companyName)
	if err != nil {
		return nil, err
	}

	existing, err := s.getStoredStatements(company.CorpCode, year)
	if err != nil {
		return nil, fmt.Errorf("checking stored statements for %s: %w", companyName, err)
	}
	if len(existing) > 0 {
		logger.L.Info("Statements already stored, skipping fetch",
			"company", companyName, "year", year, "rows", len(existing))
		return &models.CrawlResult{
			Status:  "success",
			Message: fmt.Sprintf("financial statements for %s already stored", companyName),
			Data:    existing,
		}, nil
	}

	fetched, err := s.source.FetchStatements(company.CorpCode, year)
	if err != nil {
		return nil, fmt.Errorf("fetching statements for %s: %w", companyName, err)
	}
	if len(fetched) == 0 {
		logger.L.Warn("Filing source returned no statements", "company", companyName, "year", year)
		return &models.CrawlResult{
			Status:  "error",
			Message: fmt.Sprintf("no filing data found for %s", companyName),
		}, nil
	}

	deduped := s.deduplicator.Dedupe(fetched)
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].OrdValue() < deduped[j].OrdValue()
	})

	if err := s.persistStatements(company, deduped); err != nil {
		return nil, fmt.Errorf("persisting statements for %s: %w", companyName, err)
	}

	saved, err := s.getStoredStatements(company.CorpCode, year)
	if err != nil {
		return nil, fmt.Errorf("re-reading stored statements for %s: %w", companyName, err)
	}

	logger.L.Info("Statements crawled and saved",
		"company", companyName, "year", year, "rows", len(saved))
	return &models.CrawlResult{
		Status:  "success",
		Message: fmt.Sprintf("financial statements for %s saved", companyName),
		Data:    saved,
	}, nil
}

// GetFormattedStatements serves the stored statements of the three most
// recent fiscal years grouped per year and statement family. A company
// with nothing stored yields an empty slice.
func (s *financialServiceImpl) GetFormattedStatements(companyName string) ([]models.FormattedYear, error) {
	company, err := s.lookupStoredCompany(companyName)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return []models.FormattedYear{}, nil
	}

	rows, err := s.getStoredStatements(company.CorpCode, 0)
	if err != nil {
		return nil, fmt.Errorf("reading stored statements for %s: %w", companyName, err)
	}
	return formatStatements(rows), nil
}

// DeleteYear removes one company's stored statements for one fiscal
// year and reports how many rows went away.
func (s *financialServiceImpl) DeleteYear(companyName string, year int) (int64, error) {
	company, err := s.lookupStoredCompany(companyName)
	if err != nil {
		return 0, err
	}
	if company == nil {
		return 0, fmt.Errorf("%w: %s", ErrCompanyNotFound, companyName)
	}

	result, err := database.DB.Exec(
		"DELETE FROM financials WHERE corp_code = ? AND bsns_year = ?",
		company.CorpCode, strconv.Itoa(year),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting statements for %s year %d: %w", companyName, year, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	logger.L.Info("Deleted stored statements", "company", companyName, "year", year, "rows", deleted)
	return deleted, nil
}

// AutoCrawlAll runs CrawlAndSave over the configured company universe.
// One company's failure never stops the run; every outcome lands in the
// summary.
func (s *financialServiceImpl) AutoCrawlAll() *models.CrawlRunSummary {
	runID := uuid.NewString()
	startedAt := time.Now()
	summary := &models.CrawlRunSummary{
		RunID:     runID,
		StartedAt: startedAt.UTC().Format(time.RFC3339),
		Companies: make([]models.CompanyCrawlStatus, 0, len(s.universe)),
	}

	logger.L.Info("Starting batch crawl", "runId", runID, "companies", len(s.universe))

	for _, companyName := range s.universe {
		status := models.CompanyCrawlStatus{CompanyName: companyName}

		result, err := s.CrawlAndSave(companyName, 0)
		switch {
		case err != nil:
			status.Status = "error"
			status.Message = err.Error()
			logger.L.Error("Batch crawl company failed", "runId", runID, "company", companyName, "error", err)
		case result.Status != "success":
			status.Status = "error"
			status.Message = result.Message
		default:
			status.Status = "success"
			status.RowCount = len(result.Data)
		}

		if status.Status == "success" {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
		summary.Companies = append(summary.Companies, status)
	}

	summary.Duration = time.Since(startedAt).Round(time.Millisecond).String()
	logger.L.Info("Batch crawl finished", "runId", runID,
		"succeeded", summary.Succeeded, "failed", summary.Failed, "duration", summary.Duration)
	return summary
}

// resolveCompany maps a company name to its identity: cache first, then
// the store, then the filing source. A source hit is persisted so the
// next resolution never leaves the process.
func (s *financialServiceImpl) resolveCompany(companyName string) (*models.Company, error) {
	cacheKey := "company:" + companyName
	if cached, found := s.companyCache.Get(cacheKey); found {
		company := cached.(models.Company)
		return &company, nil
	}

	company, err := s.lookupStoredCompany(companyName)
	if err != nil {
		return nil, err
	}
	if company == nil {
		company, err = s.source.FetchCompanyInfo(companyName)
		if err != nil {
			return nil, err
		}
		if err := s.persistCompany(company); err != nil {
			return nil, fmt.Errorf("persisting company %s: %w", companyName, err)
		}
	}

	s.companyCache.Set(cacheKey, *company, cache.DefaultExpiration)
	return company, nil
}

// lookupStoredCompany returns the stored identity, or nil when the name
// is unknown to the store.
func (s *financialServiceImpl) lookupStoredCompany(companyName string) (*models.Company, error) {
	var company models.Company
	err := database.DB.QueryRow(
		"SELECT corp_code, corp_name, stock_code FROM companies WHERE corp_name = ?",
		companyName,
	).Scan(&company.CorpCode, &company.CorpName, &company.StockCode)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up company %s: %w", companyName, err)
	}
	return &company, nil
}

func (s *financialServiceImpl) persistCompany(company *models.Company) error {
	_, err := database.DB.Exec(`
		INSERT INTO companies (corp_code, corp_name, stock_code)
		VALUES (?, ?, ?)
		ON CONFLICT(corp_code) DO UPDATE SET
			corp_name = excluded.corp_name,
			stock_code = excluded.stock_code,
			updated_at = CURRENT_TIMESTAMP`,
		company.CorpCode, company.CorpName, company.StockCode,
	)
	return err
}

// persistStatements writes one deduplicated batch in a single
// transaction, normalizing amounts on the way in. Refetched rows update
// in place through the (corp_code, bsns_year, sj_div, account_nm) key.
func (s *financialServiceImpl) persistStatements(company *models.Company, items []models.RawStatement) error {
	tx, err := database.DB.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO companies (corp_code, corp_name, stock_code)
		VALUES (?, ?, ?)
		ON CONFLICT(corp_code) DO UPDATE SET
			corp_name = excluded.corp_name,
			stock_code = excluded.stock_code,
			updated_at = CURRENT_TIMESTAMP`,
		company.CorpCode, company.CorpName, company.StockCode,
	); err != nil {
		return fmt.Errorf("upserting company: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO financials (
			corp_code, bsns_year, sj_div, sj_nm, account_nm,
			thstrm_nm, thstrm_amount, frmtrm_nm, frmtrm_amount,
			bfefrmtrm_nm, bfefrmtrm_amount, ord, currency, rcept_no, reprt_code
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(corp_code, bsns_year, sj_div, account_nm) DO UPDATE SET
			sj_nm = excluded.sj_nm,
			thstrm_nm = excluded.thstrm_nm,
			thstrm_amount = excluded.thstrm_amount,
			frmtrm_nm = excluded.frmtrm_nm,
			frmtrm_amount = excluded.frmtrm_amount,
			bfefrmtrm_nm = excluded.bfefrmtrm_nm,
			bfefrmtrm_amount = excluded.bfefrmtrm_amount,
			ord = excluded.ord,
			currency = excluded.currency,
			rcept_no = excluded.rcept_no,
			reprt_code = excluded.reprt_code,
			updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("preparing statement insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		_, err := stmt.Exec(
			company.CorpCode,
			item.BsnsYear,
			item.SjDiv,
			item.SjNm,
			item.AccountNm,
			item.ThstrmNm,
			utils.NormalizeAmount(item.ThstrmAmount),
			item.FrmtrmNm,
			utils.NormalizeAmount(item.FrmtrmAmount),
			item.BfefrmtrmNm,
			utils.NormalizeAmount(item.BfefrmtrmAmount),
			item.OrdValue(),
			item.Currency,
			item.RceptNo,
			item.ReprtCode,
		)
		if err != nil {
			return fmt.Errorf("inserting %s/%s/%s: %w", item.BsnsYear, item.SjDiv, item.AccountNm, err)
		}
	}

	return tx.Commit()
}

// getStoredStatements reads one company's stored rows. A year of 0 means
// the window of the storedYearWindow most recent fiscal years.
func (s *financialServiceImpl) getStoredStatements(corpCode string, year int) ([]models.StoredStatement, error) {
	query := `
		SELECT f.corp_code, c.corp_name, c.stock_code, f.rcept_no, f.reprt_code,
		       f.bsns_year, f.sj_div, f.sj_nm, f.account_nm,
		       f.thstrm_nm, f.thstrm_amount, f.frmtrm_nm, f.frmtrm_amount,
		       f.bfefrmtrm_nm, f.bfefrmtrm_amount, f.ord, f.currency
		FROM financials f
		JOIN companies c ON c.corp_code = f.corp_code
		WHERE f.corp_code = ?`
	args := []interface{}{corpCode}

	if year > 0 {
		query += " AND f.bsns_year = ?"
		args = append(args, strconv.Itoa(year))
	} else {
		query += ` AND f.bsns_year IN (
			SELECT DISTINCT bsns_year FROM financials
			WHERE corp_code = ? ORDER BY bsns_year DESC LIMIT ?)`
		args = append(args, corpCode, storedYearWindow)
	}
	query += " ORDER BY f.bsns_year DESC, f.sj_div, f.ord"

	rows, err := database.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statements []models.StoredStatement
	for rows.Next() {
		var row models.StoredStatement
		var sjNm, thstrmNm, frmtrmNm, bfefrmtrmNm, currency, rceptNo, reprtCode sql.NullString
		if err := rows.Scan(
			&row.CorpCode, &row.CorpName, &row.StockCode, &rceptNo, &reprtCode,
			&row.BsnsYear, &row.SjDiv, &sjNm, &row.AccountNm,
			&thstrmNm, &row.ThstrmAmount, &frmtrmNm, &row.FrmtrmAmount,
			&bfefrmtrmNm, &row.BfefrmtrmAmount, &row.Ord, &currency,
		); err != nil {
			return nil, err
		}
		row.SjNm = sjNm.String
		row.ThstrmNm = thstrmNm.String
		row.FrmtrmNm = frmtrmNm.String
		row.BfefrmtrmNm = bfefrmtrmNm.String
		row.Currency = currency.String
		row.RceptNo = rceptNo.String
		row.ReprtCode = reprtCode.String
		statements = append(statements, row)
	}
	return statements, rows.Err()
}
