package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/finratio/backend/src/logger"
	"github.com/username/finratio/backend/src/models"
	"github.com/username/finratio/backend/src/services"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

// fakeFinancialService scripts the service layer for handler tests.
type fakeFinancialService struct {
	crawlResult *models.CrawlResult
	crawlErr    error
	statements  []models.FormattedYear
	deleted     int64
	deleteErr   error
	summary     *models.CrawlRunSummary
}

func (f *fakeFinancialService) CrawlAndSave(companyName string, year int) (*models.CrawlResult, error) {
	return f.crawlResult, f.crawlErr
}

func (f *fakeFinancialService) GetFormattedStatements(companyName string) ([]models.FormattedYear, error) {
	return f.statements, nil
}

func (f *fakeFinancialService) DeleteYear(companyName string, year int) (int64, error) {
	return f.deleted, f.deleteErr
}

func (f *fakeFinancialService) AutoCrawlAll() *models.CrawlRunSummary {
	return f.summary
}

func TestHandleCrawl(t *testing.T) {
	handler := NewFinancialHandler(&fakeFinancialService{
		crawlResult: &models.CrawlResult{Status: "success", Message: "saved"},
	})

	req := httptest.NewRequest("POST", "/api/financial",
		strings.NewReader(`{"companyName":"삼성전자","year":2023}`))
	rec := httptest.NewRecorder()
	handler.HandleCrawl(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var result models.CrawlResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "success", result.Status)
}

func TestHandleCrawlValidation(t *testing.T) {
	handler := NewFinancialHandler(&fakeFinancialService{})

	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"companyName":`},
		{"missing company name", `{"year":2023}`},
		{"whitespace company name", `{"companyName":"   "}`},
		{"negative year", `{"companyName":"삼성전자","year":-1}`},
		{"five-digit year", `{"companyName":"삼성전자","year":20233}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/financial", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.HandleCrawl(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleCrawlCompanyNotFound(t *testing.T) {
	handler := NewFinancialHandler(&fakeFinancialService{
		crawlErr: fmt.Errorf("%w: 없는회사", services.ErrCompanyNotFound),
	})

	req := httptest.NewRequest("POST", "/api/financial",
		strings.NewReader(`{"companyName":"없는회사"}`))
	rec := httptest.NewRecorder()
	handler.HandleCrawl(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetStatements(t *testing.T) {
	handler := NewFinancialHandler(&fakeFinancialService{
		statements: []models.FormattedYear{{FiscalYear: "2023"}},
	})

	req := httptest.NewRequest("GET", "/api/financial/statements?companyName=삼성전자", nil)
	rec := httptest.NewRecorder()
	handler.HandleGetStatements(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"사업연도":"2023"`)
}

func TestHandleGetStatementsRequiresCompanyName(t *testing.T) {
	handler := NewFinancialHandler(&fakeFinancialService{})

	req := httptest.NewRequest("GET", "/api/financial/statements", nil)
	rec := httptest.NewRecorder()
	handler.HandleGetStatements(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCrawlNow(t *testing.T) {
	handler := NewFinancialHandler(&fakeFinancialService{
		summary: &models.CrawlRunSummary{RunID: "run-1", Succeeded: 2},
	})

	req := httptest.NewRequest("POST", "/api/financial/crawl-now", nil)
	rec := httptest.NewRecorder()
	handler.HandleCrawlNow(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"runId":"run-1"`)
}

func TestHandleDeleteYear(t *testing.T) {
	handler := NewFinancialHandler(&fakeFinancialService{deleted: 42})

	req := httptest.NewRequest("DELETE", "/api/financial?companyName=삼성전자&year=2023", nil)
	rec := httptest.NewRecorder()
	handler.HandleDeleteYear(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"deleted":42`)
}

func TestHandleDeleteYearValidation(t *testing.T) {
	handler := NewFinancialHandler(&fakeFinancialService{})

	tests := []struct {
		name   string
		target string
	}{
		{"missing company name", "/api/financial?year=2023"},
		{"missing year", "/api/financial?companyName=삼성전자"},
		{"non-numeric year", "/api/financial?companyName=삼성전자&year=abc"},
		{"zero year", "/api/financial?companyName=삼성전자&year=0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("DELETE", tt.target, nil)
			rec := httptest.NewRecorder()
			handler.HandleDeleteYear(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
