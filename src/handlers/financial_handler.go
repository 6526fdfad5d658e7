// backend/src/handlers/financial_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/username/finratio/backend/src/logger"
	"github.com/username/finratio/backend/src/security/validation"
	"github.com/username/finratio/backend/src/services"
	"github.com/username/finratio/backend/src/utils"
)

type FinancialHandler struct {
	financialService services.FinancialService
}

func NewFinancialHandler(service services.FinancialService) *FinancialHandler {
	return &FinancialHandler{
		financialService: service,
	}
}

type crawlRequest struct {
	CompanyName string `json:"companyName"`
	Year        int    `json:"year"` // 0 means most recent available
}

// HandleCrawl acquires one company's statements on demand.
func (h *FinancialHandler) HandleCrawl(w http.ResponseWriter, r *http.Request) {
	var payload crawlRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body. Expecting JSON with companyName and optional year.", http.StatusBadRequest)
		return
	}

	companyName := validation.SanitizeCompanyName(payload.CompanyName)
	if companyName == "" {
		utils.SendJSONError(w, "companyName is required", http.StatusBadRequest)
		return
	}
	if payload.Year < 0 || payload.Year > 9999 {
		utils.SendJSONError(w, "year must be a 4-digit fiscal year", http.StatusBadRequest)
		return
	}

	logger.L.Info("Handling crawl request", "company", companyName, "year", payload.Year)
	result, err := h.financialService.CrawlAndSave(companyName, payload.Year)
	if err != nil {
		if errors.Is(err, services.ErrCompanyNotFound) {
			utils.SendJSONError(w, fmt.Sprintf("company not found: %s", companyName), http.StatusNotFound)
			return
		}
		logger.L.Error("Crawl request failed", "company", companyName, "year", payload.Year, "error", err)
		utils.SendJSONError(w, "An internal error occurred while crawling financial statements.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.L.Error("Error encoding crawl response", "company", companyName, "error", err)
	}
}

// HandleGetStatements serves the stored statements grouped per fiscal
// year and statement family.
func (h *FinancialHandler) HandleGetStatements(w http.ResponseWriter, r *http.Request) {
	companyName := validation.SanitizeCompanyName(r.URL.Query().Get("companyName"))
	if companyName == "" {
		utils.SendJSONError(w, "companyName query parameter is required", http.StatusBadRequest)
		return
	}

	statements, err := h.financialService.GetFormattedStatements(companyName)
	if err != nil {
		logger.L.Error("Error retrieving formatted statements", "company", companyName, "error", err)
		utils.SendJSONError(w, "An internal error occurred while reading stored statements.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(statements); err != nil {
		logger.L.Error("Error encoding statements response", "company", companyName, "error", err)
	}
}

// HandleCrawlNow runs the batch crawl over the configured company
// universe immediately, outside the schedule.
func (h *FinancialHandler) HandleCrawlNow(w http.ResponseWriter, r *http.Request) {
	logger.L.Info("Handling on-demand batch crawl request")
	summary := h.financialService.AutoCrawlAll()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(summary); err != nil {
		logger.L.Error("Error encoding batch crawl summary", "runId", summary.RunID, "error", err)
	}
}

// HandleDeleteYear removes one company's stored statements for one
// fiscal year.
func (h *FinancialHandler) HandleDeleteYear(w http.ResponseWriter, r *http.Request) {
	companyName := validation.SanitizeCompanyName(r.URL.Query().Get("companyName"))
	if companyName == "" {
		utils.SendJSONError(w, "companyName query parameter is required", http.StatusBadRequest)
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year <= 0 || year > 9999 {
		utils.SendJSONError(w, "year query parameter must be a 4-digit fiscal year", http.StatusBadRequest)
		return
	}

	deleted, err := h.financialService.DeleteYear(companyName, year)
	if err != nil {
		if errors.Is(err, services.ErrCompanyNotFound) {
			utils.SendJSONError(w, fmt.Sprintf("company not found: %s", companyName), http.StatusNotFound)
			return
		}
		logger.L.Error("Error deleting stored statements", "company", companyName, "year", year, "error", err)
		utils.SendJSONError(w, "An internal error occurred while deleting stored statements.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"companyName": companyName,
		"year":        year,
		"deleted":     deleted,
	}); err != nil {
		logger.L.Error("Error encoding delete response", "company", companyName, "error", err)
	}
}
