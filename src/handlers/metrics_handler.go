// backend/src/handlers/metrics_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/username/finratio/backend/src/logger"
	"github.com/username/finratio/backend/src/security/validation"
	"github.com/username/finratio/backend/src/services"
	"github.com/username/finratio/backend/src/utils"
)

type MetricsHandler struct {
	ratioService services.RatioService
}

func NewMetricsHandler(service services.RatioService) *MetricsHandler {
	return &MetricsHandler{
		ratioService: service,
	}
}

// HandleGetMetrics serves the derived financial-metrics response with
// ETag support. A company with nothing stored still gets a 200 with
// empty series; the response shape is the contract.
func (h *MetricsHandler) HandleGetMetrics(w http.ResponseWriter, r *http.Request) {
	companyName := validation.SanitizeCompanyName(r.URL.Query().Get("companyName"))
	if companyName == "" {
		utils.SendJSONError(w, "companyName query parameter is required", http.StatusBadRequest)
		return
	}
	logger.L.Debug("Handling metrics request with ETag support", "company", companyName)

	response, err := h.ratioService.CalculateMetrics(companyName)
	if err != nil {
		logger.L.Error("Error calculating financial metrics", "company", companyName, "error", err)
		utils.SendJSONError(w, "An internal error occurred while calculating financial metrics.", http.StatusInternalServerError)
		return
	}

	currentETag, etagErr := utils.GenerateETag(response)
	if etagErr != nil {
		logger.L.Error("Failed to generate ETag for metrics response", "company", companyName, "error", etagErr)
	}

	w.Header().Set("Cache-Control", "no-cache, private")

	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		clientETags := strings.Split(r.Header.Get("If-None-Match"), ",")
		for _, clientETag := range clientETags {
			if strings.TrimSpace(clientETag) == quotedETag {
				logger.L.Debug("ETag match for metrics response", "company", companyName, "etag", currentETag)
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.L.Error("Error encoding metrics response", "company", companyName, "error", err)
	}
}
