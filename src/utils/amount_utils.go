package utils

import (
	"strconv"
	"strings"

	"github.com/username/finratio/backend/src/logger"
)

// NormalizeAmount converts a locale-formatted DART amount string
// ("1,234,567") into a float64. The conversion is one-way and fails soft:
// empty or unparseable input yields 0.0 and is logged, never an error.
// Display formatting keeps the original term-name strings, so nothing
// downstream needs to reconstruct the source text.
func NormalizeAmount(raw string) float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0.0
	}
	cleaned := strings.ReplaceAll(trimmed, ",", "")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		if logger.L != nil {
			logger.L.Warn("Failed to normalize amount string", "raw", raw, "error", err)
		}
		return 0.0
	}
	return value
}
