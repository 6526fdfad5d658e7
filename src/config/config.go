package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port         string
	DatabasePath string
	LogLevel     string

	DartAPIKey       string
	DartBaseURL      string
	DartFetchTimeout time.Duration

	// CrawlSchedule is a standard 5-field cron expression for the daily
	// batch crawl. CrawlCompanies is the company universe it iterates.
	CrawlSchedule  string
	CrawlCompanies []string

	AllowedOrigins []string

	CompanyCacheExpiry time.Duration
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	dartAPIKey := getEnv("DART_API_KEY", "")
	if dartAPIKey == "" {
		log.Fatalf("FATAL: DART_API_KEY is required but not set in environment or .env file.")
	}

	fetchTimeout := getEnvAsDuration("DART_FETCH_TIMEOUT", 20*time.Second)
	cacheExpiry := getEnvAsDuration("COMPANY_CACHE_EXPIRY", 12*time.Hour)

	Cfg = &AppConfig{
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "./finratio.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		DartAPIKey:       dartAPIKey,
		DartBaseURL:      getEnv("DART_API_BASE_URL", "https://opendart.fss.or.kr/api"),
		DartFetchTimeout: fetchTimeout,

		// Daily at 03:00, matching the original ingestion window.
		CrawlSchedule:  getEnv("CRAWL_SCHEDULE", "0 3 * * *"),
		CrawlCompanies: getEnvAsList("CRAWL_COMPANIES", ""),

		AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", "http://localhost:3000"),

		CompanyCacheExpiry: cacheExpiry,
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, CrawlSchedule=%q, CrawlCompanies=%d",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.CrawlSchedule, len(Cfg.CrawlCompanies))
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Integer value for %s not set or empty, using default: %d", key, fallback)
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Duration value for %s not set or empty, using default: %s", key, fallback.String())
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}

// getEnvAsList splits a comma-separated environment variable, trimming
// whitespace and dropping empty entries.
func getEnvAsList(key, fallback string) []string {
	valueStr := getEnv(key, fallback)
	if valueStr == "" {
		return nil
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
