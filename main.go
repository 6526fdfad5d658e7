package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/finratio/backend/src/config"
	"github.com/username/finratio/backend/src/database"
	"github.com/username/finratio/backend/src/handlers"
	"github.com/username/finratio/backend/src/logger"
	"github.com/username/finratio/backend/src/processors"
	"github.com/username/finratio/backend/src/scheduler"
	"github.com/username/finratio/backend/src/services"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	allowedOrigins := make(map[string]bool, len(config.Cfg.AllowedOrigins))
	for _, origin := range config.Cfg.AllowedOrigins {
		allowedOrigins[origin] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Finratio backend server starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	logger.L.Info("Initializing company cache...", "expiry", config.Cfg.CompanyCacheExpiry)
	companyCache := cache.New(config.Cfg.CompanyCacheExpiry, 2*config.Cfg.CompanyCacheExpiry)

	logger.L.Info("Initializing services and handlers...")
	dartSource := services.NewDartService(
		config.Cfg.DartAPIKey,
		config.Cfg.DartBaseURL,
		config.Cfg.DartFetchTimeout,
	)

	deduplicator := processors.NewStatementDeduplicator()
	ratioProcessor := processors.NewRatioProcessor()
	growthProcessor := processors.NewGrowthProcessor()
	responseBuilder := processors.NewResponseBuilder()

	financialService := services.NewFinancialService(
		dartSource, deduplicator, companyCache, config.Cfg.CrawlCompanies,
	)
	ratioService := services.NewRatioService(ratioProcessor, growthProcessor, responseBuilder)

	financialHandler := handlers.NewFinancialHandler(financialService)
	metricsHandler := handlers.NewMetricsHandler(ratioService)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	apiRouter.HandleFunc("POST /api/financial", financialHandler.HandleCrawl)
	apiRouter.HandleFunc("DELETE /api/financial", financialHandler.HandleDeleteYear)
	apiRouter.HandleFunc("GET /api/financial/statements", financialHandler.HandleGetStatements)
	apiRouter.HandleFunc("GET /api/financial/metrics", metricsHandler.HandleGetMetrics)
	apiRouter.HandleFunc("POST /api/financial/crawl-now", financialHandler.HandleCrawlNow)

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "Finratio Backend is running"})
		} else {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
				http.NotFound(w, r)
			}
		}
	})

	if len(config.Cfg.CrawlCompanies) > 0 {
		crawlScheduler := scheduler.NewCrawlScheduler(financialService, config.Cfg.CrawlSchedule)
		if err := crawlScheduler.Start(); err != nil {
			logger.L.Error("Failed to start crawl scheduler, continuing without it", "error", err)
		} else {
			defer crawlScheduler.Stop()
		}
	} else {
		logger.L.Info("CRAWL_COMPANIES is empty, scheduled crawling disabled")
	}

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(rootMux))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
