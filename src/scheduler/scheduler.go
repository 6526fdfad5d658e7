// backend/src/scheduler/scheduler.go
package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/username/finratio/backend/src/logger"
	"github.com/username/finratio/backend/src/services"
)

// CrawlScheduler runs the batch crawl over the configured company
// universe on a cron schedule.
type CrawlScheduler struct {
	cron             *cron.Cron
	financialService services.FinancialService
	schedule         string
}

// NewCrawlScheduler creates a scheduler around the given service. The
// schedule is a standard five-field cron expression, e.g. "0 3 * * *"
// for daily at 03:00.
func NewCrawlScheduler(service services.FinancialService, schedule string) *CrawlScheduler {
	return &CrawlScheduler{
		cron:             cron.New(),
		financialService: service,
		schedule:         schedule,
	}
}

// Start registers the crawl job and starts the cron loop. It returns an
// error when the schedule expression does not parse; the caller decides
// whether to run without a scheduler.
func (s *CrawlScheduler) Start() error {
	entryID, err := s.cron.AddFunc(s.schedule, s.runBatchCrawl)
	if err != nil {
		return fmt.Errorf("registering crawl schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	logger.L.Info("Crawl scheduler started", "schedule", s.schedule, "entryId", int(entryID))
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *CrawlScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.L.Info("Crawl scheduler stopped")
}

func (s *CrawlScheduler) runBatchCrawl() {
	logger.L.Info("Scheduled batch crawl triggered")
	summary := s.financialService.AutoCrawlAll()
	logger.L.Info("Scheduled batch crawl finished",
		"runId", summary.RunID, "succeeded", summary.Succeeded, "failed", summary.Failed,
		"duration", summary.Duration)
}
