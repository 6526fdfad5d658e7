package scheduler

import (
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/finratio/backend/src/logger"
	"github.com/username/finratio/backend/src/models"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

type countingService struct {
	runs atomic.Int32
}

func (c *countingService) CrawlAndSave(companyName string, year int) (*models.CrawlResult, error) {
	return &models.CrawlResult{Status: "success"}, nil
}

func (c *countingService) GetFormattedStatements(companyName string) ([]models.FormattedYear, error) {
	return nil, nil
}

func (c *countingService) DeleteYear(companyName string, year int) (int64, error) {
	return 0, nil
}

func (c *countingService) AutoCrawlAll() *models.CrawlRunSummary {
	c.runs.Add(1)
	return &models.CrawlRunSummary{RunID: "test-run"}
}

func TestSchedulerRunsBatchCrawl(t *testing.T) {
	service := &countingService{}
	scheduler := NewCrawlScheduler(service, "@every 100ms")

	require.NoError(t, scheduler.Start())
	defer scheduler.Stop()

	deadline := time.After(3 * time.Second)
	for service.runs.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("scheduled crawl never ran")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestSchedulerRejectsInvalidSchedule(t *testing.T) {
	scheduler := NewCrawlScheduler(&countingService{}, "not a schedule")

	err := scheduler.Start()
	assert.Error(t, err)
}

func TestSchedulerStopWaitsForJobs(t *testing.T) {
	service := &countingService{}
	scheduler := NewCrawlScheduler(service, "@every 50ms")
	require.NoError(t, scheduler.Start())

	time.Sleep(120 * time.Millisecond)
	scheduler.Stop()

	after := service.runs.Load()
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, after, service.runs.Load(), "no runs may start after Stop returns")
}
