package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/username/finratio/backend/src/database"
	"github.com/username/finratio/backend/src/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

// setupTestDB points the global connection at a fresh on-disk database
// for one test.
func setupTestDB(t *testing.T) {
	t.Helper()
	database.InitDB(filepath.Join(t.TempDir(), "test.db"))
	t.Cleanup(func() {
		if database.DB != nil {
			database.DB.Close()
		}
	})
}
