package repository

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/groupwatchapp/groupwatchbackend/models"
)

// newTestDB opens a fresh sqlite database in a per-test temp directory
// and migrates the schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// a single connection keeps concurrent test writers from tripping
	// over sqlite's file lock
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get underlying sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.PersonProfile{}, &models.Watcher{}, &models.FilteredImage{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}
