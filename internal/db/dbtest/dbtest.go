// Package dbtest opens throwaway migrated databases for tests.
package dbtest

import (
	"path/filepath" // Database file path
	"testing"       // Test lifecycle

	"dorm_booking/internal/db" // Schema migration

	"github.com/stretchr/testify/require" // Fatal assertions
	"gorm.io/driver/sqlite"               // SQLite driver
	"gorm.io/gorm"                        // GORM ORM library
	"gorm.io/gorm/logger"                 // Silenced query logs
)

// Open returns a migrated SQLite database living in t's temp dir.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}
