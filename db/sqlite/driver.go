// Package sqlite opens the embedded database used for development and
// tests.
package sqlite

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the SQLite file (or DSN) at path. Query logging is
// off; the HTTP access log is the observable surface.
func Open(path string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	return gorm.Open(sqlite.Open(path), cfg)
}
