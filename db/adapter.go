package db

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mistfall/emberhold/config"
	dbmysql "github.com/mistfall/emberhold/db/mysql"
	dbsqlite "github.com/mistfall/emberhold/db/sqlite"
	"gorm.io/gorm"
)

const (
	ModeSQLite       = "sqlite"
	ModeSQLiteMemory = "sqlite_memory"
	ModeMySQL        = "mysql"
)

// Open returns a *gorm.DB for the configured database mode.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Mode {
	case ModeSQLite:
		return dbsqlite.Open(cfg.SQLitePath)
	case ModeSQLiteMemory:
		// A uniquely named shared-cache memory DB: every connection in
		// the pool sees the same data, but parallel tests stay isolated.
		dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
		return dbsqlite.Open(dsn)
	case ModeMySQL:
		return dbmysql.Open(cfg.MySQLDSN, cfg.MySQLMaxOpen, cfg.MySQLMaxIdle, cfg.MySQLMaxLife)
	default:
		return nil, fmt.Errorf("db: unknown mode %q", cfg.Mode)
	}
}
