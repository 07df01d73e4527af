// Package testutil provides shared fixtures: an isolated in-memory
// database and a local cache, both torn down with the test.
package testutil

import (
	"testing"

	"github.com/mistfall/emberhold/cache"
	"github.com/mistfall/emberhold/config"
	"github.com/mistfall/emberhold/db"
	"github.com/mistfall/emberhold/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// SetupTestDB opens a uniquely-named shared in-memory sqlite database
// and migrates the full schema.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(config.DatabaseConfig{Mode: db.ModeSQLiteMemory})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

// SetupTestCache returns the in-process cache implementation.
func SetupTestCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.New(cache.Config{})
	require.NoError(t, err)
	return c
}

// SetupTestPubSub returns the in-process pubsub implementation.
func SetupTestPubSub(t *testing.T) cache.PubSub {
	t.Helper()
	ps, err := cache.NewPubSub(cache.Config{LocalPubSubBuf: 16})
	require.NoError(t, err)
	return ps
}
