package testutil

import (
	"testing"

	"github.com/emberquest/server/cache"
	dbsqlite "github.com/emberquest/server/db/sqlite"
	"github.com/emberquest/server/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// SetupTestDB creates an in-memory SQLite DB and runs AutoMigrate.
// It requires no external services and is safe to use in parallel tests.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := dbsqlite.Open(":memory:")
	require.NoError(t, err, "SetupTestDB: Open")
	require.NoError(t, model.AutoMigrate(db), "SetupTestDB: AutoMigrate")
	return db
}

// SetupTestCache creates an in-process LocalCache (no Redis required).
func SetupTestCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.New(cache.Config{}) // empty RedisAddr → LocalCache
	require.NoError(t, err, "SetupTestCache: New")
	return c
}
