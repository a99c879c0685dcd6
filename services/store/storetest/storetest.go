// Package storetest opens throwaway in-memory stores for tests.
package storetest

import (
	"Courtside/config"
	"Courtside/services/store"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database. A single connection
// keeps the whole test on one database and serializes writers.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.MigrateDatabase(db))
	return db
}

func NewStore(t testing.TB) *store.GormStore {
	return store.NewGormStore(NewDB(t))
}
