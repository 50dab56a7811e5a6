package database

import (
	"testing"

	"github.com/blues/arbigrants/internal/config"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormLogger "gorm.io/gorm/logger"
)

func TestDSN(t *testing.T) {
	t.Parallel()

	got := DSN(config.DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "arb",
		Password: "secret",
		DBName:   "arbigrants",
		SSLMode:  "require",
	})

	assert.Equal(t, "host=db port=5433 user=arb password=secret dbname=arbigrants sslmode=require", got)
}

func TestMigrate(t *testing.T) {
	t.Parallel()

	db, err := Open(sqlite.Open(":memory:"), "silent")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))

	assert.True(t, db.Migrator().HasTable("arbigrants_labels_project_contracts"))
	assert.True(t, db.Migrator().HasTable("arbigrants_labels_project_metadata"))

	// idempotent
	require.NoError(t, Migrate(db))
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, gormLogger.Info, parseLogLevel("INFO"))
	assert.Equal(t, gormLogger.Warn, parseLogLevel("warning"))
	assert.Equal(t, gormLogger.Error, parseLogLevel("error"))
	assert.Equal(t, gormLogger.Silent, parseLogLevel(""))
}
