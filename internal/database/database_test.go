package database

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelseed/internal/config"
	"modelseed/internal/models"
	"modelseed/internal/observability"
)

func sqliteConfig(t *testing.T) *config.Config {
	return &config.Config{
		DBDriver:       "sqlite",
		DBDSN:          filepath.Join(t.TempDir(), "seed.db"),
		DBMaxOpenConns: 4,
		DBMaxIdleConns: 10,
	}
}

func TestConnect_SQLite(t *testing.T) {
	logger := observability.NewLogger(io.Discard, "error", "json")
	db, err := Connect(sqliteConfig(t), logger)
	require.NoError(t, err)
	defer Close(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 4, sqlDB.Stats().MaxOpenConnections)

	require.NoError(t, Migrate(context.Background(), db, models.App()))
	for _, table := range []string{"games", "players", "actions"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect(&config.Config{DBDriver: "mysql"}, nil)
	assert.Error(t, err)
}

func TestMigrate_NoModels(t *testing.T) {
	db, err := Connect(sqliteConfig(t), observability.NewLogger(io.Discard, "error", "json"))
	require.NoError(t, err)
	defer Close(db)

	assert.NoError(t, Migrate(context.Background(), db, nil))
}
