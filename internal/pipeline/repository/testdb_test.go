package repository

import (
	"testing"

	"golang-stock-sentinel/pkg/sqlite"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := sqlite.NewDB(sqlite.Config{Path: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db.DB))
	return db.DB
}
