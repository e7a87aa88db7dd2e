package sqlite

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang-stock-sentinel/pkg/postgres"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config holds SQLite settings. Path ":memory:" opens a private in-memory database.
type Config struct {
	Path     string
	LogLevel string
}

// NewDB opens a SQLite database, creating the parent directory when needed.
func NewDB(cfg Config) (*postgres.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(postgres.ParseLogLevel(cfg.LogLevel)),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// A single connection keeps an in-memory database shared and serializes writers.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return &postgres.DB{DB: db}, nil
}
