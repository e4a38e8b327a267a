package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/playwise/playwise/internal/logger"
)

var ErrNotInitialized = errors.New("database not initialized")

type Database struct {
	db   *gorm.DB
	path string
	mu   sync.RWMutex
}

type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
}

func DefaultConfig(path string) Config {
	return Config{
		Path: path,
		// SQLite serialises writers anyway
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		LogLevel:        "silent",
	}
}

// Open connects to the SQLite file at cfg.Path, creating it and its
// directory when needed, and migrates the schema.
func Open(cfg Config) (*Database, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(parseLogLevel(cfg.LogLevel)),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		PrepareStmt:                              true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if err := db.Exec("PRAGMA busy_timeout = 5000").Error; err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	d := &Database{db: db, path: cfg.Path}
	if err := d.Migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Debug("Database opened", logger.String("path", cfg.Path))
	return d, nil
}

func parseLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent", "":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

func (d *Database) Migrate() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return ErrNotInitialized
	}

	models := []interface{}{
		&songRow{},
		&playCountRow{},
		&ratingRow{},
		&listEntryRow{},
	}
	for _, model := range models {
		if err := d.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return d.createIndexes()
}

func (d *Database) createIndexes() error {
	indexes := []struct {
		Table   string
		Name    string
		Columns []string
	}{
		{"songs", "idx_songs_title", []string{"title"}},
		{"ratings", "idx_ratings_rating_seq", []string{"rating", "seq"}},
		{"list_entries", "idx_list_entries_list_seq", []string{"list", "seq"}},
	}

	for _, idx := range indexes {
		sql := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
			idx.Name, idx.Table, strings.Join(idx.Columns, ", "))
		if err := d.db.Exec(sql).Error; err != nil {
			logger.Warn("Failed to create index",
				logger.String("index", idx.Name),
				logger.Error(err))
		}
	}
	return nil
}

func (d *Database) DB() *gorm.DB {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.db
}

func (d *Database) Path() string {
	return d.path
}

func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return nil
	}
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	d.db = nil
	return sqlDB.Close()
}

// Backup writes a consistent copy of the database to path.
func (d *Database) Backup(path string) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.db == nil {
		return ErrNotInitialized
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}
	if err := d.db.Exec("VACUUM INTO ?", path).Error; err != nil {
		return fmt.Errorf("failed to backup database: %w", err)
	}

	logger.Info("Database backed up", logger.String("path", path))
	return nil
}

// StateTables lists the snapshot tables in the order Stats reports them.
var StateTables = []string{"songs", "play_counts", "ratings", "list_entries"}

// Stats reports row counts per table.
func (d *Database) Stats() (map[string]int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.db == nil {
		return nil, ErrNotInitialized
	}

	stats := make(map[string]int64)
	for _, table := range StateTables {
		var count int64
		if err := d.db.Table(table).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		stats[table] = count
	}
	return stats, nil
}
