package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ZamarianPatrick/lazypig-care/logger"
	"github.com/ZamarianPatrick/lazypig-care/model"
)

// DB is the gorm backed record store. All timestamps are written in UTC.
type DB struct {
	db *gorm.DB
}

type Options struct {
	// LogLevel is one of silent, error, warn, info, debug.
	LogLevel string
	// Logger receives gorm's output. Without one gorm stays silent.
	Logger logger.Logger
}

// Open opens (or creates) the sqlite database at path and migrates the schema.
func Open(path string, opts Options) (*DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
	}

	log := gormlogger.Discard
	if opts.Logger != nil {
		log = newGormLog(opts.Logger, gormLogLevel(opts.LogLevel))
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: log})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return New(db)
}

// New wraps an existing gorm connection and migrates the schema.
func New(db *gorm.DB) (*DB, error) {
	r := db.Exec("PRAGMA foreign_keys = ON")
	if r.Error != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", r.Error)
	}

	err := db.AutoMigrate(
		&model.Room{},
		&model.Plant{},
		&model.WateringEvent{},
		&model.UsageRecord{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &DB{db: db}, nil
}

func (s *DB) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping reports whether the underlying connection is usable.
func (s *DB) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Transaction runs fn against a store bound to a single transaction. The
// transaction commits when fn returns nil.
func (s *DB) Transaction(ctx context.Context, fn func(tx *DB) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&DB{db: tx})
	})
}

func (s *DB) with(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// gormLogLevel maps the service log level onto gorm's. Statements are only
// traced at debug.
func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug":
		return gormlogger.Info
	case "info", "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}
