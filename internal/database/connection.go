package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var log = logrus.New()

// backoff between connection attempts, also the upper bound on attempts
var backoff = []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second}

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogger replaces the package logger
func SetLogger(l *logrus.Logger) {
	log = l
}

type poolSettings struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
}

// pool returns the connection pool limits for a driver. Each sqlite
// connection to ":memory:" is its own database, so sqlite gets one connection.
func pool(driver string) poolSettings {
	if isSQLite(driver) {
		return poolSettings{maxOpen: 1, maxIdle: 1}
	}
	return poolSettings{maxOpen: 25, maxIdle: 5, maxLifetime: 5 * time.Minute}
}

func isSQLite(driver string) bool {
	return driver == "sqlite" || driver == ""
}

func dialector(cfg DatabaseConfig, driver string) (gorm.Dialector, error) {
	switch {
	case driver == "postgres" || driver == "postgresql":
		return postgres.Open(cfg.DSN()), nil
	case isSQLite(driver):
		return sqlite.Open(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s (supported: postgres, sqlite)", cfg.Driver)
	}
}

// InitDatabase opens the configured database, pings it and sizes its pool.
// Failed attempts are retried with exponential backoff up to cfg.MaxRetries.
func InitDatabase(cfg DatabaseConfig) (*gorm.DB, error) {
	driver := strings.ToLower(cfg.Driver)
	dial, err := dialector(cfg, driver)
	if err != nil {
		return nil, err
	}

	attempts := cfg.MaxRetries
	if attempts <= 0 || attempts > len(backoff) {
		attempts = len(backoff)
	}

	entry := log.WithFields(logrus.Fields{
		"db_driver": driver,
		"db_host":   cfg.Host,
		"db_name":   cfg.Name,
		"db_path":   cfg.Path,
	})
	entry.Info("Connecting to database")

	for attempt := 1; ; attempt++ {
		db, err := connect(dial, pool(driver))
		if err == nil {
			entry.WithField("attempt", attempt).Info("Database ready")
			return db, nil
		}
		if attempt == attempts {
			return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempts, err)
		}

		delay := backoff[attempt-1]
		entry.WithError(err).WithFields(logrus.Fields{
			"attempt": attempt,
			"delay":   delay,
		}).Warn("Database connection failed, retrying")
		time.Sleep(delay)
	}
}

func connect(dial gorm.Dialector, settings poolSettings) (*gorm.DB, error) {
	db, err := gorm.Open(dial, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(settings.maxOpen)
	sqlDB.SetMaxIdleConns(settings.maxIdle)
	sqlDB.SetConnMaxLifetime(settings.maxLifetime)
	return db, nil
}

// Migrate creates or updates the tables for the given models
func Migrate(db *gorm.DB, models ...interface{}) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.WithField("models", len(models)).Debug("Schema migrated")
	return nil
}
