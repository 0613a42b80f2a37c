package persistence

import (
	"errors"
	"fmt"
	"time"

	"video-digest/infrastructure/configuration"
	"video-digest/infrastructure/logger"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDatabase opens the configured vendor and wraps it in gorm.
func NewDatabase(cfg configuration.Database) (*gorm.DB, error) {
	dialector, err := newDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, newGormConfig())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Vendor, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(2 * time.Minute)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Vendor, err)
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"vendor": cfg.Vendor,
		"host":   cfg.Host,
		"name":   cfg.Name,
	}).Info("Database connected")
	return db, nil
}

func newDialector(cfg configuration.Database) (gorm.Dialector, error) {
	switch cfg.Vendor {
	case "postgres", "postgresql", "":
		return newPostgresDialector(cfg)
	case "mysql":
		return newMySQLDialector(cfg), nil
	case "sqlserver", "mssql":
		return newSQLServerDialector(cfg)
	default:
		return nil, fmt.Errorf("unsupported database vendor %q", cfg.Vendor)
	}
}

func newGormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(logger.GetLogger(), gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
