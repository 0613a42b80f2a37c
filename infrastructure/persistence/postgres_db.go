package persistence

import (
	"database/sql"
	"fmt"

	"video-digest/infrastructure/configuration"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newPostgresDialector opens the pool with lib/pq and hands it to gorm.
func newPostgresDialector(cfg configuration.Database) (gorm.Dialector, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)
	}
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	return postgres.New(postgres.Config{Conn: sqlDB}), nil
}
