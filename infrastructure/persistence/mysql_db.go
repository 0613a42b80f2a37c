package persistence

import (
	"fmt"

	"video-digest/infrastructure/configuration"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMySQLDialector(cfg configuration.Database) gorm.Dialector {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
	}
	return mysql.Open(dsn)
}
