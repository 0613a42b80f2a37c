package persistence

import (
	"database/sql"
	"fmt"
	"net/url"

	"video-digest/infrastructure/configuration"

	_ "github.com/microsoft/go-mssqldb"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
)

// newSQLServerDialector targets Azure SQL / SQL Server through go-mssqldb.
func newSQLServerDialector(cfg configuration.Database) (gorm.Dialector, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = sqlServerDSN(cfg)
	}
	sqlDB, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, err
	}
	return sqlserver.New(sqlserver.Config{Conn: sqlDB}), nil
}

func sqlServerDSN(cfg configuration.Database) string {
	q := url.Values{}
	if cfg.Name != "" {
		q.Set("database", cfg.Name)
	}
	// Azure SQL requires encryption; local containers use self-signed certs.
	q.Set("encrypt", "true")
	if cfg.Host == "localhost" || cfg.Host == "127.0.0.1" {
		q.Set("TrustServerCertificate", "true")
	}

	u := &url.URL{Scheme: "sqlserver", Host: fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)}
	if cfg.User != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		} else {
			u.User = url.User(cfg.User)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
