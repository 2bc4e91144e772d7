// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/linkboard/linkboard/internal/config"
)

const (
	defaultMySQLExtras    = "charset=utf8mb4&parseTime=true&loc=UTC&timeout=5s"
	defaultPostgresExtras = "sslmode=disable connect_timeout=5"
)

// Create builds the Data Source Name for the configured engine.
// A configured DSN is returned unchanged.
func Create(cfg *config.Config) string {
	db := cfg.DB

	if db.DSN != "" {
		return db.DSN
	}

	switch db.GormEngine {
	case config.EngineMySQL:
		extras := db.Extras
		if extras == "" {
			extras = defaultMySQLExtras
		}

		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			db.User,
			db.Password,
			db.Host,
			db.Port,
			db.Name,
			extras,
		)
	case config.EnginePostgres:
		extras := db.Extras
		if extras == "" {
			extras = defaultPostgresExtras
		}

		return strings.TrimSpace(fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s %s",
			db.Host,
			db.Port,
			db.User,
			db.Password,
			db.Name,
			extras,
		))
	default:
		if db.Extras == "" {
			return db.Name
		}

		return db.Name + "?" + db.Extras
	}
}

// Dialector returns the gorm driver for the configured engine.
func Dialector(cfg *config.Config) gorm.Dialector {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return mysql.Open(Create(cfg))
	case config.EnginePostgres:
		return postgres.Open(Create(cfg))
	default:
		return sqlite.Open(Create(cfg))
	}
}
