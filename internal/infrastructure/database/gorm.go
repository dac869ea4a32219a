package database

import (
	"fmt"

	"portal_orcamentos/internal/config"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenGorm opens the SQL database behind the sqlite or postgres storage drivers.
func OpenGorm(cfg config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.SQLite.Path)
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.Postgres.DSN)
	default:
		return nil, fmt.Errorf("storage driver %q is not backed by gorm", cfg.Storage.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Storage.Driver, err)
	}
	return db, nil
}
