// Package db opens GORM connections to the tracker's relational store.
package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/psychiclamb/poster-tracker/internal/config"
)

// Connect opens a GORM connection for the configured driver.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.DSN()
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	var (
		conn *gorm.DB
		err  error
	)
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		conn, err = gorm.Open(sqlite.Open(dsn), gormCfg)
	default:
		conn, err = gorm.Open(mysql.Open(dsn), gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("db: connect (%s): %w", cfg.Database.Driver, err)
	}
	return conn, nil
}
