// Package db owns the process-wide database handle
package db

import (
	"errors"
	"fmt"
	"murmur/feedback-api/model"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var conn *gorm.DB

// Connect opens the database configured under db.driver/db.dsn and
// memoizes the handle. Calling it again returns the live handle
// without reopening anything, so every caller can just ask for it.
func Connect() (*gorm.DB, error) {
	if conn != nil {
		zap.L().Debug("Reusing existing database connection")
		return conn, nil
	}

	dsn := viper.GetString("db.dsn")
	if dsn == "" {
		return nil, errors.New("no database connection string configured")
	}

	var dialector gorm.Dialector

	switch viper.GetString("db.driver") {
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector)
	if err != nil {
		return nil, fmt.Errorf("failed to open database, %w", err)
	}

	err = db.AutoMigrate(model.User{}, model.Message{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	conn = db
	zap.L().Info("Database connected", zap.String("driver", viper.GetString("db.driver")))

	return conn, nil
}
