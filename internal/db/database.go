package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ikkim/bizreview-backend/config"
	appLogger "github.com/ikkim/bizreview-backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultConnectTimeout = 5 * time.Second

var DB *gorm.DB

// Initialize connects to Postgres, sizes the pool from cfg and verifies the
// server answers within ConnectTimeout.
func Initialize(cfg *config.DatabaseConfig) error {
	appLogger.Info("Connecting to database", map[string]interface{}{
		"host":     cfg.Host,
		"port":     cfg.Port,
		"database": cfg.DBName,
		"user":     cfg.User,
		"from_url": cfg.URL != "",
	})

	gormDB, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	applyPool(sqlDB, cfg)

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return fmt.Errorf("database did not answer within %s: %w", timeout, err)
	}

	DB = gormDB
	appLogger.Info("Database ready", map[string]interface{}{
		"max_open_conns":     cfg.MaxOpenConns,
		"max_idle_conns":     cfg.MinIdleConns,
		"conn_max_idle_time": cfg.ConnMaxIdleTime.String(),
	})
	return nil
}

func applyPool(sqlDB *sql.DB, cfg *config.DatabaseConfig) {
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MinIdleConns)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
}

func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func GetDB() *gorm.DB {
	return DB
}
