package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/ikkim/bizreview-backend/config"
	"github.com/ikkim/bizreview-backend/internal/db"
	"github.com/ikkim/bizreview-backend/pkg/logger"
	_ "github.com/lib/pq"
)

func main() {
	cmd := flag.String("cmd", "up", "migration command: up|down|status|reset|version")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Initialize(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "bizreview-migrate",
	})

	sqlDB, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Fatal("Failed to open database", err)
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	err = sqlDB.PingContext(ctx)
	cancel()
	if err != nil {
		logger.Fatal("Failed to reach database", err)
	}

	logger.Info("Migrate ready", map[string]interface{}{
		"cmd": *cmd,
	})

	ctx = context.Background()
	switch *cmd {
	case "up", "down", "status", "reset":
		err = db.RunMigrations(ctx, sqlDB, *cmd)
	case "version":
		if *version == "" {
			fmt.Fprintln(os.Stderr, "missing -version for version command")
			os.Exit(1)
		}
		err = db.MigrateToVersion(ctx, sqlDB, *version)
	default:
		fmt.Fprintln(os.Stderr, "unknown -cmd value:", *cmd)
		os.Exit(1)
	}

	if err != nil {
		logger.Error("Migration failed", err, map[string]interface{}{
			"cmd": *cmd,
		})
		os.Exit(1)
	}

	logger.Info("Migration finished", map[string]interface{}{
		"cmd": *cmd,
	})
}
