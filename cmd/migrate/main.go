package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"bookquery/internal/config"
	"bookquery/internal/logging"
	"bookquery/internal/store"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	cfg, err := config.LoadValidated()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel)
	os.Exit(run(cfg, logger, *command, *name))
}

func run(cfg config.Config, logger *slog.Logger, command, name string) int {
	dialect, sqlDriver, err := gooseDialect(cfg.Driver)
	if err != nil {
		logger.Error("cannot migrate", "error", err)
		return 1
	}

	db, err := sql.Open(sqlDriver, dataSource(cfg))
	if err != nil {
		logger.Error("failed to connect to database", "dsn", store.RedactDSN(cfg.DSN), "error", err)
		return 1
	}
	defer db.Close()

	if err := goose.SetDialect(dialect); err != nil {
		logger.Error("unsupported goose dialect", "dialect", dialect, "error", err)
		return 1
	}

	migrationsDir := migrationsPath(cfg.MigrationsDir, dialect)

	switch command {
	case "up":
		if err := goose.Up(db, migrationsDir); err != nil {
			logger.Error("failed to run migrations", "dir", migrationsDir, "error", err)
			return 1
		}
		fmt.Println("Migrations applied successfully")
	case "down":
		if err := goose.Down(db, migrationsDir); err != nil {
			logger.Error("failed to roll back migrations", "dir", migrationsDir, "error", err)
			return 1
		}
		fmt.Println("Migrations rolled back successfully")
	case "status":
		if err := goose.Status(db, migrationsDir); err != nil {
			logger.Error("failed to check migration status", "error", err)
			return 1
		}
	case "create":
		if name == "" {
			logger.Error("name is required for 'create' command")
			return 1
		}
		if err := goose.Create(nil, migrationsDir, name, "sql"); err != nil {
			logger.Error("failed to create migration", "error", err)
			return 1
		}
		fmt.Printf("Migration created: %s\n", name)
	default:
		logger.Error("unknown command; use up, down, status, create", "command", command)
		return 1
	}
	return 0
}
