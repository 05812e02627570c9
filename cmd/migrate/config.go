package main

import (
	"fmt"
	"path/filepath"

	"bookquery/internal/config"
)

// gooseDialect maps a DB_DRIVER value to the goose dialect and the
// database/sql driver name used to open it.
func gooseDialect(driver string) (dialect, sqlDriver string, err error) {
	switch driver {
	case config.DriverPostgres:
		return "postgres", "pgx", nil
	case config.DriverSQLite:
		return "sqlite3", "sqlite3", nil
	default:
		return "", "", fmt.Errorf("migrations are not supported for driver %q", driver)
	}
}

// migrationsPath is the per-dialect directory under root. The schemas differ
// in their id column, so each dialect carries its own files.
func migrationsPath(root, dialect string) string {
	return filepath.Join(root, dialect)
}

func dataSource(cfg config.Config) string {
	if cfg.Driver == config.DriverSQLite {
		return cfg.SQLitePath
	}
	return cfg.DSN
}
