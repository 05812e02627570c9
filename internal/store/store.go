// Package store opens the configured backend for the books collection.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bookquery/internal/book"
	"bookquery/internal/config"
	"bookquery/internal/seed"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const pingTimeout = 2 * time.Second

// Backend is an open repository together with its lifecycle hooks.
type Backend struct {
	Driver string
	Repo   book.Repository
	ping   func(ctx context.Context) error
	close  func()
}

// Ping reports whether the underlying store is reachable.
func (b *Backend) Ping(ctx context.Context) error {
	if b.ping == nil {
		return nil
	}
	return b.ping(ctx)
}

// Close releases the connection pool, if any.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open connects to the backend named by cfg.Driver and verifies it answers.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Backend, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, logger)
	case config.DriverSQLite:
		return openSQLite(ctx, cfg, logger)
	case config.DriverMemory:
		return openMemory(logger)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Driver)
	}
}

// openMemory starts the in-process store preloaded with the sample
// collection, since nothing else can ever fill it.
func openMemory(logger *slog.Logger) (*Backend, error) {
	books, err := seed.Books()
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	logger.Info("using in-memory book store", "seeded", len(books))
	return &Backend{Driver: config.DriverMemory, Repo: book.NewMemoryRepo(books)}, nil
}

func openPostgres(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Backend, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("store: create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping database (%s): %w", RedactDSN(cfg.DSN), err)
	}
	logger.Info("database connection OK", "driver", cfg.Driver, "dsn", RedactDSN(cfg.DSN))

	return &Backend{
		Driver: cfg.Driver,
		Repo:   book.NewPostgresRepo(pool, cfg.QueryTimeout),
		ping:   pool.Ping,
		close:  pool.Close,
	}, nil
}

func openSQLite(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Backend, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite3", cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite %s: %w", cfg.SQLitePath, err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	repo := book.NewSQLiteRepo(db, cfg.QueryTimeout)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("database connection OK", "driver", cfg.Driver, "path", cfg.SQLitePath)

	return &Backend{
		Driver: cfg.Driver,
		Repo:   repo,
		ping:   db.PingContext,
		close:  func() { _ = db.Close() },
	}, nil
}

// RedactDSN hides the credentials of a URL-style DSN.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
