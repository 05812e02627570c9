package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"bookquery/internal/book"
	"bookquery/internal/config"
	"bookquery/internal/logging"
	"bookquery/internal/seed"
	"bookquery/internal/store"
)

func main() {
	var (
		file  = flag.String("file", "", "JSON array of book documents (defaults to the bundled sample)")
		reset = flag.Bool("reset", false, "Delete every book before inserting")
	)
	flag.Parse()

	cfg, err := config.LoadValidated()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel)
	os.Exit(run(context.Background(), cfg, logger, *file, *reset))
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger, file string, reset bool) int {
	if cfg.Driver == config.DriverMemory {
		logger.Error("seeding the in-memory store has no lasting effect; set DB_DRIVER")
		return 1
	}

	books, err := seed.Load(file)
	if err != nil {
		logger.Error("cannot load books", "error", err)
		return 1
	}

	backend, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("cannot open store", "error", err)
		return 1
	}
	defer backend.Close()

	svc := book.NewService(backend.Repo, logger, cfg.PageSize)
	if reset {
		n, err := svc.Reset(ctx)
		if err != nil {
			logger.Error("failed to clear books", "error", err)
			return 1
		}
		logger.Info("cleared books", "deleted", n)
	}

	ids, err := svc.Seed(ctx, books)
	if err != nil {
		logger.Error("failed to insert books", "error", err)
		return 1
	}
	logger.Info("successfully inserted books", "count", len(ids))

	all, err := svc.GetPage(ctx, 1, 1<<20)
	if err == nil {
		logger.Info("total books in database", "count", len(all))
	}
	return 0
}
