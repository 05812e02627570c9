package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"bookquery/internal/book"
	"bookquery/internal/config"
	"bookquery/internal/logging"
	"bookquery/internal/store"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command line and returns the process exit code, so the
// store is closed before the process exits.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.LoadValidated()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	logger := logging.NewWithWriter(stderr, cfg.LogLevel)

	backend, err := store.Open(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer backend.Close()

	e := &env{svc: book.NewService(backend.Repo, logger, cfg.PageSize), out: stdout}
	root := newRootCmd(e)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
