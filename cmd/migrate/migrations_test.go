package main

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"bookquery/internal/book"
	"bookquery/internal/config"
	"bookquery/internal/logging"
	"bookquery/internal/store"
	"bookquery/internal/testutil"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dialects = []string{"postgres", "sqlite3"}

func repoMigrationsDir(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime.Caller failed")
	// this file lives in cmd/migrate/, so repo root is ../..
	repoRoot := filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", ".."))
	return filepath.Join(repoRoot, "db", "migrations")
}

func TestCollectMigrations_ParsesMigrationsDir(t *testing.T) {
	for _, dialect := range dialects {
		migrations, err := goose.CollectMigrations(migrationsPath(repoMigrationsDir(t), dialect), 0, goose.MaxVersion)
		require.NoError(t, err, dialect)
		assert.NotEmpty(t, migrations, dialect)
	}
}

func TestSQLMigrations_HaveGooseDirectives(t *testing.T) {
	for _, dialect := range dialects {
		dir := migrationsPath(repoMigrationsDir(t), dialect)
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)

		var sawBooks bool
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
				continue
			}
			b, err := os.ReadFile(filepath.Join(dir, e.Name()))
			require.NoError(t, err)
			s := string(b)
			assert.Contains(t, s, "-- +goose Up", e.Name())
			assert.Contains(t, s, "-- +goose Down", e.Name())
			if strings.Contains(s, "CREATE TABLE IF NOT EXISTS books") {
				sawBooks = true
			}
		}
		assert.True(t, sawBooks, "no %s migration creates the books table", dialect)
	}
}

func TestMigrationSets_HaveSameVersions(t *testing.T) {
	versions := map[string][]int64{}
	for _, dialect := range dialects {
		migrations, err := goose.CollectMigrations(migrationsPath(repoMigrationsDir(t), dialect), 0, goose.MaxVersion)
		require.NoError(t, err)
		for _, m := range migrations {
			versions[dialect] = append(versions[dialect], m.Version)
		}
	}
	assert.Equal(t, versions["postgres"], versions["sqlite3"])
}

func TestRun_UpOnSQLiteLeavesUsableStore(t *testing.T) {
	ctx := context.Background()
	cfg := config.Config{
		Driver:        config.DriverSQLite,
		SQLitePath:    filepath.Join(t.TempDir(), "books.db"),
		QueryTimeout:  2 * time.Second,
		MigrationsDir: repoMigrationsDir(t),
	}
	require.Equal(t, 0, run(cfg, logging.Discard(), "up", ""))

	backend, err := store.Open(ctx, cfg, logging.Discard())
	require.NoError(t, err)
	defer backend.Close()

	ids, err := backend.Repo.InsertMany(ctx, testutil.Books())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7, 8}, ids)

	books, err := backend.Repo.Find(ctx, book.Query{Author: "Andy Weir"})
	require.NoError(t, err)
	assert.Len(t, books, 2)

	n, err := backend.Repo.DeleteOne(ctx, "Beowulf")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRun_RejectsMemoryDriver(t *testing.T) {
	cfg := config.Config{Driver: config.DriverMemory, QueryTimeout: time.Second}
	assert.Equal(t, 1, run(cfg, logging.Discard(), "up", ""))
}
