package database

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/samber/lo"

	"github.com/commedeschamps/KieliSan/core/logger"
)

const readyTimeout = 30 * time.Second

// RunMigrations waits for Postgres and applies every pending up migration.
// The files come from MigrationsDir when it is set, otherwise from Source.
func RunMigrations(cfg Config) error {
	if err := WaitForPostgres(cfg.DSN(), readyTimeout); err != nil {
		logger.Error(logger.Background(), "db.migrate", "db.migrate", slog.String("err", err.Error()))
		return fmt.Errorf("database not ready: %w", err)
	}

	files, origin, err := migrationFiles(cfg)
	if err != nil {
		return err
	}
	names := upFiles(files)
	preview, truncated := logger.SummarizeStrings(names, 6)
	logger.Debug(logger.Background(), "db.migrate", "resolve",
		slog.String("path", origin),
		slog.Int("files_total", len(names)),
		slog.String("files_preview", preview),
		slog.Bool("files_truncated", truncated),
	)

	src, err := iofs.New(files, ".")
	if err != nil {
		return fmt.Errorf("open migrations %s: %w", origin, err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.URL())
	if err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	defer m.Close()

	from, _, _ := m.Version()
	start := time.Now()
	upErr := m.Up()
	took := slog.Duration("duration", logger.RoundMS(time.Since(start)))
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		logger.Error(logger.Background(), "db.migrate", "apply", slog.String("err", upErr.Error()), took)
		return fmt.Errorf("migration execution failed: %w", upErr)
	}
	to, _, _ := m.Version()

	applied := appliedBetween(names, uint64(from), uint64(to))
	if len(applied) > 0 {
		preview, truncated = logger.SummarizeStrings(applied, 6)
		logger.Debug(logger.Background(), "db.migrate", "apply",
			slog.Int("files_total", len(applied)),
			slog.String("files_preview", preview),
			slog.Bool("files_truncated", truncated),
		)
	}
	logger.Info(logger.Background(), "db.migrate", "summary",
		slog.Uint64("from_ver", uint64(from)),
		slog.Uint64("to_ver", uint64(to)),
		slog.Int("files", len(applied)),
		took,
	)
	return nil
}

// migrationFiles picks the file system holding the migrations and a label
// for logs.
func migrationFiles(cfg Config) (fs.FS, string, error) {
	if cfg.MigrationsDir == "" && cfg.Source != nil {
		return cfg.Source, "embedded", nil
	}
	dir, err := resolveMigrationsDir(cfg.MigrationsDir)
	if err != nil {
		return nil, "", fmt.Errorf("resolve migrations dir: %w", err)
	}
	return os.DirFS(dir), dir, nil
}

func resolveMigrationsDir(dir string) (string, error) {
	if dir == "" {
		dir = "migrations"
	}
	if filepath.IsAbs(dir) {
		return dir, nil
	}
	return filepath.Abs(dir)
}

// upFiles lists the *.up.sql names in fsys, sorted.
func upFiles(fsys fs.FS) []string {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil
	}
	names := lo.FilterMap(entries, func(e fs.DirEntry, _ int) (string, bool) {
		return e.Name(), !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql")
	})
	sort.Strings(names)
	return names
}

// appliedBetween returns the files whose version is in (from, to].
func appliedBetween(names []string, from, to uint64) []string {
	return lo.Filter(names, func(name string, _ int) bool {
		prefix, _, _ := strings.Cut(name, "_")
		v, err := strconv.ParseUint(prefix, 10, 64)
		return err == nil && v > from && v <= to
	})
}
