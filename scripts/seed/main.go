package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"

	"github.com/insightboard/insightboard/internal/insight"
	"github.com/insightboard/insightboard/internal/platform/db"
)

var errDSNRequired = errors.New("PG_DSN is required (or provide -dsn)")

type seedConfig struct {
	file     string
	dsn      string
	truncate bool
}

func main() {
	cfg := parseFlags()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := run(context.Background(), cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func parseFlags() seedConfig {
	cfg := seedConfig{}
	flag.StringVar(&cfg.file, "file", "data/insights.sample.json", "JSON array of insights to load")
	flag.StringVar(&cfg.dsn, "dsn", os.Getenv("PG_DSN"), "Postgres DSN")
	flag.BoolVar(&cfg.truncate, "truncate", false, "Remove existing insights before loading")
	flag.Parse()
	return cfg
}

func run(ctx context.Context, cfg seedConfig, logger *slog.Logger) error {
	if cfg.dsn == "" {
		return errDSNRequired
	}
	items, err := readInsights(cfg.file)
	if err != nil {
		return err
	}

	pool, err := db.New(ctx, cfg.dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, logger); err != nil {
		return err
	}

	start := time.Now()
	var inserted int
	err = db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		if cfg.truncate {
			if _, err := tx.Exec(ctx, `TRUNCATE insights RESTART IDENTITY`); err != nil {
				return fmt.Errorf("seed: truncate: %w", err)
			}
		}
		n, err := insight.NewPostgresSource(tx).Insert(ctx, items)
		inserted = n
		return err
	})
	if err != nil {
		return err
	}
	logger.Info("seed complete", slog.Int("inserted", inserted), slog.String("file", cfg.file), slog.Duration("duration", time.Since(start)))
	return nil
}

func readInsights(path string) ([]insight.Insight, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("seed: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var items []insight.Insight
	if err := json.NewDecoder(f).Decode(&items); err != nil {
		return nil, fmt.Errorf("seed: decode %s: %w", path, err)
	}
	return items, nil
}
