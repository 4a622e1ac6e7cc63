// raggedts loads a long-format time-series table into the ragged store and
// iterates it in padded, masked batches.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/xtxerr/raggedts/internal/batch"
	"github.com/xtxerr/raggedts/internal/config"
	"github.com/xtxerr/raggedts/internal/errors"
	"github.com/xtxerr/raggedts/internal/loader"
	"github.com/xtxerr/raggedts/internal/logging"
	"github.com/xtxerr/raggedts/internal/ragged"
	"github.com/xtxerr/raggedts/internal/stats"
	"github.com/xtxerr/raggedts/internal/table"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfgPath := flag.String("config", "config.yaml", "config file path")
	tablePath := flag.String("table", "", "parquet table path (overrides config)")
	batchSize := flag.Int("batch-size", 0, "batch size (overrides config)")
	workers := flag.Int("workers", 0, "parallel workers (overrides config)")
	epoch := flag.Bool("epoch", false, "iterate one epoch of batches")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logging.Init(level, false)
	log := logging.Component("main")
	log.Info("raggedts starting", "version", Version)

	// Load config
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Info("no config file found, using defaults")
			cfg = config.DefaultConfig()
		} else {
			log.Error("load config", "error", err)
			os.Exit(1)
		}
	}

	// CLI overrides
	if *tablePath != "" {
		cfg.Source.Kind = "parquet"
		cfg.Source.Path = *tablePath
	}
	if *batchSize > 0 {
		cfg.Loader.BatchSize = *batchSize
	}
	if *workers > 0 {
		cfg.Loader.Workers = *workers
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	tbl, static, err := loadSource(ctx, &cfg.Source)
	if err != nil {
		log.Error("load table", "error", err)
		os.Exit(1)
	}
	log.Info("table loaded", "rows", tbl.Len(), "columns", len(tbl.Columns()))

	store, err := ragged.FromTable(tbl, static, cfg.Source.Sort)
	if err != nil {
		log.Error("build store", "error", err)
		os.Exit(1)
	}
	log.Info("store built",
		"series", store.Len(),
		"rows", store.Rows(),
		"max_size", store.MaxSize(),
		"channels", store.Channels(),
		"static", store.HasStatic())

	if cfg.Stats.Enabled {
		summaries, err := stats.Summarize(store, cfg.Stats.Accuracy)
		if err != nil {
			log.Error("summarize", "error", err)
			os.Exit(1)
		}
		for _, s := range summaries {
			log.Info("channel summary",
				"channel", s.Channel,
				"count", s.Count,
				"min", s.Min, "max", s.Max, "mean", s.Mean,
				"p50", s.P50, "p95", s.P95, "p99", s.P99)
		}
	}

	if *epoch {
		l := loader.New(store, cfg.Loader)
		var batches, series atomic.Int64
		err := l.Run(ctx, func(b *batch.Batch) error {
			batches.Add(1)
			series.Add(int64(b.Size()))
			return nil
		})
		if err != nil {
			log.Error("epoch failed", "error", err)
			os.Exit(1)
		}
		log.Info("epoch complete", "batches", batches.Load(), "series", series.Load())
	}
}

// loadSource materializes the configured table source.
func loadSource(ctx context.Context, src *config.SourceConfig) (*table.Table, *table.Static, error) {
	schema := table.Schema{
		KeyColumn:  src.KeyColumn,
		TimeColumn: src.TimeColumn,
		Features:   src.Features,
	}

	switch src.Kind {
	case "parquet":
		tbl, err := table.ReadParquet(src.Path, schema)
		if err != nil {
			return nil, nil, err
		}
		var static *table.Static
		if src.StaticPath != "" {
			static, err = table.ReadStaticParquet(src.StaticPath, src.KeyColumn, nil)
			if err != nil {
				return nil, nil, err
			}
		}
		return tbl, static, nil

	default: // "duckdb", enforced by config validation
		db, err := table.OpenDuckDB(src.DSN)
		if err != nil {
			return nil, nil, err
		}
		defer db.Close()

		tbl, err := db.Query(ctx, src.Query, schema)
		if err != nil {
			return nil, nil, err
		}
		var static *table.Static
		if src.StaticQuery != "" {
			static, err = db.QueryStatic(ctx, src.StaticQuery, src.KeyColumn)
			if err != nil {
				return nil, nil, err
			}
		}
		return tbl, static, nil
	}
}
