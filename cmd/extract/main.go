// Package main provides the extractor binary: it validates a game data tree,
// builds every item tier and character class, and writes the aggregate
// document to a file and optionally to PostgreSQL.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/hwextract/internal/config"
	"github.com/cory-johannsen/hwextract/internal/extract"
	"github.com/cory-johannsen/hwextract/internal/game/entity"
	"github.com/cory-johannsen/hwextract/internal/observability"
	"github.com/cory-johannsen/hwextract/internal/storage/postgres"
	"github.com/cory-johannsen/hwextract/internal/sval"
	"github.com/cory-johannsen/hwextract/internal/validate"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty uses defaults and HWX_ environment")
	root := flag.String("root", "", "game data directory (overrides extract.root)")
	output := flag.String("output", "", "output file, - for stdout (overrides extract.output)")
	validateOnly := flag.Bool("validate-only", false, "run the validator sweep and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *root != "" {
		cfg.Extract.Root = *root
	}
	if *output != "" {
		cfg.Extract.Output = *output
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	var decOpts []sval.DecoderOption
	if cfg.Extract.Trace {
		decOpts = append(decOpts, sval.WithTrace(logger.Named("decode")))
	}
	loader := sval.NewLoader(cfg.Extract.Root, decOpts...)
	logger.Info("starting extraction",
		zap.String("root", loader.Root()),
		zap.Int("workers", cfg.Extract.Workers),
	)

	if cfg.Extract.Validate || *validateOnly {
		report, err := validate.Sweep(ctx, loader.Root(),
			validate.WithWorkers(cfg.Extract.Workers),
			validate.WithLogger(logger.Named("validate")),
			validate.WithDecoderOptions(decOpts...),
		)
		if err != nil {
			if errors.Is(err, validate.ErrCodebaseInvalid) {
				logger.Fatal("validation failed",
					zap.Int("files", report.Files),
					zap.Int("failures", len(report.Failures)),
				)
			}
			logger.Fatal("running validator", zap.Error(err))
		}
		if *validateOnly {
			logger.Info("validation complete", zap.Duration("elapsed", time.Since(start).Round(time.Millisecond)))
			return
		}
	}

	ectx := entity.NewContext(loader, entity.WithLogger(logger.Named("resolve")))
	x := extract.New(ectx,
		extract.WithLogger(logger),
		extract.WithTiers(cfg.Extract.Tiers...),
		extract.WithClasses(cfg.Extract.Classes...),
		extract.WithWorkers(cfg.Extract.Workers),
	)
	agg, err := x.Run(ctx)
	if err != nil {
		logger.Fatal("extracting", zap.Error(err))
	}

	sinks := extract.Sinks{&extract.FileSink{Path: cfg.Extract.Output, Format: cfg.Extract.Format}}
	if cfg.Snapshot.Enabled {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		sinks = append(sinks, &extract.SnapshotSink{
			Store:  pool.Snapshots(),
			Root:   loader.Root(),
			Logger: logger,
		})
	}
	if err := sinks.Write(ctx, agg); err != nil {
		logger.Fatal("writing aggregate", zap.Error(err))
	}

	logger.Info("extraction written",
		zap.String("output", cfg.Extract.Output),
		zap.String("format", cfg.Extract.Format),
		zap.Duration("elapsed", time.Since(start).Round(time.Millisecond)),
	)
}
