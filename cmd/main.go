package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/nyusatsu/internal/adapters/sink"
	"github.com/okian/nyusatsu/internal/adapters/source"
	app "github.com/okian/nyusatsu/internal/app"
	"github.com/okian/nyusatsu/internal/config"
	"github.com/okian/nyusatsu/pkg/logger"
	"github.com/okian/nyusatsu/pkg/metrics"
)

// Process exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run classifies one export file and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// Load configuration (defaults -> optional file -> env), then flags.
	cfg, err := config.Load(ctx)
	if err != nil {
		_, _ = io.WriteString(stderr, "failed to load config: "+err.Error()+"\n")
		return exitUsage
	}

	fs := flag.NewFlagSet("nyusatsu", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.Input, "input", cfg.Input, "procurement export to classify (.csv, .tsv, .xlsx, .jsonl)")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "classified records destination (.jsonl, .xlsx)")
	fs.StringVar(&cfg.InputEncoding, "encoding", cfg.InputEncoding, "encoding of .csv/.tsv input: auto, utf-8 or shift_jis")
	fs.StringVar(&cfg.Sheet, "sheet", cfg.Sheet, "worksheet of an .xlsx input")
	fs.StringVar(&cfg.MetricsTextfile, "metrics-textfile", cfg.MetricsTextfile, "write Prometheus metrics to this file after the batch")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if err := cfg.Validate(); err != nil {
		_, _ = io.WriteString(stderr, err.Error()+"\n")
		fs.Usage()
		return exitUsage
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithOutput(stdout)); err != nil {
		_, _ = io.WriteString(stderr, "failed to initialize logging: "+err.Error()+"\n")
		return exitUsage
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	reader, err := source.Open(cfg.Input,
		source.WithEncoding(cfg.InputEncoding),
		source.WithSheet(cfg.Sheet),
		source.WithLogger(log.Named("source")),
	)
	if err != nil {
		log.Error(ctx, "cannot open input", logger.String("input", cfg.Input), logger.Error(err))
		return exitFailed
	}
	rows, err := reader.ReadAll(ctx)
	if err != nil {
		log.Error(ctx, "cannot read input", logger.String("input", cfg.Input), logger.Error(err))
		return exitFailed
	}
	log.Info(ctx, "input loaded",
		logger.String("input", cfg.Input),
		logger.String("format", string(reader.Format())),
		logger.Int("rows", len(rows)),
	)

	svc := app.New(
		app.WithLogger(log.Named("service")),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithShardCount(cfg.ShardCount),
	)
	stats, err := svc.Run(ctx, rows)
	if err != nil {
		log.Error(ctx, "batch failed", logger.Error(err))
		return exitFailed
	}

	if err := sink.Write(ctx, cfg.Output, stats.Records); err != nil {
		log.Error(ctx, "cannot write output", logger.String("output", cfg.Output), logger.Error(err))
		return exitFailed
	}
	log.Info(ctx, "output written",
		logger.String("output", cfg.Output),
		logger.Int("records", stats.Stored),
		logger.String("run_id", stats.RunID),
	)

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			log.Error(ctx, "cannot write metrics", logger.String("path", cfg.MetricsTextfile), logger.Error(err))
			return exitFailed
		}
	}

	return exitOK
}
