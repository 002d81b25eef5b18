// Package service runs classification batches: it feeds rows through the
// queue and worker pool and collects the stored records.
package service

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"

	eventqueue "github.com/okian/nyusatsu/internal/adapters/mq/queue"
	workerpool "github.com/okian/nyusatsu/internal/adapters/mq/worker"
	repository "github.com/okian/nyusatsu/internal/adapters/repository"
	"github.com/okian/nyusatsu/internal/domain/dedupe"
	"github.com/okian/nyusatsu/internal/domain/model"
	"github.com/okian/nyusatsu/internal/domain/record"
	"github.com/okian/nyusatsu/pkg/logger"
	"github.com/okian/nyusatsu/pkg/metrics"
)

// Stats summarizes one batch run.
type Stats struct {
	RunID      string        `json:"run_id"`
	Rows       int           `json:"rows"`
	Submitted  int           `json:"submitted"`
	Duplicates int           `json:"duplicates"`
	Stored     int           `json:"stored"`
	Duration   time.Duration `json:"duration"`
	workerpool.Counts

	// Records holds the stored records ordered by case id.
	Records []record.Record `json:"-"`
}

// Service classifies batches of rows.
type Service struct {
	workerCount int
	queueSize   int
	dedupeSize  int
	shardCount  int
	clock       func() time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the row queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many case ids the deduper remembers.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount sets the number of record store shards.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithClock sets the source of ProcessedAt timestamps and batch timings.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   1000,
		dedupeSize:  100000,
		shardCount:  8,
		clock:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run classifies rows and returns the batch statistics with every stored
// record. Later rows repeating a case key are counted as duplicates and not
// processed. Rows without a case id are skipped by the workers. Canceling
// ctx stops submission; rows already queued may be dropped.
func (s *Service) Run(ctx context.Context, rows []model.Row) (Stats, error) {
	log := s.logger
	if log == nil {
		log = logger.Get().Named("service")
	}

	start := s.clock()
	stats := Stats{RunID: uuid.NewString(), Rows: len(rows)}

	builder, err := record.NewBuilder()
	if err != nil {
		return stats, fmt.Errorf("create record builder: %w", err)
	}

	store := repository.NewShardedStore(repository.WithShardCount(s.shardCount))
	deduper := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	queue := eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	pool := workerpool.NewPool(s.workerCount, queue, builder, store,
		workerpool.WithRunID(stats.RunID),
		workerpool.WithClock(s.clock),
		workerpool.WithLogger(log.Named("worker")),
	)

	log.Info(ctx, "batch started",
		logger.String("run_id", stats.RunID),
		logger.Int("rows", len(rows)),
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("shards", s.shardCount),
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	pool.Start(runCtx)

	submitErr := submit(runCtx, log, rows, queue, deduper, &stats)
	if submitErr == nil {
		submitErr = ctx.Err()
	}

	if submitErr != nil {
		// Abort: stop workers after the row in hand instead of draining.
		if err := pool.Shutdown(context.WithoutCancel(ctx)); err != nil {
			log.Warn(ctx, "worker shutdown incomplete",
				logger.String("run_id", stats.RunID),
				logger.Error(err),
			)
		}
	} else {
		_ = queue.Close()
	}
	pool.Wait()

	stats.Counts = pool.Tally().Counts()
	stats.Records = store.All(ctx)
	stats.Stored = len(stats.Records)
	end := s.clock()
	stats.Duration = end.Sub(start)
	metrics.RecordBatch(stats.Duration.Seconds(), end.Unix())

	if submitErr != nil {
		log.Error(ctx, "batch aborted",
			logger.String("run_id", stats.RunID),
			logger.Int("submitted", stats.Submitted),
			logger.Error(submitErr),
		)
		return stats, fmt.Errorf("run %s: %w", stats.RunID, submitErr)
	}

	log.Info(ctx, "batch finished",
		logger.String("run_id", stats.RunID),
		logger.Int("stored", stats.Stored),
		logger.Int("duplicates", stats.Duplicates),
		logger.Int64("eligible", stats.Eligible),
		logger.Int64("ineligible", stats.Ineligible),
		logger.Int64("skipped", stats.Skipped),
		logger.Int64("invalid", stats.Invalid),
		logger.Int64("failed", stats.Failed),
		logger.Duration("duration", stats.Duration),
	)
	return stats, nil
}

// submit enqueues rows in order, dropping repeated case keys.
func submit(ctx context.Context, log logger.Logger, rows []model.Row, queue eventqueue.Queue, deduper dedupe.Deduper, stats *Stats) error {
	for i := range rows {
		row := rows[i]
		id := row.CaseKey()
		if id != "" && deduper.SeenAndRecord(ctx, id) {
			stats.Duplicates++
			metrics.RecordRowDuplicate()
			log.Debug(ctx, "duplicate case skipped",
				logger.String("run_id", stats.RunID),
				logger.String("case_id", id),
				logger.String("source", row.Source),
				logger.Int("line", row.Line),
			)
			continue
		}
		if err := queue.Enqueue(ctx, row); err != nil {
			if id != "" {
				deduper.Unrecord(ctx, id)
			}
			return err
		}
		stats.Submitted++
	}
	return nil
}
