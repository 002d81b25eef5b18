// Package worker classifies queued rows and stores the resulting records.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/nyusatsu/internal/domain/model"
	"github.com/okian/nyusatsu/internal/domain/record"
	"github.com/okian/nyusatsu/pkg/logger"
	"github.com/okian/nyusatsu/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Row abstracts what workers read off the queue.
type Row = model.Row

// Builder turns a raw row into a classified record.
type Builder interface {
	Build(row model.Row) (record.Record, error)
}

// Saver persists a record, reporting whether it was newly created.
type Saver interface {
	Save(ctx context.Context, rec record.Record) (bool, error)
}

// Queue defines how workers receive rows.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Row
}

// Worker processes rows until the queue drains or it is stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown stops the worker after the row in hand.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing rows.
type InMemoryWorker struct {
	queue   Queue
	builder Builder
	saver   Saver
	name    string
	runID   string
	clock   func() time.Time
	tally   *Tally

	// Shutdown control
	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, builder Builder, saver Saver, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		builder:  builder,
		saver:    saver,
		name:     "worker",
		clock:    time.Now,
		tally:    &Tally{},
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	rows := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case row, ok := <-rows:
			if !ok {
				return
			}
			if err := w.processRow(ctx, row); err != nil {
				w.logger.Error(ctx, "error processing row",
					logger.String("run_id", w.runID),
					logger.String("source", row.Source),
					logger.Int("line", row.Line),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processRow builds, stamps and saves one row. Skipped and invalid rows are
// counted and logged here; only storage failures are returned.
func (w *InMemoryWorker) processRow(ctx context.Context, row Row) error { //nolint:gocritic // hugeParam: Row is passed by value for channel semantics
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()
	w.tally.processed.Add(1)

	buildStart := time.Now()
	rec, err := w.builder.Build(row)
	metrics.RecordBuildLatency(float64(time.Since(buildStart).Microseconds()) / 1000)

	switch {
	case errors.Is(err, record.ErrMissingCaseID):
		w.tally.skipped.Add(1)
		metrics.RecordRowSkipped()
		w.logger.Warn(ctx, "row skipped: missing case id",
			logger.String("run_id", w.runID),
			logger.String("source", row.Source),
			logger.Int("line", row.Line),
		)
		return nil
	case errors.Is(err, record.ErrInvalidInput):
		w.tally.invalid.Add(1)
		metrics.RecordRowInvalid()
		metrics.RecordErrorByComponent("worker", "invalid_input")
		w.logger.Warn(ctx, "row rejected",
			logger.String("run_id", w.runID),
			logger.String("source", row.Source),
			logger.Int("line", row.Line),
			logger.Error(err),
		)
		return nil
	case err != nil:
		w.tally.failed.Add(1)
		metrics.RecordRowFailed()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "build_error")
		return fmt.Errorf("build row %d: %w", row.Line, err)
	}

	rec = rec.Stamped(w.clock())
	if _, err := w.saver.Save(ctx, rec); err != nil {
		w.tally.failed.Add(1)
		metrics.RecordRowFailed()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "save_error")
		return fmt.Errorf("save case %d: %w", rec.CaseID, err)
	}

	w.tally.saved.Add(1)
	w.tally.verdict(rec.IsEligibleToBid)
	metrics.RecordRowProcessed()
	metrics.RecordVerdict(rec.IsEligibleToBid)
	metrics.RecordConfidence(rec.QualificationConfidence)
	for _, req := range rec.QualificationsParsed {
		metrics.RecordRequirement(string(req.Kind))
	}

	caseName := ""
	if rec.CaseName != nil {
		caseName = *rec.CaseName
	}
	w.logger.Info(ctx, "case classified",
		logger.String("run_id", w.runID),
		logger.Int64("case_id", rec.CaseID),
		logger.String("case_name", caseName),
		logger.Bool("eligible", rec.IsEligibleToBid),
		logger.String("reason", rec.EligibilityReason),
	)
	return nil
}

// Pool manages multiple workers sharing one queue and one tally.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	tally   *Tally
	wg      sync.WaitGroup

	logger logger.Logger
}

// NewPool creates a new worker pool. A non-positive workerCount uses one
// worker per CPU. opts apply to every worker.
func NewPool(workerCount int, queue Queue, builder Builder, saver Saver, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
		tally:   &Tally{},
	}

	for i := 0; i < workerCount; i++ {
		workerOpts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		workerOpts = append(workerOpts, WithTally(pool.tally))
		pool.workers[i] = NewInMemoryWorker(queue, builder, saver, workerOpts...)
	}
	pool.logger = pool.workers[0].logger

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	metrics.UpdateWorkerActiveCount(len(p.workers))
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *InMemoryWorker) {
			defer p.wg.Done()
			w.Run(ctx)
		}(w)
	}
}

// Wait blocks until every worker has returned, which happens once the queue
// is closed and drained or the run context ends.
func (p *Pool) Wait() {
	p.wg.Wait()
	metrics.UpdateWorkerActiveCount(0)
}

// Tally returns the pool's shared outcome counters.
func (p *Pool) Tally() *Tally {
	return p.tally
}

// Shutdown closes the queue when it supports it, then stops the workers.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var errs []error
	for _, w := range p.workers {
		if err := w.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", w.name, err))
		}
	}
	metrics.UpdateWorkerActiveCount(0)
	return errors.Join(errs...)
}
