package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/solarsite-service/internal/domain"
	"github.com/couchcryptid/solarsite-service/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
	drainTimeout   = 5 * time.Second
)

// BatchExtractor reads up to batchSize leads from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.Lead, error)
	Drain() []domain.Lead
}

// BatchLoader writes multiple leads to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, leads []domain.Lead) error
}

// Pipeline moves accepted leads from the queue to the lead sink.
type Pipeline struct {
	extractor BatchExtractor
	loader    BatchLoader
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
	batchSize int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor: e,
		loader:    l,
		logger:    logger,
		metrics:   metrics,
		batchSize: batchSize,
	}
}

// CheckReadiness returns nil while the pipeline is running and its last
// write succeeded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("lead pipeline is not running or cannot reach the lead sink")
	}
	return nil
}

// Run executes the publish loop until the context is cancelled. Leads still
// buffered at shutdown get one final write attempt.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("lead pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	p.ready.Store(true)
	defer func() {
		p.ready.Store(false)
		p.metrics.PipelineRunning.Set(0)
	}()

	backoff := initialBackoff
	for {
		batch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
		if ctx.Err() != nil {
			p.logger.Info("lead pipeline stopping", "reason", ctx.Err())
			p.flushRemaining(ctx, batch)
			return nil
		}
		if err != nil {
			p.logger.Error("extract batch failed", "error", err)
			if !p.backoffOrStop(ctx, &backoff) {
				p.flushRemaining(ctx, nil)
				return nil
			}
			continue
		}
		if len(batch) == 0 {
			continue
		}

		if !p.deliver(ctx, batch, &backoff) {
			p.flushRemaining(ctx, batch)
			return nil
		}
	}
}

// deliver writes a batch, retrying with exponential backoff until it succeeds.
// Returns false if the pipeline should stop before the batch was written.
func (p *Pipeline) deliver(ctx context.Context, batch []domain.Lead, backoff *time.Duration) bool {
	for {
		start := time.Now()
		err := p.loader.LoadBatch(ctx, batch)
		if err == nil {
			p.record(batch, start)
			p.ready.Store(true)
			*backoff = initialBackoff
			return true
		}

		p.metrics.LeadPublishErrors.Inc()
		p.ready.Store(false)
		p.logger.Error("load batch failed", "error", err, "batch_size", len(batch))
		if !p.backoffOrStop(ctx, backoff) {
			return false
		}
	}
}

// flushRemaining makes one last attempt to write pending plus anything still
// buffered, using a short timeout detached from the cancelled run context.
func (p *Pipeline) flushRemaining(ctx context.Context, pending []domain.Lead) {
	leads := append(pending, p.extractor.Drain()...)
	if len(leads) == 0 {
		return
	}

	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
	defer cancel()

	start := time.Now()
	if err := p.loader.LoadBatch(dctx, leads); err != nil {
		p.metrics.LeadPublishErrors.Inc()
		p.logger.Error("final lead flush failed, leads dropped", "error", err, "count", len(leads))
		return
	}
	p.record(leads, start)
	p.logger.Info("flushed pending leads", "count", len(leads))
}

func (p *Pipeline) record(batch []domain.Lead, start time.Time) {
	p.metrics.LeadsPublished.Add(float64(len(batch)))
	p.metrics.LeadBatchSize.Observe(float64(len(batch)))
	p.metrics.LeadBatchDuration.Observe(time.Since(start).Seconds())
}

// backoffOrStop checks for context cancellation, sleeps with the current backoff,
// and advances the backoff. Returns false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !retry.SleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = retry.NextBackoff(*backoff, maxBackoff)
	return true
}
