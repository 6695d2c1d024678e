package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/couchcryptid/solarsite-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// ErrQueueFull is returned by Enqueue when the publish backlog is at capacity.
var ErrQueueFull = errors.New("lead queue is full")

// Queue buffers accepted leads between HTTP handlers and the publishing
// pipeline. It implements BatchExtractor.
type Queue struct {
	ch            chan domain.Lead
	flushInterval time.Duration
	clock         clockwork.Clock
}

// NewQueue creates a queue holding at most capacity leads. A partial batch is
// released once flushInterval has passed on clock since its first lead arrived.
func NewQueue(capacity int, flushInterval time.Duration, clock clockwork.Clock) *Queue {
	return &Queue{
		ch:            make(chan domain.Lead, capacity),
		flushInterval: flushInterval,
		clock:         clock,
	}
}

// Enqueue adds a lead without blocking.
func (q *Queue) Enqueue(lead domain.Lead) error {
	select {
	case q.ch <- lead:
		return nil
	default:
		return ErrQueueFull
	}
}

// Len reports the number of leads waiting to be published.
func (q *Queue) Len() int {
	return len(q.ch)
}

// ExtractBatch blocks until at least one lead is available, then collects up
// to batchSize leads or until the flush interval elapses. If ctx ends while a
// batch is being collected, the partial batch is returned without error.
func (q *Queue) ExtractBatch(ctx context.Context, batchSize int) ([]domain.Lead, error) {
	var batch []domain.Lead
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case lead := <-q.ch:
		batch = append(batch, lead)
	}

	timer := q.clock.NewTimer(q.flushInterval)
	defer timer.Stop()

	for len(batch) < batchSize {
		select {
		case lead := <-q.ch:
			batch = append(batch, lead)
		case <-timer.Chan():
			return batch, nil
		case <-ctx.Done():
			return batch, nil
		}
	}
	return batch, nil
}

// Drain removes and returns every buffered lead without blocking.
func (q *Queue) Drain() []domain.Lead {
	var out []domain.Lead
	for {
		select {
		case lead := <-q.ch:
			out = append(out, lead)
		default:
			return out
		}
	}
}
