package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/couchcryptid/solarsite-service/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_EnqueueFull(t *testing.T) {
	q := NewQueue(2, time.Second, clockwork.NewRealClock())

	require.NoError(t, q.Enqueue(domain.Lead{ID: "1"}))
	require.NoError(t, q.Enqueue(domain.Lead{ID: "2"}))
	assert.ErrorIs(t, q.Enqueue(domain.Lead{ID: "3"}), ErrQueueFull)
	assert.Equal(t, 2, q.Len())
}

func TestQueue_ExtractBatch_FullBatch(t *testing.T) {
	q := NewQueue(10, time.Hour, clockwork.NewRealClock())
	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, q.Enqueue(domain.Lead{ID: id}))
	}

	batch, err := q.ExtractBatch(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, batch, 2)
	assert.Equal(t, "1", batch[0].ID)
	assert.Equal(t, 1, q.Len())
}

func TestQueue_ExtractBatch_FlushesPartialBatch(t *testing.T) {
	clock := clockwork.NewFakeClock()
	q := NewQueue(10, 30*time.Second, clock)
	require.NoError(t, q.Enqueue(domain.Lead{ID: "solo"}))

	type result struct {
		batch []domain.Lead
		err   error
	}
	done := make(chan result, 1)
	go func() {
		batch, err := q.ExtractBatch(context.Background(), 50)
		done <- result{batch, err}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	select {
	case <-done:
		t.Fatal("partial batch released before the flush interval")
	default:
	}

	clock.Advance(30 * time.Second)

	select {
	case r := <-done:
		require.NoError(t, r.err)
		require.Len(t, r.batch, 1)
		assert.Equal(t, "solo", r.batch[0].ID)
	case <-ctx.Done():
		t.Fatal("partial batch not released after the flush interval")
	}
}

func TestQueue_ExtractBatch_Cancelled(t *testing.T) {
	q := NewQueue(10, time.Second, clockwork.NewRealClock())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch, err := q.ExtractBatch(ctx, 10)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, batch)
}

func TestQueue_Drain(t *testing.T) {
	q := NewQueue(10, time.Second, clockwork.NewRealClock())
	require.NoError(t, q.Enqueue(domain.Lead{ID: "1"}))
	require.NoError(t, q.Enqueue(domain.Lead{ID: "2"}))

	assert.Len(t, q.Drain(), 2)
	assert.Empty(t, q.Drain())
}
