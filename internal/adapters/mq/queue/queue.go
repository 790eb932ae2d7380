// Package queue carries chat transcripts from request handlers to the
// archive workers.
//
// The queue is bounded and never blocks a handler: a full queue drops the
// transcript and reports false.
package queue

import (
	"context"
	"sync"

	"github.com/okian/lumen/internal/domain/model"
	"github.com/okian/lumen/pkg/metrics"
)

const defaultQueueCapacity = 1000

// Transcript is the payload type flowing through the queue.
type Transcript = model.Transcript

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a transcript to the queue.
	// Returns false if the queue is full or closed.
	Enqueue(ctx context.Context, t Transcript) bool

	// Dequeue returns a channel that receives transcripts as they arrive.
	// The channel is closed when the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Transcript

	// Len returns the current number of queued transcripts.
	Len(ctx context.Context) int

	// Close stops accepting transcripts. Pending ones can still be dequeued.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	items    chan Transcript
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.items = make(chan Transcript, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)

	return q
}

// Enqueue adds a transcript to the queue without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, t Transcript) bool { //nolint:gocritic // hugeParam: Transcript is passed by value for channel semantics
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	select {
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	default:
	}

	select {
	case q.items <- t:
		metrics.RecordQueueEnqueue()
		q.updateGauges()
		return true
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false
	}
}

// Dequeue returns a channel that will receive transcripts as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Transcript {
	out := make(chan Transcript)
	go func() {
		defer close(out)
		for t := range q.items {
			select {
			case out <- t:
				metrics.RecordQueueDequeue()
				q.updateGauges()
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued transcripts.
func (q *InMemoryQueue) Len(_ context.Context) int {
	q.updateGauges()
	return len(q.items)
}

// Close stops the queue. It is safe to call more than once.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.items)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemoryQueue) updateGauges() {
	size := len(q.items)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}
