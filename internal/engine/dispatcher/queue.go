package dispatcher

import (
	"context"
	"sync"

	"go.trai.ch/xo/internal/core/domain"
	"go.trai.ch/xo/internal/core/ports"
)

// DefaultQueueSize is the number of pending events a Queue holds before Push blocks.
const DefaultQueueSize = 256

// HandlerFunc processes one event on the queue worker.
type HandlerFunc func(context.Context, domain.FileEvent)

// Queue moves event handling off the watcher worker onto a single consumer goroutine.
// Events are handled in push order.
type Queue struct {
	events  chan domain.FileEvent
	handler HandlerFunc
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewQueue starts the consumer. A size below one is replaced by DefaultQueueSize.
func NewQueue(ctx context.Context, size int, handler HandlerFunc) *Queue {
	if size < 1 {
		size = DefaultQueueSize
	}
	q := &Queue{
		events:  make(chan domain.FileEvent, size),
		handler: handler,
		done:    make(chan struct{}),
	}
	go q.run(ctx)
	return q
}

// Push enqueues ev, blocking while the queue is full. It reports false once the
// queue has been closed.
func (q *Queue) Push(ev domain.FileEvent) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}
	q.events <- ev
	return true
}

// Callback returns Push as a watcher callback.
func (q *Queue) Callback() ports.WatchCallback {
	return func(ev domain.FileEvent) {
		q.Push(ev)
	}
}

// Len returns the number of events waiting to be handled.
func (q *Queue) Len() int {
	return len(q.events)
}

// Close stops accepting events, handles everything already queued, and waits for
// the consumer to exit. It is safe to call more than once.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.events)
	}
	q.mu.Unlock()

	<-q.done
}

func (q *Queue) run(ctx context.Context) {
	defer close(q.done)
	for ev := range q.events {
		q.handler(ctx, ev)
	}
}
