package ds

import (
	"context"
	"sync"
)

// Queue is an unbounded FIFO queue that is safe for concurrent use.
//
// Push never blocks. Pop blocks until an item is available or the given
// context is done. Every pushed item is returned by exactly one Pop.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
	head  int
	ready chan struct{}
}

// NewQueue creates an empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{ready: make(chan struct{}, 1)}
}

// Push appends v to the tail of the queue.
func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()
	q.signal()
}

// Pop removes and returns the head of the queue. If the queue is empty it
// waits until an item is pushed or ctx is done, in which case ctx.Err() is
// returned.
func (q *Queue[T]) Pop(ctx context.Context) (T, error) {
	for {
		if v, ok := q.TryPop(); ok {
			return v, nil
		}
		select {
		case <-ctx.Done():
			var z T
			return z, ctx.Err()
		case <-q.ready:
		}
	}
}

// TryPop removes and returns the head of the queue without waiting.
func (q *Queue[T]) TryPop() (v T, ok bool) {
	q.mu.Lock()
	if q.head == len(q.items) {
		q.mu.Unlock()
		return v, false
	}

	var z T
	v = q.items[q.head]
	q.items[q.head] = z
	q.head++

	remaining := len(q.items) - q.head
	switch {
	case remaining == 0:
		// reuse the backing array once drained
		q.items = q.items[:0]
		q.head = 0
	case q.head > 64 && q.head*2 >= len(q.items):
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	q.mu.Unlock()

	// hand the wakeup on to another waiting consumer
	if remaining > 0 {
		q.signal()
	}
	return v, true
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

func (q *Queue[T]) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
