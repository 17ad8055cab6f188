// Package queue provides the unbounded multi-producer single-consumer queue
// underpinning the websocket event hub, the per-connection command queues and
// the shell dispatcher. Channels are deliberately not used here: sends must
// never block or drop, and sending after close must report failure instead of
// panicking.
package queue

import "sync"

// Queue is an unbounded FIFO queue safe for any number of producers and one
// consumer. Sustained overload grows memory rather than applying
// backpressure; event volume on every current user is human-paced.
type Queue[T any] struct {
	mu       sync.Mutex
	nonEmpty *sync.Cond
	items    []T
	closed   bool
}

// New creates an open, empty queue.
func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.nonEmpty = sync.NewCond(&q.mu)
	return q
}

// Push appends an item. It reports false once the queue has been closed and
// never blocks.
func (q *Queue[T]) Push(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.items = append(q.items, item)
	q.nonEmpty.Signal()
	return true
}

// Recv blocks until an item is available or the queue is closed and drained.
// The second result is false only in the closed-and-drained case.
func (q *Queue[T]) Recv() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.nonEmpty.Wait()
	}

	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	return q.popLocked(), true
}

// TryRecv returns one item without blocking. The second result is false when
// the queue is currently empty.
func (q *Queue[T]) TryRecv() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	return q.popLocked(), true
}

// Drain removes and returns everything currently queued without blocking.
// Items pushed after Drain returns are not included.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := q.items
	q.items = nil
	return items
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close marks the queue closed and wakes the consumer. Items already queued
// remain receivable; further pushes fail.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.nonEmpty.Broadcast()
}

// Closed reports whether Close has been called.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *Queue[T]) popLocked() T {
	item := q.items[0]
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return item
}
