package queue

import (
	"context"
	"sync"
	"time"

	"github.com/vnykmshr/syncflow/internal/cond"
	sfcontext "github.com/vnykmshr/syncflow/pkg/common/context"
	"github.com/vnykmshr/syncflow/pkg/metrics"
)

// Config holds optional instrumentation settings shared by Queue and PriorityQueue.
type Config struct {
	// Name labels the queue in metrics. Defaults to "queue".
	Name string

	// Metrics receives queue measurements. Nil disables collection.
	Metrics *metrics.Registry
}

// Stats is a snapshot of queue activity.
type Stats struct {
	// Len is the number of elements held when the snapshot was taken.
	Len int

	// Pushes is the total number of Push calls.
	Pushes int64

	// Pops is the total number of elements handed out by any pop variant.
	Pops int64

	// Timeouts is the number of bounded waits that ended without an element.
	Timeouts int64
}

// store is the ordering policy behind a blocking queue. All methods are called
// with the owning queue's mutex held.
type store[T any] interface {
	push(item T)
	pop() T
	len() int
	clear()
}

// blocking holds the state and coordination shared by Queue and PriorityQueue:
// one mutex, one "not empty" condition and a stop flag.
type blocking[T any] struct {
	mu       sync.Mutex
	notEmpty *cond.Cond
	items    store[T]
	stopped  bool
	stats    Stats

	name    string
	metrics *metrics.Registry
}

func (q *blocking[T]) init(items store[T], config Config) {
	q.notEmpty = cond.New(&q.mu)
	q.items = items
	q.name = config.Name
	if q.name == "" {
		q.name = "queue"
	}
	q.metrics = config.Metrics
}

// Push adds item to the queue and wakes exactly one blocked consumer.
// Push never fails and is accepted even after Stop.
func (q *blocking[T]) Push(item T) {
	q.mu.Lock()
	q.items.push(item)
	q.stats.Pushes++
	n := q.items.len()
	q.notEmpty.Signal()
	q.mu.Unlock()

	if q.metrics != nil {
		q.metrics.QueuePushes.WithLabelValues(q.name).Inc()
		q.metrics.QueueLength.WithLabelValues(q.name).Set(float64(n))
	}
}

// TryPop removes and returns the next element without blocking.
// The boolean is false when the queue is empty.
func (q *blocking[T]) TryPop() (T, bool) {
	q.mu.Lock()
	if q.items.len() == 0 {
		q.mu.Unlock()
		var zero T
		return zero, false
	}
	item, n := q.popLocked()
	q.mu.Unlock()

	q.recordPop(n)
	return item, true
}

// WaitPop blocks until an element is available and returns it. The boolean
// is false only when the queue has been stopped and holds no elements.
func (q *blocking[T]) WaitPop() (T, bool) {
	return q.WaitPopContext(context.Background())
}

// WaitPopFor is like WaitPop but gives up after timeout. A non-positive
// timeout behaves like TryPop.
func (q *blocking[T]) WaitPopFor(timeout time.Duration) (T, bool) {
	ctx, cancel := sfcontext.WithTimeoutOrCancel(context.Background(), timeout)
	defer cancel()
	return q.WaitPopContext(ctx)
}

// WaitPopContext is like WaitPop but gives up when ctx ends.
func (q *blocking[T]) WaitPopContext(ctx context.Context) (T, bool) {
	var zero T

	q.mu.Lock()
	for q.items.len() == 0 && !q.stopped {
		if err := q.notEmpty.Wait(ctx); err != nil {
			if q.items.len() > 0 {
				break
			}
			q.stats.Timeouts++
			q.mu.Unlock()
			if q.metrics != nil {
				q.metrics.QueueTimeouts.WithLabelValues(q.name).Inc()
			}
			return zero, false
		}
	}

	if q.items.len() == 0 {
		// Stopped with nothing buffered.
		q.mu.Unlock()
		return zero, false
	}
	item, n := q.popLocked()
	q.mu.Unlock()

	q.recordPop(n)
	return item, true
}

// Len returns the number of buffered elements.
func (q *blocking[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.len()
}

// Empty reports whether the queue holds no elements.
func (q *blocking[T]) Empty() bool {
	return q.Len() == 0
}

// Clear drops every buffered element. Blocked consumers keep waiting.
func (q *blocking[T]) Clear() {
	q.mu.Lock()
	q.items.clear()
	q.mu.Unlock()

	if q.metrics != nil {
		q.metrics.QueueLength.WithLabelValues(q.name).Set(0)
	}
}

// Stop wakes every blocked consumer. Consumers that find the queue empty
// return false instead of waiting; buffered elements are still handed out.
// Stop is idempotent and lasts until Reset.
func (q *blocking[T]) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stopped = true
	q.notEmpty.Broadcast()
}

// IsStopped reports whether Stop has been called since construction or the last Reset.
func (q *blocking[T]) IsStopped() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stopped
}

// Reset drops every element and clears the stop flag.
func (q *blocking[T]) Reset() {
	q.mu.Lock()
	q.items.clear()
	q.stopped = false
	q.mu.Unlock()

	if q.metrics != nil {
		q.metrics.QueueLength.WithLabelValues(q.name).Set(0)
	}
}

// Stats returns a snapshot of queue activity.
func (q *blocking[T]) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	stats := q.stats
	stats.Len = q.items.len()
	return stats
}

// popLocked removes the next element (must hold lock).
func (q *blocking[T]) popLocked() (T, int) {
	item := q.items.pop()
	q.stats.Pops++
	return item, q.items.len()
}

func (q *blocking[T]) recordPop(remaining int) {
	if q.metrics == nil {
		return
	}
	q.metrics.QueuePops.WithLabelValues(q.name).Inc()
	q.metrics.QueueLength.WithLabelValues(q.name).Set(float64(remaining))
}

// Queue is an unbounded, goroutine-safe FIFO queue with blocking pops.
type Queue[T any] struct {
	blocking[T]
}

// New creates an empty FIFO queue.
func New[T any]() *Queue[T] {
	return NewWithConfig[T](Config{})
}

// NewWithConfig creates an empty FIFO queue with instrumentation settings.
func NewWithConfig[T any](config Config) *Queue[T] {
	q := &Queue[T]{}
	q.init(&ring[T]{}, config)
	return q
}

const minRingSize = 16

// ring is a growable circular buffer holding elements in push order.
type ring[T any] struct {
	buf   []T
	head  int
	count int
}

func (r *ring[T]) push(item T) {
	if r.count == len(r.buf) {
		r.grow()
	}
	r.buf[(r.head+r.count)%len(r.buf)] = item
	r.count++
}

func (r *ring[T]) pop() T {
	item := r.buf[r.head]
	var zero T
	r.buf[r.head] = zero // Clear reference
	r.head = (r.head + 1) % len(r.buf)
	r.count--
	return item
}

func (r *ring[T]) len() int { return r.count }

func (r *ring[T]) clear() {
	clear(r.buf)
	r.head = 0
	r.count = 0
}

func (r *ring[T]) grow() {
	size := len(r.buf) * 2
	if size < minRingSize {
		size = minRingSize
	}
	buf := make([]T, size)
	for i := 0; i < r.count; i++ {
		buf[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	r.buf = buf
	r.head = 0
}
