package slot

import (
	"context"
	"sync"
	"time"

	"github.com/vnykmshr/syncflow/internal/cond"
	sfcontext "github.com/vnykmshr/syncflow/pkg/common/context"
	"github.com/vnykmshr/syncflow/pkg/metrics"
)

// Config holds optional instrumentation settings for a Slot.
type Config struct {
	// Name labels the slot in metrics. Defaults to "slot".
	Name string

	// Metrics receives slot measurements. Nil disables collection.
	Metrics *metrics.Registry
}

// Stats is a snapshot of slot activity.
type Stats struct {
	// Sets is the total number of Set calls.
	Sets int64

	// Gets is the total number of values consumed.
	Gets int64

	// Overwrites counts unread values discarded by a later Set.
	Overwrites int64
}

// Slot is a goroutine-safe single-value mailbox. It holds at most one unread
// value; a Set replaces any value nobody has read yet. Consumers block until a
// value arrives or the slot is stopped.
type Slot[T any] struct {
	mu      sync.Mutex
	changed *cond.Cond
	value   T
	hasNew  bool
	stopped bool
	stats   Stats

	name    string
	metrics *metrics.Registry
}

// New creates an empty slot.
func New[T any]() *Slot[T] {
	return NewWithConfig[T](Config{})
}

// NewWithConfig creates an empty slot with instrumentation settings.
func NewWithConfig[T any](config Config) *Slot[T] {
	s := &Slot[T]{
		name:    config.Name,
		metrics: config.Metrics,
	}
	if s.name == "" {
		s.name = "slot"
	}
	s.changed = cond.New(&s.mu)
	return s
}

// Set stores value as the pending unread value, discarding any unread
// predecessor, and wakes one waiter.
func (s *Slot[T]) Set(value T) {
	s.mu.Lock()
	overwrote := s.hasNew
	s.value = value
	s.hasNew = true
	s.stats.Sets++
	if overwrote {
		s.stats.Overwrites++
	}
	s.changed.Signal()
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SlotSets.WithLabelValues(s.name).Inc()
		if overwrote {
			s.metrics.SlotOverwrites.WithLabelValues(s.name).Inc()
		}
	}
}

// TryGet consumes the pending value without blocking.
func (s *Slot[T]) TryGet() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasNew {
		var zero T
		return zero, false
	}
	return s.takeLocked(), true
}

// WaitAndGet blocks until a value is pending or the slot is stopped. A value
// set before Stop is still delivered; the boolean is false only when the slot
// is stopped with nothing pending.
func (s *Slot[T]) WaitAndGet() (T, bool) {
	return s.WaitAndGetContext(context.Background())
}

// WaitAndGetFor is like WaitAndGet but gives up after timeout.
func (s *Slot[T]) WaitAndGetFor(timeout time.Duration) (T, bool) {
	ctx, cancel := sfcontext.WithTimeoutOrCancel(context.Background(), timeout)
	defer cancel()
	return s.WaitAndGetContext(ctx)
}

// WaitAndGetContext is like WaitAndGet but gives up when ctx ends.
func (s *Slot[T]) WaitAndGetContext(ctx context.Context) (T, bool) {
	var zero T

	s.mu.Lock()
	defer s.mu.Unlock()

	for !s.hasNew && !s.stopped {
		if err := s.changed.Wait(ctx); err != nil {
			break
		}
	}

	if !s.hasNew {
		return zero, false
	}
	return s.takeLocked(), true
}

// Stop marks the slot stopped and wakes every waiter. A pending value is kept
// and will still be delivered. Stop is idempotent.
func (s *Slot[T]) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.changed.Broadcast()
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SlotStops.WithLabelValues(s.name).Inc()
	}
}

// IsStopped reports whether Stop has been called since construction or the last Reset.
func (s *Slot[T]) IsStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Reset discards any pending value and clears the stop flag.
func (s *Slot[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	s.value = zero
	s.hasNew = false
	s.stopped = false
}

// Stats returns a snapshot of slot activity.
func (s *Slot[T]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// takeLocked hands the pending value to the caller (must hold lock).
func (s *Slot[T]) takeLocked() T {
	value := s.value
	var zero T
	s.value = zero
	s.hasNew = false
	s.stats.Gets++
	return value
}
