package workerpool

import (
	"context"
	"fmt"
)

// Handle is the completion handle of one submitted task. It resolves exactly
// once, with either the task's value or an error, and can be read any number
// of times afterwards.
type Handle[R any] struct {
	id    string
	done  chan struct{}
	value R
	err   error
}

func newHandle[R any](id string) *Handle[R] {
	return &Handle[R]{id: id, done: make(chan struct{})}
}

// ID returns the identifier assigned to the task at submission.
func (h *Handle[R]) ID() string {
	return h.id
}

// Done returns a channel that is closed once the handle resolves.
func (h *Handle[R]) Done() <-chan struct{} {
	return h.done
}

// IsDone reports whether the handle has resolved.
func (h *Handle[R]) IsDone() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the task finishes and returns its value and error.
// A failed task yields an *ExecutionError; a task dropped by Stop yields
// ErrTaskDiscarded.
func (h *Handle[R]) Wait() (R, error) {
	<-h.done
	return h.value, h.err
}

// WaitContext is like Wait but gives up when ctx ends, returning ctx.Err().
// Giving up does not cancel the task.
func (h *Handle[R]) WaitContext(ctx context.Context) (R, error) {
	select {
	case <-h.done:
		return h.value, h.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// TryResult returns the outcome without blocking. ok is false while the task
// is still pending.
func (h *Handle[R]) TryResult() (value R, err error, ok bool) {
	if !h.IsDone() {
		var zero R
		return zero, nil, false
	}
	return h.value, h.err, true
}

// resolve settles the handle. value must already be stored on success.
// Called exactly once, by a worker or by Stop.
func (h *Handle[R]) resolve(err error) {
	h.err = err
	close(h.done)
}

// ExecutionError reports a task that returned an error or panicked.
// errors.Is and errors.As reach the task's own error through Unwrap.
type ExecutionError struct {
	TaskID   string
	WorkerID int

	// Cause is the error returned by the task, or one describing the panic.
	Cause error

	// Panic holds the recovered value when the task panicked.
	Panic any

	// Stack is the worker stack captured at the panic.
	Stack []byte
}

func (e *ExecutionError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("workerpool: task %s panicked on worker %d: %v", e.TaskID, e.WorkerID, e.Panic)
	}
	return fmt.Sprintf("workerpool: task %s failed on worker %d: %v", e.TaskID, e.WorkerID, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Panicked reports whether the task panicked rather than returning an error.
func (e *ExecutionError) Panicked() bool {
	return e.Panic != nil
}
