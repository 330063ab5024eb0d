// Package context holds small helpers shared by the bounded waits of the
// queue, slot and worker pool packages.
package context

import (
	"context"
	"time"
)

// WithTimeoutOrCancel derives a context that ends when the parent ends or
// when timeout elapses. A non-positive timeout yields an already expired
// context, so a bounded wait degrades to a single predicate check.
func WithTimeoutOrCancel(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if timeout <= 0 {
		return context.WithDeadline(parent, time.Time{})
	}
	return context.WithTimeout(parent, timeout)
}

// IsCanceled returns true if the context has ended for any reason.
func IsCanceled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

