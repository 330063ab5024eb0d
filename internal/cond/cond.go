// Package cond provides a condition variable whose waits can be bounded by a
// context. It mirrors sync.Cond (Signal wakes one waiter, Broadcast wakes all)
// but every waiter parks on its own channel, so a waiter can give up when its
// deadline passes without losing a signal meant for someone else.
//
// Callers must hold L when calling Wait, Signal and Broadcast, and must re-check
// their wake predicate in a loop after Wait returns.
package cond

import (
	"container/list"
	"context"
	"sync"
)

// Cond is a context-aware condition variable associated with the Locker L.
type Cond struct {
	L sync.Locker

	waiters list.List // of chan struct{}, oldest first
}

// New returns a Cond bound to l.
func New(l sync.Locker) *Cond {
	return &Cond{L: l}
}

// Wait atomically unlocks c.L and parks the caller until Signal or Broadcast
// selects it or ctx ends. c.L is locked again before Wait returns.
//
// Wait returns nil when the caller was woken and ctx.Err() when it gave up.
// A waiter that is woken and times out at the same moment reports the wake-up,
// so the signal is always consumed by a predicate check.
func (c *Cond) Wait(ctx context.Context) error {
	ready := make(chan struct{})
	elem := c.waiters.PushBack(ready)

	c.L.Unlock()
	select {
	case <-ready:
		c.L.Lock()
		return nil
	case <-ctx.Done():
	}
	c.L.Lock()

	select {
	case <-ready:
		return nil
	default:
		c.waiters.Remove(elem)
		return ctx.Err()
	}
}

// Signal wakes the longest-parked waiter, if any.
func (c *Cond) Signal() {
	if front := c.waiters.Front(); front != nil {
		c.waiters.Remove(front)
		close(front.Value.(chan struct{}))
	}
}

// Broadcast wakes every parked waiter.
func (c *Cond) Broadcast() {
	for e := c.waiters.Front(); e != nil; e = e.Next() {
		close(e.Value.(chan struct{}))
	}
	c.waiters.Init()
}

// Waiters returns the number of parked waiters.
func (c *Cond) Waiters() int {
	return c.waiters.Len()
}
