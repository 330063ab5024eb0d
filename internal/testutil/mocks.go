package testutil

import (
	"sync"
	"sync/atomic"
	"time"
)

// Gate is a one-shot barrier used to hold a task inside a worker until the
// test releases it. Entered reports how many goroutines reached the gate.
type Gate struct {
	open    chan struct{}
	once    sync.Once
	entered atomic.Int64
}

// NewGate creates a closed Gate.
func NewGate() *Gate {
	return &Gate{open: make(chan struct{})}
}

// Wait blocks until Open is called.
func (g *Gate) Wait() {
	g.entered.Add(1)
	<-g.open
}

// WaitTimeout blocks until Open is called or d elapses. It reports whether the gate opened.
func (g *Gate) WaitTimeout(d time.Duration) bool {
	g.entered.Add(1)
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-g.open:
		return true
	case <-timer.C:
		return false
	}
}

// Open releases every current and future waiter. Safe to call more than once.
func (g *Gate) Open() {
	g.once.Do(func() { close(g.open) })
}

// Entered returns the number of calls to Wait and WaitTimeout so far.
func (g *Gate) Entered() int64 {
	return g.entered.Load()
}
