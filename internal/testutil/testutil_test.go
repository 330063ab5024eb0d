package testutil

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestEventually(t *testing.T) {
	t.Run("condition met immediately", func(t *testing.T) {
		called := false
		Eventually(t, func() bool {
			called = true
			return true
		}, 100*time.Millisecond, 10*time.Millisecond)

		if !called {
			t.Error("condition function should be called")
		}
	})

	t.Run("condition met after delay", func(t *testing.T) {
		var counter atomic.Int32
		go func() {
			time.Sleep(50 * time.Millisecond)
			counter.Store(1)
		}()

		Eventually(t, func() bool {
			return counter.Load() == 1
		}, 200*time.Millisecond, 10*time.Millisecond)
	})
}

func TestWaitForInt64(t *testing.T) {
	var value atomic.Int64

	go func() {
		time.Sleep(30 * time.Millisecond)
		value.Store(42)
	}()

	WaitForInt64(t, &value, 42, 200*time.Millisecond)

	if value.Load() != 42 {
		t.Errorf("value = %d, want 42", value.Load())
	}
}

func TestGate(t *testing.T) {
	g := NewGate()
	released := make(chan struct{})

	go func() {
		g.Wait()
		close(released)
	}()

	Eventually(t, func() bool { return g.Entered() == 1 }, time.Second, time.Millisecond)

	select {
	case <-released:
		t.Fatal("gate released before Open")
	default:
	}

	g.Open()
	g.Open()

	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("gate did not release after Open")
	}
}

func TestGateWaitTimeout(t *testing.T) {
	g := NewGate()
	AssertEqual(t, g.WaitTimeout(5*time.Millisecond), false)

	g.Open()
	AssertEqual(t, g.WaitTimeout(time.Second), true)
	AssertEqual(t, g.Entered(), int64(2))
}
