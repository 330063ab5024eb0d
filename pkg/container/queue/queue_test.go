package queue

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnykmshr/syncflow/pkg/metrics"
)

func TestPushAndTryPopSingleGoroutine(t *testing.T) {
	q := New[int]()
	require.True(t, q.Empty())
	require.Equal(t, 0, q.Len())

	q.Push(1)
	require.False(t, q.Empty())
	require.Equal(t, 1, q.Len())

	v, ok := q.TryPop()
	require.True(t, ok)
	require.Equal(t, 1, v)
	require.True(t, q.Empty())
}

func TestTryPopEmpty(t *testing.T) {
	q := New[string]()
	v, ok := q.TryPop()
	assert.False(t, ok)
	assert.Equal(t, "", v)
}

func TestWaitPopReturnsBufferedElement(t *testing.T) {
	q := New[int]()
	q.Push(10)

	v, ok := q.WaitPop()
	require.True(t, ok)
	require.Equal(t, 10, v)
	require.True(t, q.Empty())
}

func TestWaitPopForElement(t *testing.T) {
	q := New[int]()
	q.Push(20)

	v, ok := q.WaitPopFor(100 * time.Millisecond)
	require.True(t, ok)
	require.Equal(t, 20, v)
}

func TestWaitPopForTimeout(t *testing.T) {
	q := New[int]()

	start := time.Now()
	_, ok := q.WaitPopFor(20 * time.Millisecond)
	elapsed := time.Since(start)

	require.False(t, ok)
	require.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
	require.Equal(t, int64(1), q.Stats().Timeouts)
}

func TestWaitPopForNonPositiveTimeout(t *testing.T) {
	q := New[int]()
	_, ok := q.WaitPopFor(0)
	require.False(t, ok)

	q.Push(3)
	v, ok := q.WaitPopFor(-time.Second)
	require.True(t, ok)
	require.Equal(t, 3, v)
}

func TestWaitPopWokenByPush(t *testing.T) {
	q := New[int]()
	got := make(chan int, 1)

	go func() {
		v, ok := q.WaitPop()
		if ok {
			got <- v
		}
		close(got)
	}()

	time.Sleep(10 * time.Millisecond)
	q.Push(7)

	select {
	case v := <-got:
		require.Equal(t, 7, v)
	case <-time.After(time.Second):
		t.Fatal("WaitPop was not woken by Push")
	}
}

func TestWaitPopContextCanceled(t *testing.T) {
	q := New[int]()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan bool, 1)
	go func() {
		_, ok := q.WaitPopContext(ctx)
		done <- ok
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case ok := <-done:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("WaitPopContext ignored cancellation")
	}
}

func TestClear(t *testing.T) {
	q := New[int]()
	q.Push(1)
	q.Push(2)
	require.Equal(t, 2, q.Len())

	q.Clear()
	require.True(t, q.Empty())
	_, ok := q.TryPop()
	require.False(t, ok)
}

func TestClearDoesNotReleaseWaiters(t *testing.T) {
	q := New[int]()
	q.Push(1)
	q.Clear()

	_, ok := q.WaitPopFor(10 * time.Millisecond)
	require.False(t, ok)
}

func TestFIFOOrderSingleProducerSingleConsumer(t *testing.T) {
	q := New[int]()
	const n = 1000

	go func() {
		for i := 0; i < n; i++ {
			q.Push(i)
		}
	}()

	for i := 0; i < n; i++ {
		v, ok := q.WaitPopFor(time.Second)
		require.True(t, ok)
		require.Equal(t, i, v)
	}
}

func TestRingGrowsAcrossWrap(t *testing.T) {
	q := New[int]()
	next := 0
	// Interleave pushes and pops so the head wraps before the buffer grows.
	for i := 0; i < 100; i++ {
		q.Push(i)
		if i%3 == 0 {
			v, ok := q.TryPop()
			require.True(t, ok)
			require.Equal(t, next, v)
			next++
		}
	}
	for next < 100 {
		v, ok := q.TryPop()
		require.True(t, ok)
		require.Equal(t, next, v)
		next++
	}
	require.True(t, q.Empty())
}

func TestMultipleProducersMultipleConsumers(t *testing.T) {
	q := New[int]()
	const producers = 4
	const perProducer = 250
	const consumers = 3
	const total = producers * perProducer

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				q.Push(p*perProducer + j)
			}
		}(p)
	}

	var consumed atomic.Int64
	var mu sync.Mutex
	seen := make([]int, 0, total)
	var cwg sync.WaitGroup
	for c := 0; c < consumers; c++ {
		cwg.Add(1)
		go func() {
			defer cwg.Done()
			for consumed.Load() < total {
				v, ok := q.WaitPopFor(20 * time.Millisecond)
				if !ok {
					continue
				}
				consumed.Add(1)
				mu.Lock()
				seen = append(seen, v)
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	cwg.Wait()

	require.Equal(t, int64(total), consumed.Load())
	sort.Ints(seen)
	for i, v := range seen {
		require.Equal(t, i, v, "lost or duplicated element")
	}
	require.True(t, q.Empty())
}

func TestStopReleasesWaiters(t *testing.T) {
	q := New[int]()
	const waiters = 3

	results := make(chan bool, waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			_, ok := q.WaitPop()
			results <- ok
		}()
	}

	time.Sleep(10 * time.Millisecond)
	q.Stop()
	require.True(t, q.IsStopped())

	for i := 0; i < waiters; i++ {
		select {
		case ok := <-results:
			require.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("Stop did not release WaitPop")
		}
	}
}

func TestStoppedQueueStillDeliversBufferedElements(t *testing.T) {
	q := New[int]()
	q.Push(1)
	q.Stop()
	q.Stop()
	q.Push(2)

	v, ok := q.WaitPop()
	require.True(t, ok)
	require.Equal(t, 1, v)

	v, ok = q.WaitPop()
	require.True(t, ok)
	require.Equal(t, 2, v)

	_, ok = q.WaitPop()
	require.False(t, ok)
}

func TestReset(t *testing.T) {
	q := New[int]()
	q.Push(1)
	q.Stop()

	q.Reset()
	require.False(t, q.IsStopped())
	require.True(t, q.Empty())

	_, ok := q.WaitPopFor(5 * time.Millisecond)
	require.False(t, ok)
}

func TestStats(t *testing.T) {
	q := New[int]()
	q.Push(1)
	q.Push(2)
	q.Push(3)
	q.TryPop()
	q.WaitPopFor(0)

	stats := q.Stats()
	assert.Equal(t, 1, stats.Len)
	assert.Equal(t, int64(3), stats.Pushes)
	assert.Equal(t, int64(2), stats.Pops)
	assert.Equal(t, int64(0), stats.Timeouts)

	q.TryPop()
	q.WaitPopFor(0)
	assert.Equal(t, int64(1), q.Stats().Timeouts)
}

func TestQueueMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	q := NewWithConfig[int](Config{Name: "events", Metrics: metrics.NewRegistry(reg)})

	q.Push(1)
	q.Push(2)
	q.TryPop()
	q.WaitPopFor(0)
	q.WaitPopFor(0)

	const want = `
# HELP syncflow_queue_length Number of elements currently held by the queue
# TYPE syncflow_queue_length gauge
syncflow_queue_length{queue_name="events"} 0
# HELP syncflow_queue_pops_total Total number of elements popped
# TYPE syncflow_queue_pops_total counter
syncflow_queue_pops_total{queue_name="events"} 2
# HELP syncflow_queue_pushes_total Total number of elements pushed
# TYPE syncflow_queue_pushes_total counter
syncflow_queue_pushes_total{queue_name="events"} 2
# HELP syncflow_queue_wait_timeouts_total Total number of bounded waits that returned without an element
# TYPE syncflow_queue_wait_timeouts_total counter
syncflow_queue_wait_timeouts_total{queue_name="events"} 1
`
	require.NoError(t, promtest.GatherAndCompare(reg, strings.NewReader(want),
		"syncflow_queue_length", "syncflow_queue_pops_total",
		"syncflow_queue_pushes_total", "syncflow_queue_wait_timeouts_total"))
}
