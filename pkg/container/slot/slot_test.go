package slot

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnykmshr/syncflow/pkg/metrics"
)

func TestSetThenWaitAndGet(t *testing.T) {
	s := New[int]()
	s.Set(10)

	v, ok := s.WaitAndGet()
	require.True(t, ok)
	require.Equal(t, 10, v)
}

func TestTryGet(t *testing.T) {
	s := New[string]()
	_, ok := s.TryGet()
	require.False(t, ok)

	s.Set("hello")
	v, ok := s.TryGet()
	require.True(t, ok)
	require.Equal(t, "hello", v)

	_, ok = s.TryGet()
	require.False(t, ok, "a value is consumed by the first read")
}

func TestLastWriteWins(t *testing.T) {
	s := New[int]()
	s.Set(1)
	s.Set(2)
	s.Set(3)

	v, ok := s.TryGet()
	require.True(t, ok)
	require.Equal(t, 3, v)

	stats := s.Stats()
	assert.Equal(t, int64(3), stats.Sets)
	assert.Equal(t, int64(2), stats.Overwrites)
	assert.Equal(t, int64(1), stats.Gets)
}

func TestWaitAndGetWokenBySet(t *testing.T) {
	s := New[int]()
	got := make(chan int, 1)

	go func() {
		v, ok := s.WaitAndGet()
		if ok {
			got <- v
		}
		close(got)
	}()

	time.Sleep(10 * time.Millisecond)
	s.Set(42)

	select {
	case v := <-got:
		require.Equal(t, 42, v)
	case <-time.After(time.Second):
		t.Fatal("WaitAndGet was not woken by Set")
	}
}

func TestStopReleasesBlockedConsumer(t *testing.T) {
	s := New[int]()
	done := make(chan bool, 1)

	go func() {
		_, ok := s.WaitAndGet()
		done <- ok
	}()

	time.Sleep(10 * time.Millisecond)
	s.Stop()

	select {
	case ok := <-done:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Stop did not release WaitAndGet")
	}
	require.True(t, s.IsStopped())
}

func TestSetThenStopStillDelivers(t *testing.T) {
	s := New[int]()
	done := make(chan int, 1)
	started := make(chan struct{})

	go func() {
		close(started)
		v, ok := s.WaitAndGet()
		if !ok {
			v = -1
		}
		done <- v
	}()

	<-started
	time.Sleep(10 * time.Millisecond)
	s.Set(99)
	s.Stop()

	select {
	case v := <-done:
		require.Equal(t, 99, v)
	case <-time.After(time.Second):
		t.Fatal("consumer never returned")
	}
}

func TestStopKeepsPendingValue(t *testing.T) {
	s := New[int]()
	s.Set(5)
	s.Stop()
	s.Stop()

	v, ok := s.WaitAndGetFor(time.Second)
	require.True(t, ok)
	require.Equal(t, 5, v)

	_, ok = s.WaitAndGet()
	require.False(t, ok)
}

func TestWaitAndGetForTimeout(t *testing.T) {
	s := New[int]()

	start := time.Now()
	_, ok := s.WaitAndGetFor(20 * time.Millisecond)
	require.False(t, ok)
	require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestWaitAndGetForStopped(t *testing.T) {
	s := New[int]()
	s.Stop()

	start := time.Now()
	_, ok := s.WaitAndGetFor(time.Second)
	require.False(t, ok)
	require.Less(t, time.Since(start), 500*time.Millisecond, "stopped slot must not wait")
}

func TestResetRestoresFreshState(t *testing.T) {
	s := New[int]()
	s.Set(1)
	s.Stop()

	s.Reset()
	require.False(t, s.IsStopped())
	_, ok := s.TryGet()
	require.False(t, ok)

	_, ok = s.WaitAndGetFor(5 * time.Millisecond)
	require.False(t, ok)

	s.Set(2)
	v, ok := s.WaitAndGet()
	require.True(t, ok)
	require.Equal(t, 2, v)
}

func TestConcurrentSettersSingleReader(t *testing.T) {
	s := New[int]()
	const setters = 8
	const perSetter = 200

	var wg sync.WaitGroup
	for i := 0; i < setters; i++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < perSetter; j++ {
				s.Set(base + j)
			}
		}(i * perSetter)
	}

	readerDone := make(chan int)
	go func() {
		reads := 0
		for {
			if _, ok := s.WaitAndGet(); !ok {
				readerDone <- reads
				return
			}
			reads++
		}
	}()

	wg.Wait()
	s.Stop()

	select {
	case reads := <-readerDone:
		stats := s.Stats()
		require.Equal(t, int64(setters*perSetter), stats.Sets)
		require.Equal(t, int64(reads), stats.Gets)
		require.Equal(t, stats.Sets, stats.Gets+stats.Overwrites)
	case <-time.After(time.Second):
		t.Fatal("reader did not stop")
	}
}

func TestSlotMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewWithConfig[int](Config{Name: "latest", Metrics: metrics.NewRegistry(reg)})

	s.Set(1)
	s.Set(2)
	s.Stop()

	const want = `
# HELP syncflow_slot_overwrites_total Total number of unread values replaced by a newer value
# TYPE syncflow_slot_overwrites_total counter
syncflow_slot_overwrites_total{slot_name="latest"} 1
# HELP syncflow_slot_sets_total Total number of values stored in the slot
# TYPE syncflow_slot_sets_total counter
syncflow_slot_sets_total{slot_name="latest"} 2
# HELP syncflow_slot_stops_total Total number of stop signals raised on the slot
# TYPE syncflow_slot_stops_total counter
syncflow_slot_stops_total{slot_name="latest"} 1
`
	require.NoError(t, promtest.GatherAndCompare(reg, strings.NewReader(want),
		"syncflow_slot_overwrites_total", "syncflow_slot_sets_total", "syncflow_slot_stops_total"))
}
