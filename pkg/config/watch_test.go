package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/vnykmshr/syncflow/internal/testutil"
)

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "syncflow.yaml")
	testutil.AssertNoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0o600))

	var (
		mu     sync.Mutex
		levels []string
		errs   int
	)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path,
			func(cfg Config) {
				mu.Lock()
				levels = append(levels, cfg.Log.Level)
				mu.Unlock()
			},
			func(error) {
				mu.Lock()
				errs++
				mu.Unlock()
			})
	}()

	// Rewrite until the watcher, which starts asynchronously, reports it.
	testutil.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600)
		mu.Lock()
		defer mu.Unlock()
		return len(levels) > 0 && levels[len(levels)-1] == "debug"
	}, testutil.TestTimeout, 20*time.Millisecond)

	testutil.AssertNoError(t, os.WriteFile(path, []byte("log:\n  level: shouting\n"), 0o600))
	testutil.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return errs > 0
	}, testutil.TestTimeout, 5*time.Millisecond)

	cancel()
	testutil.AssertNoError(t, <-done)
}

func TestWatchRequiresCallback(t *testing.T) {
	err := Watch(context.Background(), "unused.yaml", nil, nil)
	testutil.AssertError(t, err)
}
