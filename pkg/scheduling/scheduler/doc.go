/*
Package scheduler submits tasks to a worker pool on cron schedules.

A Scheduler owns no goroutines that run tasks. Every activation is a
submission to the workerpool.Pool it wraps, so the pool's concurrency limit
and backpressure apply to scheduled work too.

Basic Usage:

	pool := workerpool.New(100)
	pool.Start(4)
	defer pool.Stop()

	s := scheduler.New(pool, scheduler.Config{Logger: logger})
	s.Start()
	defer func() { <-s.Stop() }()

	task := workerpool.TaskFunc(func(ctx context.Context) error {
		return refreshCache(ctx)
	})

	// Six fields, seconds first: every 15 seconds.
	s.Schedule("refresh", "0/15 * * * * *", task)

	// Descriptors work too.
	s.Schedule("report", "@daily", task)

	// Fixed intervals, including sub-second ones.
	s.ScheduleEvery("heartbeat", 250*time.Millisecond, task)

Expressions are parsed with github.com/robfig/cron/v3 and evaluated in
Config.Location.

Skipped Runs:

When the pool rejects an activation (ErrQueueFull, ErrStopping or
ErrNotRunning) the run is skipped: it is counted in Entry.Skips and the
scheduler_skips_total metric, logged, and not retried. The entry simply waits
for its next activation.

A tick waits at most one TickInterval for queue space, however long the
pool's own submit timeout is, so a saturated pool never stalls the ticker or
delays Stop. An activation that finds no space within that wait is skipped as
queue_full.

Entry Management:

	next, err := s.Next("refresh")
	for _, e := range s.List() {
		fmt.Printf("%s %s next=%v runs=%d skips=%d\n", e.ID, e.Spec, e.Next, e.Runs, e.Skips)
	}
	s.Remove("report")

Schedule returns ErrDuplicateID for a taken ID; Remove and Next return
ErrNotFound for unknown ones.

Lifecycle:

Start begins a ticker (Config.TickInterval, 50ms by default) that checks for
due entries. Stop returns a channel that closes once the ticker goroutine has
exited. Entries survive Stop and resume on the next Start. The pool is never
stopped by the scheduler.
*/
package scheduler
