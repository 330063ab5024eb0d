/*
Package scheduling groups task execution and time-based scheduling.

  - workerpool: Fixed-size pool executing tasks from a bounded queue
  - scheduler: Cron-like scheduling that submits due tasks to a pool

Worker Pool:

	pool := workerpool.New(100) // queue capacity 100
	if err := pool.Start(4); err != nil {
		return err
	}
	defer pool.Stop()

	h, err := workerpool.Submit(pool, func(ctx context.Context) (string, error) {
		return fetch(ctx)
	})
	if err != nil {
		return err
	}
	body, err := h.Wait()

Scheduler:

	sched := scheduler.New(pool, scheduler.Config{Name: "jobs"})
	_ = sched.Schedule("report", "0 0 9 * * MON-FRI", reportTask) // weekdays at 9 AM
	_ = sched.ScheduleEvery("poll", 30*time.Second, pollTask)
	_ = sched.Start()
	defer func() { <-sched.Stop() }()

A scheduled run that the pool rejects, because its queue is full or it is
not running, is counted as a skip and waits for the next occurrence.
*/
package scheduling
