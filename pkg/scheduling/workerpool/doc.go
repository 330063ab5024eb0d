/*
Package workerpool provides a bounded worker pool with backpressure and a
start/stop lifecycle.

A Pool owns a fixed number of worker goroutines and a bounded FIFO of pending
tasks. Submitting to a full queue blocks the caller until a worker frees a
slot or the submit timeout elapses, which keeps producers from outrunning the
workers without unbounded memory growth.

Basic usage:

	pool := workerpool.New(100) // up to 100 pending tasks
	if err := pool.Start(4); err != nil {
		return err
	}
	defer pool.Stop()

	h, err := workerpool.Submit(pool, func(ctx context.Context) (int, error) {
		return 6 * 7, nil
	})
	if err != nil {
		return err // ErrNotRunning, ErrStopping or ErrQueueFull
	}
	answer, err := h.Wait()

Lifecycle:

A pool moves Stopped -> Running -> Stopping -> Stopped. Start spawns workers
and fails with ErrAlreadyRunning on a running pool. Stop rejects further
submissions, lets every worker finish the task it is executing and joins the
workers. Tasks still queued at that point are discarded and their handles fail
with ErrTaskDiscarded, unless Config.DrainOnStop is set, in which case workers
keep going until the queue is empty. A stopped pool may be started again with
any worker count.

Submission errors:

Submission never silently drops work. It either queues the task and returns a
handle, or fails synchronously:

  - ErrNotRunning: the pool is stopped
  - ErrStopping: the pool is stopping, including when Stop begins while the
    caller waits for queue space
  - ErrQueueFull: the queue stayed full for Config.SubmitTimeout (5s by default)

ErrQueueFull is retryable (see errors.IsRetryable); back off and resubmit.
With SubmitContext the caller's context also bounds the wait and its error is
returned wrapped if it ends first.

Task results:

Each task resolves its Handle exactly once. Errors returned by a task and
panics inside it are captured as *ExecutionError, carrying the task and worker
IDs, and never affect the worker or the pool:

	_, err := h.Wait()
	var execErr *workerpool.ExecutionError
	if errors.As(err, &execErr) && execErr.Panicked() {
		log.Printf("task %s panicked: %v\n%s", execErr.TaskID, execErr.Panic, execErr.Stack)
	}

Tasks that only report an error can be submitted as a Task:

	h, err := pool.Submit(workerpool.TaskFunc(func(ctx context.Context) error {
		return process(ctx)
	}))

Observability:

Config accepts a zap logger, an OpenTelemetry tracer (one "workerpool.task"
span per execution) and a metrics.Registry. Lifecycle hooks mirror the
goroutine lifecycle:

	config := workerpool.Config{
		Name:          "ingest",
		QueueCapacity: 1000,
		Logger:        logger,
		Metrics:       metrics.NewRegistry(prometheus.DefaultRegisterer),
		OnWorkerStart: func(workerID int) {
			// Initialize per-worker DB connection
			connections[workerID] = db.Connect()
		},
		OnTaskComplete: func(workerID int, result workerpool.Result) {
			log.Printf("worker %d finished %s in %v", workerID, result.TaskID, result.Duration)
		},
	}
	pool := workerpool.NewWithConfig(config)

Sizing:

  - CPU-bound: workers = CPU cores
  - I/O-bound: workers = 2-4x CPU cores
  - Queue capacity: the burst you are willing to buffer

Thread Safety:

All pool and handle operations are safe for concurrent use. A single mutex
guards the lifecycle state and the queue, so a submission racing with Stop
either lands before the stop begins (and is executed or discarded with a
resolved handle) or fails with ErrStopping or ErrNotRunning.
*/
package workerpool
