/*
Package syncflow provides concurrency primitives for Go services: blocking
containers, a bounded worker pool and a cron scheduler that feeds it.

Containers (pkg/container):
  - queue: Unbounded FIFO and priority queues with blocking and timed pops
  - slot: Single-value mailbox where the latest write wins

Task Scheduling (pkg/scheduling):
  - workerpool: Bounded worker pool with backpressure and completion handles
  - scheduler: Cron and interval schedules that submit to a worker pool

Supporting packages:
  - config: YAML configuration with SYNCFLOW_* environment overrides
  - logging: zap logger construction
  - metrics: Prometheus collectors shared by every component

Example usage:

	import (
		"github.com/vnykmshr/syncflow/pkg/container/queue"
		"github.com/vnykmshr/syncflow/pkg/scheduling/workerpool"
	)

	results := queue.New[int]()
	pool := workerpool.New(100) // up to 100 pending tasks
	_ = pool.Start(4)
	defer pool.Stop()

	_, err := pool.Submit(workerpool.TaskFunc(func(ctx context.Context) error {
		results.Push(42)
		return nil
	}))
*/
package syncflow
