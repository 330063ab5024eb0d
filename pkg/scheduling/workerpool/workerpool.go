package workerpool

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	sfcontext "github.com/vnykmshr/syncflow/pkg/common/context"
	sferrors "github.com/vnykmshr/syncflow/pkg/common/errors"
	"github.com/vnykmshr/syncflow/pkg/common/validation"
)

// Start spawns workers goroutines and moves the pool to Running.
// It fails with ErrAlreadyRunning when the pool is running and with
// ErrStopping while a Stop is in progress.
func (p *Pool) Start(workers int) error {
	if err := validation.ValidatePositive(moduleName, "workers", workers); err != nil {
		return err
	}

	p.mu.Lock()
	switch p.state {
	case Running:
		p.mu.Unlock()
		return ErrAlreadyRunning
	case Stopping:
		p.mu.Unlock()
		return ErrStopping
	}

	p.state = Running
	p.size = workers
	p.workerWg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker(i)
	}
	p.mu.Unlock()

	p.recordSize(workers)
	p.logger.Info("worker pool started",
		zap.Int("workers", workers),
		zap.Int("capacity", p.config.QueueCapacity))
	return nil
}

// Stop rejects new submissions, waits for every worker to finish its current
// task and returns once the pool is Stopped. Queued tasks are discarded unless
// Config.DrainOnStop is set. Stop on a stopped pool is a no-op; concurrent
// calls all return after the pool has stopped.
func (p *Pool) Stop() {
	p.mu.Lock()
	switch p.state {
	case Stopped:
		p.mu.Unlock()
		return
	case Stopping:
		done := p.stopDone
		p.mu.Unlock()
		<-done
		return
	}

	p.state = Stopping
	p.stopDone = make(chan struct{})
	done := p.stopDone
	p.notEmpty.Broadcast()
	p.notFull.Broadcast()
	p.mu.Unlock()

	p.logger.Info("worker pool stopping", zap.Bool("drain", p.config.DrainOnStop))
	p.workerWg.Wait()

	p.mu.Lock()
	discarded := p.queue.drain()
	for _, j := range discarded {
		j.resolve(ErrTaskDiscarded)
	}
	p.state = Stopped
	p.size = 0
	close(done)
	p.mu.Unlock()

	if len(discarded) > 0 {
		p.logger.Warn("discarded queued tasks on stop", zap.Int("count", len(discarded)))
	}
	p.recordDiscarded(len(discarded))
	p.recordSize(0)
	p.recordQueueLen(0)
	p.logger.Info("worker pool stopped")
}

// Submit queues task for execution and returns its completion handle.
// The task runs with context.Background().
func (p *Pool) Submit(task Task) (*Handle[struct{}], error) {
	if err := validation.ValidateNotNil(moduleName, "task", task); err != nil {
		return nil, err
	}
	return SubmitContext(context.Background(), p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, task.Execute(ctx)
	})
}

// Submit queues fn on p and returns a handle resolving to its value.
//
// Submission fails synchronously, without queueing fn, with ErrNotRunning on a
// stopped pool, ErrStopping on a stopping pool, or ErrQueueFull when the queue
// stays full for the whole submit timeout.
func Submit[R any](p *Pool, fn func(ctx context.Context) (R, error)) (*Handle[R], error) {
	return SubmitContext(context.Background(), p, fn)
}

// SubmitContext is like Submit, but ctx also bounds the wait for queue space
// and is the context fn is executed with.
func SubmitContext[R any](ctx context.Context, p *Pool, fn func(ctx context.Context) (R, error)) (*Handle[R], error) {
	if fn == nil {
		return nil, sferrors.NewValidationError(moduleName, "fn", nil, "cannot be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	h := newHandle[R](uuid.NewString())
	j := &job{
		id:  h.id,
		ctx: ctx,
		call: func(ctx context.Context) error {
			value, err := fn(ctx)
			if err != nil {
				return err
			}
			h.value = value
			return nil
		},
		resolve: h.resolve,
	}

	if err := p.enqueue(ctx, j); err != nil {
		return nil, err
	}
	return h, nil
}

// enqueue adds j to the queue, waiting on notFull while the queue is at
// capacity and the pool keeps running.
func (p *Pool) enqueue(ctx context.Context, j *job) error {
	p.mu.Lock()

	if err := p.acceptErrLocked(); err != nil {
		p.mu.Unlock()
		p.reject(j, err)
		return err
	}

	if p.queue.full() {
		waitCtx, cancel := sfcontext.WithTimeoutOrCancel(ctx, p.config.SubmitTimeout)
		for p.queue.full() && p.state == Running {
			if p.notFull.Wait(waitCtx) != nil {
				break
			}
		}
		cancel()

		var err error
		switch {
		case p.state != Running:
			err = p.acceptErrLocked()
		case p.queue.full() && sfcontext.IsCanceled(ctx):
			err = fmt.Errorf("workerpool: submit canceled: %w", ctx.Err())
		case p.queue.full():
			err = ErrQueueFull
		}
		if err != nil {
			p.mu.Unlock()
			p.reject(j, err)
			return err
		}
	}

	j.enqueued = time.Now()
	p.queue.push(j)
	queued := p.queue.len()
	p.notEmpty.Signal()
	p.mu.Unlock()

	p.totalSubmitted.Add(1)
	p.recordSubmitted(queued)
	return nil
}

// acceptErrLocked maps the lifecycle state to a submission error (must hold lock).
func (p *Pool) acceptErrLocked() error {
	switch p.state {
	case Running:
		return nil
	case Stopping:
		return ErrStopping
	default:
		return ErrNotRunning
	}
}

func (p *Pool) reject(j *job, err error) {
	p.totalRejected.Add(1)
	p.recordRejected(rejectReason(err))
	p.logger.Debug("task rejected", zap.String("task_id", j.id), zap.Error(err))
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrQueueFull):
		return "queue_full"
	case errors.Is(err, ErrStopping):
		return "stopping"
	case errors.Is(err, ErrNotRunning):
		return "not_running"
	default:
		return "canceled"
	}
}

// worker is the main loop for a worker goroutine.
func (p *Pool) worker(id int) {
	defer p.workerWg.Done()

	if p.config.OnWorkerStart != nil {
		p.callHook("OnWorkerStart", id, func() { p.config.OnWorkerStart(id) })
	}
	if p.config.OnWorkerStop != nil {
		defer p.callHook("OnWorkerStop", id, func() { p.config.OnWorkerStop(id) })
	}

	for {
		j, ok := p.next()
		if !ok {
			return
		}
		p.execute(id, j)
	}
}

// next blocks until a job is available or the worker should exit.
func (p *Pool) next() (*job, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for p.queue.len() == 0 && p.state == Running {
		_ = p.notEmpty.Wait(context.Background())
	}
	if p.state != Running && (!p.config.DrainOnStop || p.queue.len() == 0) {
		return nil, false
	}

	j := p.queue.pop()
	p.notFull.Signal()
	p.recordQueueLen(p.queue.len())
	return j, true
}

// execute runs one job and settles its handle.
func (p *Pool) execute(workerID int, j *job) {
	p.activeWorkers.Add(1)
	p.recordActive(1)

	ctx, span := p.tracer.Start(j.ctx, "workerpool.task",
		trace.WithAttributes(
			attribute.String("syncflow.pool.name", p.name),
			attribute.String("syncflow.task.id", j.id),
			attribute.Int("syncflow.worker.id", workerID),
		))

	if p.config.OnTaskStart != nil {
		p.callHook("OnTaskStart", workerID, func() { p.config.OnTaskStart(workerID, j.id) })
	}

	start := time.Now()
	err := p.run(ctx, workerID, j)
	result := Result{
		TaskID:    j.id,
		WorkerID:  workerID,
		Err:       err,
		Duration:  time.Since(start),
		QueueWait: start.Sub(j.enqueued),
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.totalFailed.Add(1)
	} else {
		p.totalCompleted.Add(1)
	}
	span.End()

	p.activeWorkers.Add(-1)
	p.recordActive(-1)
	p.recordTaskDone(result)

	j.resolve(err)

	if p.config.OnTaskComplete != nil {
		p.callHook("OnTaskComplete", workerID, func() { p.config.OnTaskComplete(workerID, result) })
	}
}

// callHook runs a lifecycle hook. A panicking hook is logged and otherwise
// ignored, so it cannot take down the worker.
func (p *Pool) callHook(name string, workerID int, hook func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("lifecycle hook panicked",
				zap.String("hook", name),
				zap.Int("worker_id", workerID),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
		}
	}()
	hook()
}

// run calls the job, converting a returned error or a panic into an
// *ExecutionError.
func (p *Pool) run(ctx context.Context, workerID int, j *job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if ok {
				cause = fmt.Errorf("task panicked: %w", cause)
			} else {
				cause = fmt.Errorf("task panicked: %v", r)
			}
			stack := debug.Stack()
			p.logger.Error("task panicked",
				zap.String("task_id", j.id),
				zap.Int("worker_id", workerID),
				zap.Any("panic", r),
				zap.ByteString("stack", stack))
			err = &ExecutionError{
				TaskID:   j.id,
				WorkerID: workerID,
				Cause:    cause,
				Panic:    r,
				Stack:    stack,
			}
		}
	}()

	if cause := j.call(ctx); cause != nil {
		p.logger.Debug("task failed",
			zap.String("task_id", j.id),
			zap.Int("worker_id", workerID),
			zap.Error(cause))
		return &ExecutionError{TaskID: j.id, WorkerID: workerID, Cause: cause}
	}
	return nil
}
