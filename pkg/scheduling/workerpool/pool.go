package workerpool

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/vnykmshr/syncflow/internal/cond"
	sferrors "github.com/vnykmshr/syncflow/pkg/common/errors"
	"github.com/vnykmshr/syncflow/pkg/common/validation"
	"github.com/vnykmshr/syncflow/pkg/metrics"
)

const (
	// DefaultQueueCapacity is the number of pending tasks a pool buffers when
	// Config.QueueCapacity is zero.
	DefaultQueueCapacity = 1024

	// DefaultSubmitTimeout is how long Submit waits for room in a full queue
	// when Config.SubmitTimeout is zero.
	DefaultSubmitTimeout = 5 * time.Second

	moduleName = "workerpool"
)

// Submission errors, re-exported so callers need not import pkg/common/errors.
var (
	ErrNotRunning     = sferrors.ErrNotRunning
	ErrStopping       = sferrors.ErrStopping
	ErrQueueFull      = sferrors.ErrQueueFull
	ErrAlreadyRunning = sferrors.ErrAlreadyRunning
	ErrTaskDiscarded  = sferrors.ErrTaskDiscarded
)

// Task represents a unit of work that can be executed by a worker.
type Task interface {
	// Execute runs the task with the given context.
	// It should respect context cancellation and return any error encountered.
	Execute(ctx context.Context) error
}

// TaskFunc is a function type that implements the Task interface.
type TaskFunc func(ctx context.Context) error

// Execute implements the Task interface for TaskFunc.
func (f TaskFunc) Execute(ctx context.Context) error {
	return f(ctx)
}

// State is the lifecycle position of a pool.
type State int32

const (
	// Stopped pools have no workers and reject submissions with ErrNotRunning.
	Stopped State = iota
	// Running pools accept submissions and execute them.
	Running
	// Stopping pools are joining their workers and reject submissions with ErrStopping.
	Stopping
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Result describes one finished task. It is passed to Config.OnTaskComplete.
type Result struct {
	// TaskID is the identifier assigned at submission.
	TaskID string

	// WorkerID identifies which worker executed the task
	WorkerID int

	// Err is nil on success, otherwise an *ExecutionError.
	Err error

	// Duration is how long the task took to execute
	Duration time.Duration

	// QueueWait is how long the task sat in the queue before a worker took it.
	QueueWait time.Duration
}

// Config holds configuration options for creating a worker pool.
type Config struct {
	// Name labels the pool in logs, spans and metrics. Defaults to "default".
	Name string

	// QueueCapacity bounds the number of pending tasks.
	// Zero selects DefaultQueueCapacity.
	QueueCapacity int

	// SubmitTimeout bounds how long Submit waits for room in a full queue.
	// Zero selects DefaultSubmitTimeout.
	SubmitTimeout time.Duration

	// DrainOnStop makes workers execute every queued task before Stop returns.
	// When false, queued tasks are discarded and their handles fail with
	// ErrTaskDiscarded.
	DrainOnStop bool

	// Logger receives lifecycle and failure logs. Nil disables logging.
	Logger *zap.Logger

	// Tracer opens one span per executed task. Nil disables tracing.
	Tracer trace.Tracer

	// Metrics receives pool measurements. Nil disables collection.
	Metrics *metrics.Registry

	// OnWorkerStart is called when a worker starts.
	// Useful for per-worker initialization (e.g., database connections).
	OnWorkerStart func(workerID int)

	// OnWorkerStop is called when a worker stops.
	// Useful for per-worker cleanup.
	OnWorkerStop func(workerID int)

	// OnTaskStart is called before a task begins execution.
	OnTaskStart func(workerID int, taskID string)

	// OnTaskComplete is called after a task completes (success or failure).
	OnTaskComplete func(workerID int, result Result)

	// A panic inside any hook is logged at error level and does not affect
	// the worker or the task.
}

// Pool executes submitted tasks on a fixed set of worker goroutines, buffering
// at most Capacity pending tasks. A full queue pushes back on submitters for up
// to the submit timeout.
//
// A Pool is created Stopped; call Start to spawn workers. It can be restarted
// after Stop, with a different worker count if desired.
type Pool struct {
	config  Config
	name    string
	logger  *zap.Logger
	tracer  trace.Tracer
	metrics *metrics.Registry

	mu       sync.Mutex
	notEmpty *cond.Cond
	notFull  *cond.Cond
	queue    *taskRing
	state    State
	size     int
	stopDone chan struct{}

	workerWg sync.WaitGroup

	activeWorkers  atomic.Int32
	totalSubmitted atomic.Int64
	totalCompleted atomic.Int64
	totalFailed    atomic.Int64
	totalRejected  atomic.Int64
}

// New creates a stopped pool that buffers up to capacity pending tasks.
func New(capacity int) *Pool {
	return NewWithConfig(Config{QueueCapacity: capacity})
}

// NewWithConfig creates a stopped pool with the specified configuration.
// It panics on a negative capacity or submit timeout.
func NewWithConfig(config Config) *Pool {
	if config.QueueCapacity < 0 {
		panic(sferrors.NewValidationError(moduleName, "QueueCapacity", config.QueueCapacity, "cannot be negative"))
	}
	if err := validation.ValidateNonNegativeDuration(moduleName, "SubmitTimeout", config.SubmitTimeout); err != nil {
		panic(err)
	}

	if config.Name == "" {
		config.Name = "default"
	}
	if config.QueueCapacity == 0 {
		config.QueueCapacity = DefaultQueueCapacity
	}
	if config.SubmitTimeout == 0 {
		config.SubmitTimeout = DefaultSubmitTimeout
	}

	p := &Pool{
		config:  config,
		name:    config.Name,
		logger:  config.Logger,
		tracer:  config.Tracer,
		metrics: config.Metrics,
		queue:   newTaskRing(config.QueueCapacity),
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	p.logger = p.logger.With(zap.String("pool", p.name))
	if p.tracer == nil {
		p.tracer = noop.NewTracerProvider().Tracer("")
	}
	p.notEmpty = cond.New(&p.mu)
	p.notFull = cond.New(&p.mu)
	return p
}

// Name returns the pool name used in logs and metrics.
func (p *Pool) Name() string {
	return p.name
}

// State returns the current lifecycle state.
func (p *Pool) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Size returns the number of workers, or zero when the pool is stopped.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.size
}

// Capacity returns the maximum number of pending tasks.
func (p *Pool) Capacity() int {
	return p.config.QueueCapacity
}

// QueueSize returns the current number of queued tasks waiting for execution.
func (p *Pool) QueueSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.len()
}

// ActiveWorkers returns the number of workers currently executing tasks.
func (p *Pool) ActiveWorkers() int {
	return int(p.activeWorkers.Load())
}

// TotalSubmitted returns the number of tasks accepted since construction.
func (p *Pool) TotalSubmitted() int64 {
	return p.totalSubmitted.Load()
}

// TotalCompleted returns the number of tasks that finished without error.
func (p *Pool) TotalCompleted() int64 {
	return p.totalCompleted.Load()
}

// TotalFailed returns the number of tasks that returned an error or panicked.
func (p *Pool) TotalFailed() int64 {
	return p.totalFailed.Load()
}

// TotalRejected returns the number of submissions that failed synchronously.
func (p *Pool) TotalRejected() int64 {
	return p.totalRejected.Load()
}

// job is a queued task together with the callbacks that settle its handle.
type job struct {
	id       string
	ctx      context.Context
	call     func(ctx context.Context) error
	resolve  func(err error)
	enqueued time.Time
}

// taskRing is the bounded FIFO of pending jobs. Guarded by the pool mutex.
type taskRing struct {
	buffer []*job
	head   int
	count  int
}

func newTaskRing(capacity int) *taskRing {
	return &taskRing{buffer: make([]*job, capacity)}
}

func (r *taskRing) len() int   { return r.count }
func (r *taskRing) full() bool { return r.count == len(r.buffer) }

func (r *taskRing) push(j *job) {
	r.buffer[(r.head+r.count)%len(r.buffer)] = j
	r.count++
}

func (r *taskRing) pop() *job {
	j := r.buffer[r.head]
	r.buffer[r.head] = nil
	r.head = (r.head + 1) % len(r.buffer)
	r.count--
	return j
}

// drain removes and returns every pending job in FIFO order.
func (r *taskRing) drain() []*job {
	jobs := make([]*job, 0, r.count)
	for r.count > 0 {
		jobs = append(jobs, r.pop())
	}
	r.head = 0
	return jobs
}
