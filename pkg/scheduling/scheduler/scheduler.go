package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	sferrors "github.com/vnykmshr/syncflow/pkg/common/errors"
	"github.com/vnykmshr/syncflow/pkg/common/validation"
	"github.com/vnykmshr/syncflow/pkg/metrics"
	"github.com/vnykmshr/syncflow/pkg/scheduling/workerpool"
)

const (
	moduleName = "scheduler"

	// DefaultTickInterval is how often due entries are checked.
	DefaultTickInterval = 50 * time.Millisecond

	// DefaultMaxEntries caps the number of registered entries.
	DefaultMaxEntries = 10000

	maxIDLength = 255
)

var (
	// ErrDuplicateID is returned when an entry with the same ID is already scheduled.
	ErrDuplicateID = errors.New("scheduler: duplicate entry id")

	// ErrNotFound is returned for operations on an unknown entry ID.
	ErrNotFound = errors.New("scheduler: entry not found")
)

// Config holds scheduler configuration.
type Config struct {
	// Name labels the scheduler in logs and metrics. Defaults to "default".
	Name string

	// Location is the time zone cron expressions are evaluated in. Defaults to time.Local.
	Location *time.Location

	// TickInterval is how often to check for due entries (default: 50ms).
	TickInterval time.Duration

	// MaxEntries limits the number of scheduled entries (default: 10000).
	MaxEntries int

	// Logger receives skipped-run warnings. Nil disables logging.
	Logger *zap.Logger

	// Metrics receives run and skip counters. Nil disables collection.
	Metrics *metrics.Registry
}

// Entry is a snapshot of one scheduled task.
type Entry struct {
	ID   string
	Spec string

	// Next is the next activation time; Prev the last one (zero if none yet).
	Next time.Time
	Prev time.Time

	// Runs counts activations accepted by the pool, Skips those it rejected.
	Runs  int64
	Skips int64
}

type entry struct {
	id       string
	spec     string
	schedule cron.Schedule
	task     workerpool.Task
	next     time.Time
	prev     time.Time
	runs     int64
	skips    int64
}

// Scheduler submits tasks to a worker pool on cron schedules. It never runs
// tasks itself: each activation is a pool submission, and an activation the
// pool rejects is skipped rather than retried.
type Scheduler struct {
	pool         *workerpool.Pool
	name         string
	location     *time.Location
	tickInterval time.Duration
	maxEntries   int
	parser       cron.Parser
	logger       *zap.Logger
	metrics      *metrics.Registry

	mu      sync.Mutex
	entries map[string]*entry
	running bool
	cancel  context.CancelFunc
	stopped chan struct{}
}

// New creates a stopped scheduler that submits to pool. The pool's lifecycle
// stays with the caller.
func New(pool *workerpool.Pool, cfg Config) *Scheduler {
	if pool == nil {
		panic(sferrors.NewValidationError(moduleName, "pool", nil, "cannot be nil"))
	}

	s := &Scheduler{
		pool:         pool,
		name:         cfg.Name,
		location:     cfg.Location,
		tickInterval: cfg.TickInterval,
		maxEntries:   cfg.MaxEntries,
		parser:       cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		entries:      make(map[string]*entry),
	}
	if s.name == "" {
		s.name = "default"
	}
	if s.location == nil {
		s.location = time.Local
	}
	if s.tickInterval <= 0 {
		s.tickInterval = DefaultTickInterval
	}
	if s.maxEntries <= 0 {
		s.maxEntries = DefaultMaxEntries
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.logger = s.logger.With(zap.String("scheduler", s.name))
	return s
}

// Schedule registers task under id to run on the six-field cron expression
// expr (seconds first) or a descriptor such as "@hourly" or "@every 5m".
func (s *Scheduler) Schedule(id, expr string, task workerpool.Task) error {
	if err := validation.ValidateNotEmpty(moduleName, "expr", expr); err != nil {
		return err
	}
	schedule, err := s.parser.Parse(expr)
	if err != nil {
		return fmt.Errorf("scheduler: invalid cron expression %q: %w", expr, err)
	}
	return s.add(id, expr, schedule, task)
}

// ScheduleEvery registers task under id to run every interval, starting one
// interval from now. Unlike "@every", sub-second intervals are kept as is.
func (s *Scheduler) ScheduleEvery(id string, interval time.Duration, task workerpool.Task) error {
	if err := validation.ValidatePositiveDuration(moduleName, "interval", interval); err != nil {
		return err
	}
	return s.add(id, "every "+interval.String(), every(interval), task)
}

func (s *Scheduler) add(id, spec string, schedule cron.Schedule, task workerpool.Task) error {
	if err := validation.ValidateNotEmpty(moduleName, "id", id); err != nil {
		return err
	}
	if len(id) > maxIDLength {
		return sferrors.NewValidationError(moduleName, "id", id, "too long").
			WithHint(fmt.Sprintf("use at most %d characters", maxIDLength))
	}
	if err := validation.ValidateNotNil(moduleName, "task", task); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[id]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}
	if len(s.entries) >= s.maxEntries {
		return fmt.Errorf("scheduler: cannot add %q: %w (max %d entries)", id, sferrors.ErrCapacityExceeded, s.maxEntries)
	}

	s.entries[id] = &entry{
		id:       id,
		spec:     spec,
		schedule: schedule,
		task:     task,
		next:     schedule.Next(time.Now().In(s.location)),
	}
	return nil
}

// Remove unregisters the entry with the given id.
func (s *Scheduler) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[id]; !exists {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	delete(s.entries, id)
	return nil
}

// Next returns the next activation time of the entry with the given id.
func (s *Scheduler) Next(id string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.entries[id]
	if !exists {
		return time.Time{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return e.next, nil
}

// List returns a snapshot of all entries ordered by next activation.
func (s *Scheduler) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, Entry{
			ID:    e.id,
			Spec:  e.spec,
			Next:  e.next,
			Prev:  e.prev,
			Runs:  e.runs,
			Skips: e.skips,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Next.Equal(entries[j].Next) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].Next.Before(entries[j].Next)
	})
	return entries
}

// Start begins checking for due entries. It fails with ErrAlreadyRunning when
// the scheduler is already started.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return sferrors.ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.running = true
	s.cancel = cancel
	s.stopped = make(chan struct{})

	go s.run(ctx, s.stopped)
	s.logger.Info("scheduler started", zap.Int("entries", len(s.entries)))
	return nil
}

// Stop halts activation. The returned channel closes once the scheduling
// goroutine has exited; tasks already submitted keep running in the pool.
// Entries are kept, so the scheduler can be started again.
func (s *Scheduler) Stop() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		stopped := s.stopped
		if stopped == nil {
			stopped = make(chan struct{})
			close(stopped)
		}
		return stopped
	}
	s.running = false
	s.cancel()
	s.logger.Info("scheduler stopping")
	return s.stopped
}

func (s *Scheduler) run(ctx context.Context, stopped chan<- struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.processDue(ctx, now)
		}
	}
}

// processDue submits every entry whose activation time has passed and
// advances it to its next activation. All submissions of one tick share a
// single TickInterval wait for queue space, which Stop cuts short.
func (s *Scheduler) processDue(ctx context.Context, now time.Time) {
	now = now.In(s.location)

	s.mu.Lock()
	due := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.next.IsZero() || e.next.After(now) {
			continue
		}
		due = append(due, e)
		e.prev = e.next
		e.next = e.schedule.Next(now)
	}
	s.mu.Unlock()

	if len(due) == 0 {
		return
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.tickInterval)
	defer cancel()

	for _, e := range due {
		err := s.submit(waitCtx, e.task)

		s.mu.Lock()
		if err != nil {
			e.skips++
		} else {
			e.runs++
		}
		s.mu.Unlock()

		if err != nil {
			s.recordSkip(e, err)
			continue
		}
		if s.metrics != nil {
			s.metrics.SchedulerRuns.WithLabelValues(s.name).Inc()
		}
	}
}

// submit queues task on the pool, waiting for space only while ctx lives.
// The task itself runs detached from ctx.
func (s *Scheduler) submit(ctx context.Context, task workerpool.Task) error {
	_, err := workerpool.SubmitContext(ctx, s.pool, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, task.Execute(context.WithoutCancel(ctx))
	})
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", workerpool.ErrQueueFull, err)
	}
	return err
}

// recordSkip logs a saturated pool at Warn and a stopped one at Info.
func (s *Scheduler) recordSkip(e *entry, err error) {
	level := zap.InfoLevel
	if sferrors.IsTemporary(err) {
		level = zap.WarnLevel
	}
	s.logger.Log(level, "scheduled run skipped",
		zap.String("entry", e.id),
		zap.Error(err))
	if s.metrics != nil {
		s.metrics.SchedulerSkips.WithLabelValues(s.name, skipReason(err)).Inc()
	}
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, workerpool.ErrQueueFull):
		return "queue_full"
	case errors.Is(err, workerpool.ErrStopping):
		return "stopping"
	case errors.Is(err, workerpool.ErrNotRunning):
		return "not_running"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}

// every is a fixed-interval cron.Schedule without cron.Every's one-second floor.
type every time.Duration

func (d every) Next(t time.Time) time.Time {
	return t.Add(time.Duration(d))
}
