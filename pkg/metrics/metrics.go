// Package metrics provides Prometheus instrumentation for syncflow components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for syncflow components.
type Registry struct {
	// Worker Pool Metrics
	WorkerPoolSize        *prometheus.GaugeVec
	WorkerPoolActive      *prometheus.GaugeVec
	WorkerPoolQueued      *prometheus.GaugeVec
	TasksSubmitted        *prometheus.CounterVec
	TasksCompleted        *prometheus.CounterVec
	TasksFailed           *prometheus.CounterVec
	TasksRejected         *prometheus.CounterVec
	TasksDiscarded        *prometheus.CounterVec
	TaskExecutionDuration *prometheus.HistogramVec
	TaskQueueWait         *prometheus.HistogramVec

	// Queue Metrics
	QueueLength   *prometheus.GaugeVec
	QueuePushes   *prometheus.CounterVec
	QueuePops     *prometheus.CounterVec
	QueueTimeouts *prometheus.CounterVec

	// Slot Metrics
	SlotSets       *prometheus.CounterVec
	SlotOverwrites *prometheus.CounterVec
	SlotStops      *prometheus.CounterVec

	// Scheduler Metrics
	SchedulerRuns  *prometheus.CounterVec
	SchedulerSkips *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by syncflow components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	return NewRegistryWithNamespace(reg, DefaultNamespace)
}

// NewRegistryWithNamespace creates a registry whose metrics live under namespace.
func NewRegistryWithNamespace(reg prometheus.Registerer, namespace string) *Registry {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)

	poolLabels := []string{"pool_name"}
	queueLabels := []string{"queue_name"}
	slotLabels := []string{"slot_name"}
	schedulerLabels := []string{"scheduler_name"}

	return &Registry{
		WorkerPoolSize: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "workerpool",
				Name:      "size",
				Help:      "Number of worker goroutines in the pool",
			},
			poolLabels,
		),

		WorkerPoolActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "workerpool",
				Name:      "active_workers",
				Help:      "Number of workers currently executing a task",
			},
			poolLabels,
		),

		WorkerPoolQueued: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "workerpool",
				Name:      "queued_tasks",
				Help:      "Number of tasks waiting in the bounded queue",
			},
			poolLabels,
		),

		TasksSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "workerpool",
				Name:      "tasks_submitted_total",
				Help:      "Total number of tasks accepted by the pool",
			},
			poolLabels,
		),

		TasksCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "workerpool",
				Name:      "tasks_completed_total",
				Help:      "Total number of tasks that finished without error",
			},
			poolLabels,
		),

		TasksFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "workerpool",
				Name:      "tasks_failed_total",
				Help:      "Total number of tasks that returned an error or panicked",
			},
			poolLabels,
		),

		TasksRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "workerpool",
				Name:      "tasks_rejected_total",
				Help:      "Total number of submissions rejected by the pool",
			},
			[]string{"pool_name", "reason"},
		),

		TasksDiscarded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "workerpool",
				Name:      "tasks_discarded_total",
				Help:      "Total number of queued tasks dropped when the pool stopped",
			},
			poolLabels,
		),

		TaskExecutionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "workerpool",
				Name:      "task_duration_seconds",
				Help:      "Time spent executing tasks",
				Buckets:   prometheus.DefBuckets,
			},
			poolLabels,
		),

		TaskQueueWait: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "workerpool",
				Name:      "task_queue_wait_seconds",
				Help:      "Time tasks spent queued before a worker picked them up",
				Buckets:   prometheus.DefBuckets,
			},
			poolLabels,
		),

		QueueLength: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "queue",
				Name:      "length",
				Help:      "Number of elements currently held by the queue",
			},
			queueLabels,
		),

		QueuePushes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "queue",
				Name:      "pushes_total",
				Help:      "Total number of elements pushed",
			},
			queueLabels,
		),

		QueuePops: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "queue",
				Name:      "pops_total",
				Help:      "Total number of elements popped",
			},
			queueLabels,
		),

		QueueTimeouts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "queue",
				Name:      "wait_timeouts_total",
				Help:      "Total number of bounded waits that returned without an element",
			},
			queueLabels,
		),

		SlotSets: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "slot",
				Name:      "sets_total",
				Help:      "Total number of values stored in the slot",
			},
			slotLabels,
		),

		SlotOverwrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "slot",
				Name:      "overwrites_total",
				Help:      "Total number of unread values replaced by a newer value",
			},
			slotLabels,
		),

		SlotStops: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "slot",
				Name:      "stops_total",
				Help:      "Total number of stop signals raised on the slot",
			},
			slotLabels,
		),

		SchedulerRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "runs_total",
				Help:      "Total number of scheduled runs submitted to the pool",
			},
			schedulerLabels,
		),

		SchedulerSkips: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "skips_total",
				Help:      "Total number of scheduled runs the pool rejected",
			},
			[]string{"scheduler_name", "reason"},
		),
	}
}
