// Package metrics provides Prometheus instrumentation for syncflow components.
//
// # Quick Start
//
// Components accept a *Registry in their configuration. A nil Registry
// disables collection:
//
//	reg := metrics.Config{Enabled: true, Registry: prometheus.NewRegistry()}.Build()
//
//	pool := workerpool.NewWithConfig(workerpool.Config{
//		Name:    "ingest",
//		Metrics: reg,
//	})
//
//	q := queue.NewWithConfig[string](queue.Config{Name: "events", Metrics: reg})
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//
// # Available Metrics
//
// Worker pools (label pool_name):
//
//   - syncflow_workerpool_size
//   - syncflow_workerpool_active_workers
//   - syncflow_workerpool_queued_tasks
//   - syncflow_workerpool_tasks_submitted_total
//   - syncflow_workerpool_tasks_completed_total
//   - syncflow_workerpool_tasks_failed_total
//   - syncflow_workerpool_tasks_rejected_total (extra label reason)
//   - syncflow_workerpool_tasks_discarded_total
//   - syncflow_workerpool_task_duration_seconds
//   - syncflow_workerpool_task_queue_wait_seconds
//
// Queues (label queue_name): syncflow_queue_length, syncflow_queue_pushes_total,
// syncflow_queue_pops_total, syncflow_queue_wait_timeouts_total.
//
// Slots (label slot_name): syncflow_slot_sets_total, syncflow_slot_overwrites_total,
// syncflow_slot_stops_total.
//
// Schedulers (label scheduler_name): syncflow_scheduler_runs_total,
// syncflow_scheduler_skips_total (extra label reason).
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation, or a custom namespace:
//
//	registry := prometheus.NewRegistry()
//	reg := metrics.NewRegistryWithNamespace(registry, "myapp")
package metrics
