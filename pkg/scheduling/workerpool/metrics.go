package workerpool

// The record helpers push pool measurements into the configured
// metrics.Registry. Each is a no-op when metrics are disabled.

func (p *Pool) recordSize(workers int) {
	if p.metrics == nil {
		return
	}
	p.metrics.WorkerPoolSize.WithLabelValues(p.name).Set(float64(workers))
}

func (p *Pool) recordActive(delta float64) {
	if p.metrics == nil {
		return
	}
	p.metrics.WorkerPoolActive.WithLabelValues(p.name).Add(delta)
}

func (p *Pool) recordQueueLen(n int) {
	if p.metrics == nil {
		return
	}
	p.metrics.WorkerPoolQueued.WithLabelValues(p.name).Set(float64(n))
}

func (p *Pool) recordSubmitted(queued int) {
	if p.metrics == nil {
		return
	}
	p.metrics.TasksSubmitted.WithLabelValues(p.name).Inc()
	p.metrics.WorkerPoolQueued.WithLabelValues(p.name).Set(float64(queued))
}

func (p *Pool) recordRejected(reason string) {
	if p.metrics == nil {
		return
	}
	p.metrics.TasksRejected.WithLabelValues(p.name, reason).Inc()
}

func (p *Pool) recordDiscarded(n int) {
	if p.metrics == nil || n == 0 {
		return
	}
	p.metrics.TasksDiscarded.WithLabelValues(p.name).Add(float64(n))
}

func (p *Pool) recordTaskDone(result Result) {
	if p.metrics == nil {
		return
	}
	p.metrics.TaskExecutionDuration.WithLabelValues(p.name).Observe(result.Duration.Seconds())
	p.metrics.TaskQueueWait.WithLabelValues(p.name).Observe(result.QueueWait.Seconds())

	if result.Err != nil {
		p.metrics.TasksFailed.WithLabelValues(p.name).Inc()
		return
	}
	p.metrics.TasksCompleted.WithLabelValues(p.name).Inc()
}
