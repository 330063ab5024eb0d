package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every syncflow metric name.
const DefaultNamespace = "syncflow"

// Config holds configuration for metrics collection.
type Config struct {
	// Enabled controls whether metrics collection is active.
	Enabled bool

	// Registry is the Prometheus registry to use. If nil, uses prometheus.DefaultRegisterer.
	Registry prometheus.Registerer

	// Namespace overrides the default "syncflow" namespace for metrics.
	Namespace string

	// Labels are additional constant labels added to all metrics.
	Labels prometheus.Labels
}

// DefaultConfig returns a default metrics configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		Registry:  prometheus.DefaultRegisterer,
		Namespace: DefaultNamespace,
		Labels:    nil,
	}
}

// Build returns the Registry described by c, or nil when metrics are disabled.
// Components treat a nil Registry as "do not record".
func (c Config) Build() *Registry {
	if !c.Enabled {
		return nil
	}

	reg := c.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if reg == prometheus.DefaultRegisterer && len(c.Labels) == 0 &&
		(c.Namespace == "" || c.Namespace == DefaultNamespace) {
		return DefaultRegistry
	}
	if len(c.Labels) > 0 {
		reg = prometheus.WrapRegistererWith(c.Labels, reg)
	}
	return NewRegistryWithNamespace(reg, c.Namespace)
}
