// Package config loads syncflow service configuration from YAML with
// environment variable overrides.
package config

import (
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	sferrors "github.com/vnykmshr/syncflow/pkg/common/errors"
	"github.com/vnykmshr/syncflow/pkg/common/validation"
	"github.com/vnykmshr/syncflow/pkg/logging"
	"github.com/vnykmshr/syncflow/pkg/metrics"
	"github.com/vnykmshr/syncflow/pkg/scheduling/workerpool"
)

// EnvPrefix prefixes every environment override, e.g. SYNCFLOW_POOL_WORKERS.
const EnvPrefix = "SYNCFLOW"

const moduleName = "config"

// Config is the root configuration document.
type Config struct {
	Pool    PoolConfig     `yaml:"pool"`
	Log     logging.Config `yaml:"log"`
	Metrics MetricsConfig  `yaml:"metrics"`
}

// PoolConfig describes one worker pool.
type PoolConfig struct {
	Name          string        `yaml:"name"`
	Workers       int           `yaml:"workers"`
	QueueCapacity int           `yaml:"queue_capacity"`
	SubmitTimeout time.Duration `yaml:"submit_timeout"`
	DrainOnStop   bool          `yaml:"drain_on_stop"`
}

// MetricsConfig controls Prometheus collection and the scrape endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Pool: PoolConfig{
			Name:          "default",
			Workers:       4,
			QueueCapacity: workerpool.DefaultQueueCapacity,
			SubmitTimeout: workerpool.DefaultSubmitTimeout,
		},
		Log: logging.DefaultConfig(),
		Metrics: MetricsConfig{
			Enabled: true,
			Address: ":9090",
		},
	}
}

// Load reads the YAML file at path over the defaults, applies SYNCFLOW_*
// environment overrides and validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		// #nosec G304 -- path comes from the operator.
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, sferrors.NewOperationError(moduleName, "read", err).WithContext(path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, sferrors.NewOperationError(moduleName, "parse", err).WithContext(path)
		}
	}

	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. It does not
// consult the environment.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, sferrors.NewOperationError(moduleName, "parse", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid field as a *errors.ValidationError.
func (c Config) Validate() error {
	if err := validation.ValidateNotEmpty(moduleName, "pool.name", c.Pool.Name); err != nil {
		return err
	}
	if err := validation.ValidatePositive(moduleName, "pool.workers", c.Pool.Workers); err != nil {
		return err
	}
	if err := validation.ValidatePositive(moduleName, "pool.queue_capacity", c.Pool.QueueCapacity); err != nil {
		return err
	}
	if err := validation.ValidatePositiveDuration(moduleName, "pool.submit_timeout", c.Pool.SubmitTimeout); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Metrics.Enabled {
		if err := validation.ValidateNotEmpty(moduleName, "metrics.address", c.Metrics.Address); err != nil {
			return err
		}
	}
	return nil
}

// WorkerPool returns a workerpool.Config for the configured pool. logger and
// registry may be nil.
func (c Config) WorkerPool(logger *zap.Logger, registry *metrics.Registry) workerpool.Config {
	return workerpool.Config{
		Name:          c.Pool.Name,
		QueueCapacity: c.Pool.QueueCapacity,
		SubmitTimeout: c.Pool.SubmitTimeout,
		DrainOnStop:   c.Pool.DrainOnStop,
		Logger:        logger,
		Metrics:       registry,
	}
}

// MetricsRegistry builds a metrics.Registry on reg when metrics are enabled,
// or returns nil.
func (c Config) MetricsRegistry(reg prometheus.Registerer) *metrics.Registry {
	return metrics.Config{
		Enabled:  c.Metrics.Enabled,
		Registry: reg,
	}.Build()
}
