package config

import (
	"fmt"

	"github.com/rezkam/jobqueue/internal/env"
)

// WorkerConfig holds all configuration for the worker runtime binary.
// Poll interval, lease duration, and retry backoff are fixed policy
// constants and are therefore not environment-configurable here — only
// infrastructure endpoints are.
type WorkerConfig struct {
	Database      DatabaseConfig
	Observability ObservabilityConfig

	// WorkerIDPrefix is prepended to the generated worker id (hostname, pid
	// and random suffix) for operator-friendly identification in logs.
	WorkerIDPrefix string `env:"JOBQUEUE_WORKER_ID_PREFIX"`
}

// LoadWorkerConfig loads and validates worker configuration from environment.
func LoadWorkerConfig() (*WorkerConfig, error) {
	cfg := &WorkerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load worker config: %w", err)
	}

	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = "jobqueue-worker"
	}
	if cfg.WorkerIDPrefix == "" {
		cfg.WorkerIDPrefix = "worker"
	}

	return cfg, nil
}
