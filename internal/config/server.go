package config

import (
	"fmt"
	"time"

	"github.com/rezkam/jobqueue/internal/env"
)

// ServerConfig holds all configuration for the HTTP API binary.
type ServerConfig struct {
	Database        DatabaseConfig
	Redis           RedisConfig
	HTTP            HTTPConfig
	Observability   ObservabilityConfig
	ShutdownTimeout time.Duration `env:"JOBQUEUE_SHUTDOWN_TIMEOUT"`
}

// HTTPConfig holds HTTP server configuration (Port is PORT).
type HTTPConfig struct {
	Host              string        `env:"JOBQUEUE_HTTP_HOST"`
	Port              string        `env:"PORT"`
	ReadTimeout       time.Duration `env:"JOBQUEUE_HTTP_READ_TIMEOUT"`
	WriteTimeout      time.Duration `env:"JOBQUEUE_HTTP_WRITE_TIMEOUT"`
	IdleTimeout       time.Duration `env:"JOBQUEUE_HTTP_IDLE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `env:"JOBQUEUE_HTTP_READ_HEADER_TIMEOUT"`
	MaxHeaderBytes    int           `env:"JOBQUEUE_HTTP_MAX_HEADER_BYTES"`
	MaxBodyBytes      int64         `env:"JOBQUEUE_HTTP_MAX_BODY_BYTES"`
}

// LoadServerConfig loads and validates server configuration from environment,
// applying the defaults the consuming code is responsible for (internal/env
// itself performs no default substitution).
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	if cfg.HTTP.Port == "" {
		cfg.HTTP.Port = "8080"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 10 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 10 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ReadHeaderTimeout == 0 {
		cfg.HTTP.ReadHeaderTimeout = 5 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.HTTP.MaxBodyBytes == 0 {
		cfg.HTTP.MaxBodyBytes = 1 << 20
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 15 * time.Second
	}
	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = "jobqueue-server"
	}

	return cfg, nil
}
