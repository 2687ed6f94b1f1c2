package config

import (
	"errors"
	"fmt"

	"github.com/rezkam/jobqueue/internal/env"
)

// ErrTestDSNRequired is returned when no test database DSN is configured.
var ErrTestDSNRequired = errors.New("JOBQUEUE_TEST_DATABASE_URL is required")

// TestDatabaseConfig holds the DSN used by postgres-backed integration
// tests, kept distinct from DatabaseConfig so a developer's test run can
// never accidentally point at a production DSN.
type TestDatabaseConfig struct {
	DSN string `env:"JOBQUEUE_TEST_DATABASE_URL"`
}

func (c *TestDatabaseConfig) Validate() error {
	if c.DSN == "" {
		return ErrTestDSNRequired
	}
	return nil
}

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	Database TestDatabaseConfig
}

// LoadTestConfig loads and validates test configuration from environment.
func LoadTestConfig() (*TestConfig, error) {
	cfg := &TestConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load test config: %w", err)
	}

	return cfg, nil
}
