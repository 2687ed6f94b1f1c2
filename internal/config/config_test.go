package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerConfig_AppliesDefaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("JOBQUEUE_DATABASE_URL", "postgres://localhost/jobqueue")
	os.Setenv("JOBQUEUE_REDIS_URL", "redis://localhost:6379")

	cfg, err := LoadServerConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "jobqueue-server", cfg.Observability.ServiceName)
}

func TestLoadServerConfig_MissingDSN(t *testing.T) {
	os.Clearenv()
	os.Setenv("JOBQUEUE_REDIS_URL", "redis://localhost:6379")

	_, err := LoadServerConfig()
	require.Error(t, err)
}

func TestLoadWorkerConfig_DefaultWorkerIDPrefix(t *testing.T) {
	os.Clearenv()
	os.Setenv("JOBQUEUE_DATABASE_URL", "postgres://localhost/jobqueue")

	cfg, err := LoadWorkerConfig()
	require.NoError(t, err)

	assert.Equal(t, "worker", cfg.WorkerIDPrefix)
	assert.Equal(t, "jobqueue-worker", cfg.Observability.ServiceName)
}
