package integration

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rezkam/jobqueue/internal/config"
	"github.com/rezkam/jobqueue/internal/infrastructure/persistence/postgres"
	"github.com/stretchr/testify/require"
)

// setupStore initializes a PostgreSQL-backed Store with automatic
// cleanup, skipping the test entirely when JOBQUEUE_TEST_DATABASE_URL is
// unset.
func setupStore(t *testing.T) (*postgres.Store, context.Context) {
	t.Helper()

	cfg, err := config.LoadTestConfig()
	if err != nil {
		t.Skipf("skipping postgres integration test: %v", err)
	}

	ctx := context.Background()
	store, err := postgres.NewPostgresStore(ctx, cfg.Database.DSN)
	require.NoError(t, err)

	t.Cleanup(func() {
		db, err := sql.Open("pgx", cfg.Database.DSN)
		if err == nil {
			_, _ = db.Exec("TRUNCATE TABLE dead_letters, jobs CASCADE")
			_ = db.Close()
		}
		store.Close()
	})

	return store, ctx
}
