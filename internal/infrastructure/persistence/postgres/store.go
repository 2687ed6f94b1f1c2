package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rezkam/jobqueue/internal/domain"
	"github.com/rezkam/jobqueue/internal/queue"
)

const uniqueViolation = "23505"

// Store implements queue.Store against PostgreSQL via pgx. Grounded on
// the raw-SQL style of the teacher's worker repository: every operation
// here is a single statement or a short explicit transaction, no query
// builder.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps an already-configured pool. Callers normally reach this
// through NewPostgresStore, which also runs migrations.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Close() {
	s.pool.Close()
}

// Pool exposes the underlying connection pool for callers that need raw
// SQL access outside the Store interface, e.g. test setup.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Insert implements unique-constraint race resolution: on a duplicate
// idempotency_key, re-read and return the row that won instead of
// surfacing the constraint violation.
func (s *Store) Insert(ctx context.Context, job *domain.Job) (*domain.Job, bool, error) {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO jobs (id, tenant_id, status, payload, idempotency_key, retry_count, max_retries, created_at, trace_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		job.ID, job.TenantID, job.Status, job.Payload, job.IdempotencyKey, job.RetryCount, job.MaxRetries, job.CreatedAt, job.TraceID,
	)
	if err == nil {
		return nil, false, nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && job.IdempotencyKey != nil {
		existing, getErr := s.GetByIdempotencyKey(ctx, *job.IdempotencyKey)
		if getErr != nil {
			return nil, false, fmt.Errorf("re-reading job after idempotency race: %w", getErr)
		}
		return existing, true, nil
	}
	return nil, false, fmt.Errorf("inserting job: %w", err)
}

func (s *Store) GetByIdempotencyKey(ctx context.Context, idempotencyKey string) (*domain.Job, error) {
	row := s.pool.QueryRow(ctx, jobSelectColumns+` FROM jobs WHERE idempotency_key = $1`, idempotencyKey)
	return scanJob(row)
}

func (s *Store) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	row := s.pool.QueryRow(ctx, jobSelectColumns+` FROM jobs WHERE id = $1`, jobID)
	return scanJob(row)
}

// ClaimNext is the single atomic select-and-claim: a pending job is
// eligible immediately, a running job becomes eligible once its lease
// has expired. created_at <= now() additionally gates rows whose
// created_at was pushed into the future by Retry's backoff rewrite, per
// the "honor backoff as a claim delay" decision.
func (s *Store) ClaimNext(ctx context.Context, workerID string) (*domain.Job, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning claim transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, jobSelectColumns+`
		FROM jobs
		WHERE created_at <= now()
		  AND (
		        status = 'pending'
		        OR (status = 'running' AND lease_expires_at < now())
		      )
		ORDER BY created_at
		LIMIT 1
		FOR UPDATE SKIP LOCKED`)

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("selecting claimable job: %w", err)
	}

	leaseExpiresAt := time.Now().UTC().Add(queue.LeaseDuration)
	_, err = tx.Exec(ctx, `
		UPDATE jobs
		SET status = 'running', worker_id = $1, lease_expires_at = $2, started_at = COALESCE(started_at, now())
		WHERE id = $3`,
		workerID, leaseExpiresAt, job.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("claiming job: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing claim: %w", err)
	}

	job.Status = domain.StatusRunning
	job.WorkerID = &workerID
	job.LeaseExpiresAt = &leaseExpiresAt
	return job, nil
}

// Complete, Retry and DeadLetter all share the same ownership guard:
// the update only applies while worker_id still matches and the job is
// still running, so a worker whose lease was stolen gets
// domain.ErrJobOwnershipLost instead of silently clobbering a peer's
// work.

func (s *Store) Complete(ctx context.Context, jobID, workerID string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE jobs
		SET status = 'completed', completed_at = now(), worker_id = NULL, lease_expires_at = NULL
		WHERE id = $1 AND worker_id = $2 AND status = 'running'`,
		jobID, workerID,
	)
	if err != nil {
		return fmt.Errorf("completing job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrJobOwnershipLost
	}
	return nil
}

func (s *Store) Retry(ctx context.Context, jobID, workerID, errMsg string, backoffMillis int64) error {
	notBefore := time.Now().UTC().Add(time.Duration(backoffMillis) * time.Millisecond)
	tag, err := s.pool.Exec(ctx, `
		UPDATE jobs
		SET status = 'pending', retry_count = retry_count + 1, worker_id = NULL,
		    lease_expires_at = NULL, created_at = $1, error_message = $2
		WHERE id = $3 AND worker_id = $4 AND status = 'running'`,
		notBefore, errMsg, jobID, workerID,
	)
	if err != nil {
		return fmt.Errorf("retrying job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrJobOwnershipLost
	}
	return nil
}

func (s *Store) DeadLetter(ctx context.Context, jobID, workerID, errMsg string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning dead-letter transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var payload []byte
	var traceID string
	err = tx.QueryRow(ctx, `
		UPDATE jobs
		SET status = 'failed', worker_id = NULL, lease_expires_at = NULL, error_message = $1
		WHERE id = $2 AND worker_id = $3 AND status = 'running'
		RETURNING payload, trace_id`,
		errMsg, jobID, workerID,
	).Scan(&payload, &traceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrJobOwnershipLost
		}
		return fmt.Errorf("marking job failed: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO dead_letters (id, job_id, payload, final_error, failed_at, trace_id)
		VALUES (gen_random_uuid(), $1, $2, $3, now(), $4)`,
		jobID, payload, errMsg, traceID,
	)
	if err != nil {
		return fmt.Errorf("inserting dead letter: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing dead letter: %w", err)
	}
	return nil
}

func (s *Store) ListJobs(ctx context.Context, params domain.ListJobsParams) ([]*domain.Job, error) {
	query := jobSelectColumns + ` FROM jobs WHERE tenant_id = $1`
	args := []any{params.TenantID}

	if params.Status != nil {
		args = append(args, *params.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning job row: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (s *Store) RunningCount(ctx context.Context, tenantID string) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM jobs WHERE tenant_id = $1 AND status = 'running'`, tenantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting running jobs: %w", err)
	}
	return count, nil
}

func (s *Store) Metrics(ctx context.Context, tenantID string) (domain.Metrics, error) {
	query := `
		SELECT
			count(*) FILTER (WHERE status = 'pending'),
			count(*) FILTER (WHERE status = 'running'),
			count(*) FILTER (WHERE status = 'completed'),
			count(*) FILTER (WHERE status = 'failed')
		FROM jobs`
	args := []any{}
	if tenantID != "" {
		query += " WHERE tenant_id = $1"
		args = append(args, tenantID)
	}

	var m domain.Metrics
	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&m.JobsByStatus.Pending, &m.JobsByStatus.Running, &m.JobsByStatus.Completed, &m.JobsByStatus.Failed,
	)
	if err != nil {
		return domain.Metrics{}, fmt.Errorf("reading job metrics: %w", err)
	}
	m.JobsTotal = m.JobsByStatus.Pending + m.JobsByStatus.Running + m.JobsByStatus.Completed + m.JobsByStatus.Failed

	dlqQuery := `SELECT count(*) FROM dead_letters d JOIN jobs j ON j.id = d.job_id`
	if tenantID != "" {
		dlqQuery += ` WHERE j.tenant_id = $1`
	}
	if err := s.pool.QueryRow(ctx, dlqQuery, args...).Scan(&m.DLQSize); err != nil {
		return domain.Metrics{}, fmt.Errorf("reading dlq size: %w", err)
	}

	return m, nil
}

func (s *Store) ListDeadLetters(ctx context.Context, limit int) ([]*domain.DeadLetterEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, job_id, payload, final_error, failed_at, trace_id
		FROM dead_letters
		ORDER BY failed_at DESC
		LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing dead letters: %w", err)
	}
	defer rows.Close()

	var entries []*domain.DeadLetterEntry
	for rows.Next() {
		var e domain.DeadLetterEntry
		if err := rows.Scan(&e.ID, &e.JobID, &e.Payload, &e.FinalError, &e.FailedAt, &e.TraceID); err != nil {
			return nil, fmt.Errorf("scanning dead letter row: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

const jobSelectColumns = `SELECT id, tenant_id, status, payload, idempotency_key, retry_count, max_retries,
	lease_expires_at, worker_id, created_at, started_at, completed_at, error_message, trace_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*domain.Job, error) {
	var j domain.Job
	err := row.Scan(
		&j.ID, &j.TenantID, &j.Status, &j.Payload, &j.IdempotencyKey, &j.RetryCount, &j.MaxRetries,
		&j.LeaseExpiresAt, &j.WorkerID, &j.CreatedAt, &j.StartedAt, &j.CompletedAt, &j.ErrorMessage, &j.TraceID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}
