package queue

import (
	"context"

	"github.com/rezkam/jobqueue/internal/domain"
)

// Store is the durable persistence contract: transactions, row-level
// locking, and indexes by status, tenant_id, and lease_expires_at, plus
// unique constraints on idempotency_key and dlq.job_id. Its only
// capability beyond CRUD is the atomic claim primitive in ClaimNext.
//
// Grounded on GenerationCoordinator in the teacher's old
// internal/application/worker/coordinator.go, narrowed to generic job
// operations and with the heartbeat/ExtendAvailability method dropped:
// leases here are fixed-duration with no renewal.
type Store interface {
	// Insert writes a new pending Job. If idempotencyKey is set and a Job
	// with that key already exists, Insert returns the existing Job and a
	// true "existed" flag instead of inserting — the unique-constraint
	// race is resolved inside the implementation.
	Insert(ctx context.Context, job *domain.Job) (existing *domain.Job, existed bool, err error)

	// GetByIdempotencyKey looks up a Job by its idempotency key, returning
	// domain.ErrNotFound if none exists. Used by the submission path's
	// pre-check before any admission gate is consulted.
	GetByIdempotencyKey(ctx context.Context, idempotencyKey string) (*domain.Job, error)

	// ClaimNext is the single atomic "select-and-claim" transaction: it
	// unifies initial dispatch of a pending job with steal-back of an
	// expired lease into one claim. Returns nil, nil if no job is eligible.
	ClaimNext(ctx context.Context, workerID string) (*domain.Job, error)

	// Complete acknowledges success: status -> completed, completed_at
	// set, lease fields cleared. Conditional on worker_id = workerID and
	// status = running; returns domain.ErrJobOwnershipLost if the lease
	// was stolen by a peer first.
	Complete(ctx context.Context, jobID, workerID string) error

	// Retry records a failed attempt that has not exhausted max_retries:
	// status -> pending, retry_count incremented, lease cleared,
	// created_at rewritten to now+backoff (honored as a not-before gate
	// by ClaimNext). Same ownership guard as Complete.
	Retry(ctx context.Context, jobID, workerID, errMsg string, backoffMillis int64) error

	// DeadLetter records the terminal failure: inserts a DeadLetterEntry
	// and transitions the Job to failed with lease fields cleared, in one
	// transaction. Same ownership guard as Complete.
	DeadLetter(ctx context.Context, jobID, workerID, errMsg string) error

	// GetJob is the single-job read.
	GetJob(ctx context.Context, jobID string) (*domain.Job, error)

	// ListJobs is the tenant listing, most recent first.
	ListJobs(ctx context.Context, params domain.ListJobsParams) ([]*domain.Job, error)

	// RunningCount is the per-tenant in-flight count the concurrency
	// admission gate consults.
	RunningCount(ctx context.Context, tenantID string) (int64, error)

	// Metrics is the aggregate status/DLQ view, optionally scoped to one tenant.
	Metrics(ctx context.Context, tenantID string) (domain.Metrics, error)

	// ListDeadLetters is the admin read-only DLQ listing.
	ListDeadLetters(ctx context.Context, limit int) ([]*domain.DeadLetterEntry, error)

	Close()
}
