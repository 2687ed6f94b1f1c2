package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rezkam/jobqueue/internal/domain"
)

// RateLimitReason distinguishes the two 429 messages submission can fail with.
type RateLimitReason int

const (
	RateLimitSubmission RateLimitReason = iota
	RateLimitConcurrency
)

// RateLimitedError carries a human-readable message and unwraps to
// domain.ErrRateLimited for status mapping.
type RateLimitedError struct {
	Reason RateLimitReason
}

func (e RateLimitedError) Error() string { return e.Message() }

func (e RateLimitedError) Unwrap() error { return domain.ErrRateLimited }

// Message returns the exact distinguishing text for this rejection reason.
func (e RateLimitedError) Message() string {
	if e.Reason == RateLimitConcurrency {
		return "Maximum 5 concurrent jobs allowed"
	}
	return "Maximum 10 jobs per minute allowed"
}

// SubmitResult is the response shape returned from job submission.
type SubmitResult struct {
	JobID   string
	Status  domain.Status
	TraceID string
}

// Submitter handles job submission: idempotency pre-check, rate and
// concurrency admission gates, then insertion.
type Submitter struct {
	Store    Store
	RateGate RateGate
}

// Submit runs the submission procedure in order: idempotency check, rate
// gate, concurrency gate, then insert.
func (s *Submitter) Submit(ctx context.Context, tenantID string, payload []byte, idempotencyKey *string) (SubmitResult, error) {
	if tenantID == "" || len(payload) == 0 {
		return SubmitResult{}, domain.ErrInvalidArgument
	}

	// Step 1: idempotency pre-check, no admission check, no rate-gate
	// mutation. Returns the original job unchanged, including its
	// original trace id.
	if idempotencyKey != nil && *idempotencyKey != "" {
		existing, err := s.Store.GetByIdempotencyKey(ctx, *idempotencyKey)
		if err == nil {
			return SubmitResult{JobID: existing.ID, Status: existing.Status, TraceID: existing.TraceID}, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return SubmitResult{}, fmt.Errorf("checking idempotency key: %w", err)
		}
	}

	// Step 2: submission-rate gate.
	allowed, err := s.RateGate.CheckRate(ctx, tenantID)
	if err != nil {
		// CheckRate itself fails open on unreachable store; an error
		// here means the gate implementation could not even decide to
		// fail open (programmer error in the adapter), so surface it as
		// a transient store error rather than silently allowing.
		return SubmitResult{}, fmt.Errorf("checking rate limit: %w", err)
	}
	if !allowed {
		return SubmitResult{}, RateLimitedError{Reason: RateLimitSubmission}
	}

	// Step 3: concurrency gate, reading the running count from the store.
	running, err := s.Store.RunningCount(ctx, tenantID)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("reading running count: %w", err)
	}
	if !s.RateGate.CheckConcurrency(running) {
		return SubmitResult{}, RateLimitedError{Reason: RateLimitConcurrency}
	}

	// Step 4: allocate ids and insert.
	job := &domain.Job{
		ID:             uuid.NewString(),
		TenantID:       tenantID,
		Status:         domain.StatusPending,
		Payload:        payload,
		IdempotencyKey: idempotencyKey,
		RetryCount:     0,
		MaxRetries:     domain.DefaultMaxRetries,
		CreatedAt:      time.Now().UTC(),
		TraceID:        uuid.NewString(),
	}

	existing, existed, err := s.Store.Insert(ctx, job)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("inserting job: %w", err)
	}
	if existed {
		// Lost the idempotency-key insert race: the rate-gate token this
		// request consumed is not refunded.
		slog.InfoContext(ctx, "idempotency key race lost, returning existing job",
			slog.String("tenant_id", tenantID), slog.String("job_id", existing.ID))
		return SubmitResult{JobID: existing.ID, Status: existing.Status, TraceID: existing.TraceID}, nil
	}

	return SubmitResult{JobID: job.ID, Status: job.Status, TraceID: job.TraceID}, nil
}
