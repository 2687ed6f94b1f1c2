package domain

import "time"

// Status is the lifecycle state of a Job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// DefaultMaxRetries is the fixed default applied at job creation.
const DefaultMaxRetries = 3

// Job is a unit of work submitted by a tenant and processed by the worker
// runtime. CreatedAt doubles as the dequeue ordering key and, after a
// retry, as a not-before release timestamp.
type Job struct {
	ID             string
	TenantID       string
	Status         Status
	Payload        []byte
	IdempotencyKey *string
	RetryCount     int
	MaxRetries     int
	LeaseExpiresAt *time.Time
	WorkerID       *string
	CreatedAt      time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
	ErrorMessage   *string
	TraceID        string
}

// DeadLetterEntry is the terminal resting place for a Job that has
// exhausted its retry budget. JobID is unique; restrict-on-delete against
// the parent Job.
type DeadLetterEntry struct {
	ID         string
	JobID      string
	Payload    []byte
	FinalError string
	FailedAt   time.Time
	TraceID    string
}

// StatusCounts reports a per-status breakdown; all four buckets are always
// present, zero-filled rather than omitted.
type StatusCounts struct {
	Pending   int64
	Running   int64
	Completed int64
	Failed    int64
}

// Metrics is the aggregate status/DLQ response, optionally scoped to one tenant.
type Metrics struct {
	JobsTotal    int64
	JobsByStatus StatusCounts
	DLQSize      int64
}

// ListJobsParams filters the tenant job listing.
type ListJobsParams struct {
	TenantID string
	Status   *Status
	Limit    int
}
