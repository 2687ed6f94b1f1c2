package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rezkam/jobqueue/internal/domain"
)

// HandlerError normalizes whatever a JobHandler returned (or panicked
// with) into the single error shape the retry/DLQ branch drives off of.
// Unlike the teacher's RetryableError/PanicError/JobCancelled trio, no
// permanent-vs-transient distinction is drawn here: every handler error —
// panic or not — follows the same retry-until-max_retries-then-dead-letter
// path. IsPanic exists only so an ErrorHandler can log or alert
// differently; it never changes the branch taken.
type HandlerError struct {
	Message    string
	IsPanic    bool
	StackTrace string
}

func (e HandlerError) Error() string { return e.Message }

// NewHandlerError wraps a normal job-processing error.
func NewHandlerError(err error) HandlerError {
	return HandlerError{Message: err.Error()}
}

// NewPanicError normalizes a recovered panic value and stack trace.
func NewPanicError(val any, stackTrace string) HandlerError {
	return HandlerError{
		Message:    fmt.Sprintf("panic: %v", val),
		IsPanic:    true,
		StackTrace: stackTrace,
	}
}

// ErrorHandler processes job errors for telemetry/alerting, following the
// pattern documented by the River queue library
// (https://riverqueue.com/docs/error-handling): HandleError/HandlePanic are
// hooks for logging only and never change the retry/DLQ policy.
type ErrorHandler interface {
	HandleError(ctx context.Context, job *domain.Job, err error)
	HandlePanic(ctx context.Context, job *domain.Job, panicVal any, stackTrace string)
}

// DefaultErrorHandler logs with structured logging and nothing else.
type DefaultErrorHandler struct{}

func (DefaultErrorHandler) HandleError(ctx context.Context, job *domain.Job, err error) {
	slog.ErrorContext(ctx, "job failed",
		slog.String("job_id", job.ID),
		slog.String("tenant_id", job.TenantID),
		slog.String("trace_id", job.TraceID),
		slog.Int("retry_count", job.RetryCount),
		slog.String("error", err.Error()),
	)
}

func (DefaultErrorHandler) HandlePanic(ctx context.Context, job *domain.Job, panicVal any, stackTrace string) {
	slog.ErrorContext(ctx, "job panicked",
		slog.String("job_id", job.ID),
		slog.String("tenant_id", job.TenantID),
		slog.String("trace_id", job.TraceID),
		slog.Any("panic_value", panicVal),
		slog.String("stack_trace", stackTrace),
	)
}

// IsOwnershipLost reports whether err indicates an ack/retry/dlq write
// found the job no longer claimed by the calling worker.
func IsOwnershipLost(err error) bool {
	return errors.Is(err, domain.ErrJobOwnershipLost)
}
