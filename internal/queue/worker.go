package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rezkam/jobqueue/internal/domain"
)

// GenerateWorkerID builds a stable opaque worker id from hostname, pid,
// and a random suffix, the naming convention documented in the teacher's
// WorkerConfig ("e.g., hostname-pid-uuid").
func GenerateWorkerID(prefix string) string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return fmt.Sprintf("%s-%s-%d-%s", prefix, host, os.Getpid(), uuid.NewString()[:8])
}

// Worker is a single long-running agent that polls for claimable jobs and
// processes them to completion, retry, or dead-letter. No heartbeat/
// lease-renewal ticker — the lease is fixed-duration with no
// self-extension, and a peer may steal it back. Grounded on the teacher's
// old internal/application/worker/generation_worker.go processing loop
// (panic recovery via recover()+debug.Stack()), with the ExtendAvailability
// call removed.
type Worker struct {
	ID           string
	Store        Store
	Handler      JobHandler
	ErrorHandler ErrorHandler
	PollInterval time.Duration

	stopping atomic.Bool
}

// NewWorker constructs a Worker with the default poll interval and error
// handler.
func NewWorker(id string, store Store, handler JobHandler) *Worker {
	return &Worker{
		ID:           id,
		Store:        store,
		Handler:      handler,
		ErrorHandler: DefaultErrorHandler{},
		PollInterval: PollInterval,
	}
}

// Stop flips the stop flag. The worker finishes any job already in flight
// before exiting its loop — no preemption of its own in-progress work.
func (w *Worker) Stop() {
	w.stopping.Store(true)
}

// Run executes the claim/process loop until ctx is cancelled or Stop is
// called. Poll errors use the same wait as "no work available" — the
// teacher's source intentionally does not tight-spin on transient store
// errors, and this preserves that.
func (w *Worker) Run(ctx context.Context) {
	for !w.stopping.Load() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := w.Store.ClaimNext(ctx, w.ID)
		if err != nil {
			slog.ErrorContext(ctx, "claim failed, will retry next poll", slog.String("worker_id", w.ID), slog.String("error", err.Error()))
			w.wait(ctx)
			continue
		}
		if job == nil {
			w.wait(ctx)
			continue
		}

		// Job processing runs against a background context so a
		// shutdown signal observed by ctx does not interrupt the job
		// already in flight.
		w.processJob(context.Background(), job)
	}
}

func (w *Worker) wait(ctx context.Context) {
	t := time.NewTimer(w.PollInterval)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func (w *Worker) processJob(ctx context.Context, job *domain.Job) {
	err := w.invokeHandler(ctx, job)
	if err == nil {
		if cerr := w.Store.Complete(ctx, job.ID, w.ID); cerr != nil && !IsOwnershipLost(cerr) {
			slog.ErrorContext(ctx, "failed to record completion", slog.String("job_id", job.ID), slog.String("error", cerr.Error()))
		}
		return
	}

	var herr HandlerError
	errors.As(err, &herr)
	if herr.IsPanic {
		w.ErrorHandler.HandlePanic(ctx, job, herr.Message, herr.StackTrace)
	} else {
		w.ErrorHandler.HandleError(ctx, job, herr)
	}

	if job.RetryCount < job.MaxRetries {
		backoff := retryBackoff(job.RetryCount)
		if rerr := w.Store.Retry(ctx, job.ID, w.ID, herr.Message, backoff.Milliseconds()); rerr != nil && !IsOwnershipLost(rerr) {
			slog.ErrorContext(ctx, "failed to record retry", slog.String("job_id", job.ID), slog.String("error", rerr.Error()))
		}
		return
	}

	if derr := w.Store.DeadLetter(ctx, job.ID, w.ID, herr.Message); derr != nil && !IsOwnershipLost(derr) {
		slog.ErrorContext(ctx, "failed to record dead letter", slog.String("job_id", job.ID), slog.String("error", derr.Error()))
	}
}

// invokeHandler runs the handler with panic recovery, normalizing both
// outcomes into a HandlerError. A crash during processing (the process
// itself dying) is observed externally as an expired lease — this only
// catches panics the Go runtime can recover from within the same process.
func (w *Worker) invokeHandler(ctx context.Context, job *domain.Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewPanicError(r, string(debug.Stack()))
		}
	}()

	if herr := w.Handler.Handle(ctx, job.Payload); herr != nil {
		return NewHandlerError(herr)
	}
	return nil
}
