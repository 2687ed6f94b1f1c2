package queue

import (
	"context"

	"github.com/rezkam/jobqueue/internal/domain"
)

// fakeStore implements Store for unit tests, following the teacher's
// func-field mock style (internal/application/worker/worker_test.go).
type fakeStore struct {
	insertFunc              func(ctx context.Context, job *domain.Job) (*domain.Job, bool, error)
	getByIdempotencyKeyFunc func(ctx context.Context, key string) (*domain.Job, error)
	claimNextFunc           func(ctx context.Context, workerID string) (*domain.Job, error)
	completeFunc            func(ctx context.Context, jobID, workerID string) error
	retryFunc               func(ctx context.Context, jobID, workerID, errMsg string, backoffMillis int64) error
	deadLetterFunc          func(ctx context.Context, jobID, workerID, errMsg string) error
	getJobFunc              func(ctx context.Context, jobID string) (*domain.Job, error)
	listJobsFunc            func(ctx context.Context, params domain.ListJobsParams) ([]*domain.Job, error)
	runningCountFunc        func(ctx context.Context, tenantID string) (int64, error)
	metricsFunc             func(ctx context.Context, tenantID string) (domain.Metrics, error)
	listDeadLettersFunc     func(ctx context.Context, limit int) ([]*domain.DeadLetterEntry, error)
}

func (f *fakeStore) Insert(ctx context.Context, job *domain.Job) (*domain.Job, bool, error) {
	if f.insertFunc != nil {
		return f.insertFunc(ctx, job)
	}
	return nil, false, nil
}

func (f *fakeStore) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Job, error) {
	if f.getByIdempotencyKeyFunc != nil {
		return f.getByIdempotencyKeyFunc(ctx, key)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeStore) ClaimNext(ctx context.Context, workerID string) (*domain.Job, error) {
	if f.claimNextFunc != nil {
		return f.claimNextFunc(ctx, workerID)
	}
	return nil, nil
}

func (f *fakeStore) Complete(ctx context.Context, jobID, workerID string) error {
	if f.completeFunc != nil {
		return f.completeFunc(ctx, jobID, workerID)
	}
	return nil
}

func (f *fakeStore) Retry(ctx context.Context, jobID, workerID, errMsg string, backoffMillis int64) error {
	if f.retryFunc != nil {
		return f.retryFunc(ctx, jobID, workerID, errMsg, backoffMillis)
	}
	return nil
}

func (f *fakeStore) DeadLetter(ctx context.Context, jobID, workerID, errMsg string) error {
	if f.deadLetterFunc != nil {
		return f.deadLetterFunc(ctx, jobID, workerID, errMsg)
	}
	return nil
}

func (f *fakeStore) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	if f.getJobFunc != nil {
		return f.getJobFunc(ctx, jobID)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeStore) ListJobs(ctx context.Context, params domain.ListJobsParams) ([]*domain.Job, error) {
	if f.listJobsFunc != nil {
		return f.listJobsFunc(ctx, params)
	}
	return nil, nil
}

func (f *fakeStore) RunningCount(ctx context.Context, tenantID string) (int64, error) {
	if f.runningCountFunc != nil {
		return f.runningCountFunc(ctx, tenantID)
	}
	return 0, nil
}

func (f *fakeStore) Metrics(ctx context.Context, tenantID string) (domain.Metrics, error) {
	if f.metricsFunc != nil {
		return f.metricsFunc(ctx, tenantID)
	}
	return domain.Metrics{}, nil
}

func (f *fakeStore) ListDeadLetters(ctx context.Context, limit int) ([]*domain.DeadLetterEntry, error) {
	if f.listDeadLettersFunc != nil {
		return f.listDeadLettersFunc(ctx, limit)
	}
	return nil, nil
}

func (f *fakeStore) Close() {}

// fakeRateGate implements RateGate for unit tests.
type fakeRateGate struct {
	checkRateFunc       func(ctx context.Context, tenantID string) (bool, error)
	checkConcurrencyFunc func(runningCount int64) bool
}

func (f *fakeRateGate) CheckRate(ctx context.Context, tenantID string) (bool, error) {
	if f.checkRateFunc != nil {
		return f.checkRateFunc(ctx, tenantID)
	}
	return true, nil
}

func (f *fakeRateGate) CheckConcurrency(runningCount int64) bool {
	if f.checkConcurrencyFunc != nil {
		return f.checkConcurrencyFunc(runningCount)
	}
	return runningCount < ConcurrencyLimit
}
