package handler

import (
	"context"

	"github.com/rezkam/jobqueue/internal/domain"
)

// fakeStore is a func-field mock of queue.Store, following the same
// pattern as internal/queue's own test fakes.
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

func (s *fakeStore) Insert(ctx context.Context, job *domain.Job) (*domain.Job, bool, error) {
	if s.insertFunc != nil {
		return s.insertFunc(ctx, job)
	}
	return nil, false, nil
}

func (s *fakeStore) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Job, error) {
	if s.getByIdempotencyKeyFunc != nil {
		return s.getByIdempotencyKeyFunc(ctx, key)
	}
	return nil, domain.ErrNotFound
}

func (s *fakeStore) ClaimNext(ctx context.Context, workerID string) (*domain.Job, error) {
	if s.claimNextFunc != nil {
		return s.claimNextFunc(ctx, workerID)
	}
	return nil, nil
}

func (s *fakeStore) Complete(ctx context.Context, jobID, workerID string) error {
	if s.completeFunc != nil {
		return s.completeFunc(ctx, jobID, workerID)
	}
	return nil
}

func (s *fakeStore) Retry(ctx context.Context, jobID, workerID, errMsg string, backoffMillis int64) error {
	if s.retryFunc != nil {
		return s.retryFunc(ctx, jobID, workerID, errMsg, backoffMillis)
	}
	return nil
}

func (s *fakeStore) DeadLetter(ctx context.Context, jobID, workerID, errMsg string) error {
	if s.deadLetterFunc != nil {
		return s.deadLetterFunc(ctx, jobID, workerID, errMsg)
	}
	return nil
}

func (s *fakeStore) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	if s.getJobFunc != nil {
		return s.getJobFunc(ctx, jobID)
	}
	return nil, domain.ErrNotFound
}

func (s *fakeStore) ListJobs(ctx context.Context, params domain.ListJobsParams) ([]*domain.Job, error) {
	if s.listJobsFunc != nil {
		return s.listJobsFunc(ctx, params)
	}
	return nil, nil
}

func (s *fakeStore) RunningCount(ctx context.Context, tenantID string) (int64, error) {
	if s.runningCountFunc != nil {
		return s.runningCountFunc(ctx, tenantID)
	}
	return 0, nil
}

func (s *fakeStore) Metrics(ctx context.Context, tenantID string) (domain.Metrics, error) {
	if s.metricsFunc != nil {
		return s.metricsFunc(ctx, tenantID)
	}
	return domain.Metrics{}, nil
}

func (s *fakeStore) ListDeadLetters(ctx context.Context, limit int) ([]*domain.DeadLetterEntry, error) {
	if s.listDeadLettersFunc != nil {
		return s.listDeadLettersFunc(ctx, limit)
	}
	return nil, nil
}

func (s *fakeStore) Close() {}

type fakeRateGate struct {
	checkRateFunc func(ctx context.Context, tenantID string) (bool, error)
}

func (g *fakeRateGate) CheckRate(ctx context.Context, tenantID string) (bool, error) {
	if g.checkRateFunc != nil {
		return g.checkRateFunc(ctx, tenantID)
	}
	return true, nil
}

func (g *fakeRateGate) CheckConcurrency(runningCount int64) bool {
	return runningCount < 5
}
