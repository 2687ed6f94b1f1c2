package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rezkam/jobqueue/internal/domain"
	"github.com/rezkam/jobqueue/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobsHandler_Submit_Success(t *testing.T) {
	store := &fakeStore{
		insertFunc: func(ctx context.Context, job *domain.Job) (*domain.Job, bool, error) {
			return nil, false, nil
		},
	}
	h := NewJobsHandler(&queue.Submitter{Store: store, RateGate: &fakeRateGate{}}, store)

	body := `{"tenantId":"tenant-a","payload":{"task":"x"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Submit(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var got submitJobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.NotEmpty(t, got.JobID)
}

func TestJobsHandler_Submit_MalformedBody(t *testing.T) {
	h := NewJobsHandler(&queue.Submitter{Store: &fakeStore{}, RateGate: &fakeRateGate{}}, &fakeStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", strings.NewReader("not json"))
	rec := httptest.NewRecorder()

	h.Submit(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJobsHandler_Submit_RateLimited(t *testing.T) {
	h := NewJobsHandler(&queue.Submitter{
		Store: &fakeStore{},
		RateGate: &fakeRateGate{
			checkRateFunc: func(ctx context.Context, tenantID string) (bool, error) { return false, nil },
		},
	}, &fakeStore{})

	body := `{"tenantId":"tenant-a","payload":{"task":"x"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Submit(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestJobsHandler_Get_Found(t *testing.T) {
	job := &domain.Job{ID: "job-1", TenantID: "tenant-a", Status: domain.StatusRunning, CreatedAt: time.Now().UTC(), TraceID: "trace-1"}
	store := &fakeStore{
		getJobFunc: func(ctx context.Context, jobID string) (*domain.Job, error) {
			assert.Equal(t, "job-1", jobID)
			return job, nil
		},
	}
	h := NewJobsHandler(&queue.Submitter{Store: store, RateGate: &fakeRateGate{}}, store)

	r := chi.NewRouter()
	r.Get("/api/v1/jobs/{jobId}", h.Get)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/job-1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got jobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "job-1", got.JobID)
}

func TestJobsHandler_Get_CompletedJobIncludesStartedAndCompletedAt(t *testing.T) {
	now := time.Now().UTC()
	started := now.Add(-time.Minute)
	completed := now
	job := &domain.Job{
		ID:          "job-1",
		TenantID:    "tenant-a",
		Status:      domain.StatusCompleted,
		CreatedAt:   started.Add(-time.Second),
		StartedAt:   &started,
		CompletedAt: &completed,
		TraceID:     "trace-1",
	}
	store := &fakeStore{
		getJobFunc: func(ctx context.Context, jobID string) (*domain.Job, error) { return job, nil },
	}
	h := NewJobsHandler(&queue.Submitter{Store: store, RateGate: &fakeRateGate{}}, store)

	r := chi.NewRouter()
	r.Get("/api/v1/jobs/{jobId}", h.Get)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/job-1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got jobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.StartedAt)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, started.Format(jobTimeFormat), *got.StartedAt)
	assert.Equal(t, completed.Format(jobTimeFormat), *got.CompletedAt)
}

func TestJobsHandler_Get_NotFound(t *testing.T) {
	store := &fakeStore{
		getJobFunc: func(ctx context.Context, jobID string) (*domain.Job, error) { return nil, domain.ErrNotFound },
	}
	h := NewJobsHandler(&queue.Submitter{Store: store, RateGate: &fakeRateGate{}}, store)

	r := chi.NewRouter()
	r.Get("/api/v1/jobs/{jobId}", h.Get)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/missing", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJobsHandler_List_RequiresTenantID(t *testing.T) {
	h := NewJobsHandler(&queue.Submitter{Store: &fakeStore{}, RateGate: &fakeRateGate{}}, &fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJobsHandler_List_FiltersByStatus(t *testing.T) {
	var gotParams domain.ListJobsParams
	store := &fakeStore{
		listJobsFunc: func(ctx context.Context, params domain.ListJobsParams) ([]*domain.Job, error) {
			gotParams = params
			return []*domain.Job{{ID: "job-1", TenantID: "tenant-a", Status: domain.StatusFailed, CreatedAt: time.Now().UTC()}}, nil
		},
	}
	h := NewJobsHandler(&queue.Submitter{Store: store, RateGate: &fakeRateGate{}}, store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs?tenantId=tenant-a&status=failed", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotParams.Status)
	assert.Equal(t, domain.StatusFailed, *gotParams.Status)

	var got listJobsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.Jobs, 1)
}
