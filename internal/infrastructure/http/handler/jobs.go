// Package handler implements the job query API's HTTP surface and the
// submission path's POST /jobs entry point, adapting net/http requests to
// the queue package's application services.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rezkam/jobqueue/internal/domain"
	"github.com/rezkam/jobqueue/internal/infrastructure/http/response"
	"github.com/rezkam/jobqueue/internal/queue"
)

// JobsHandler wires the Submission Service and the Store's read surface
// to HTTP. Grounded on the teacher's TodoHandler adapter-over-services
// shape, narrowed to job submission/read/list (no OpenAPI-generated
// ServerInterface — wired directly against chi).
type JobsHandler struct {
	Submitter *queue.Submitter
	Store     queue.Store
}

func NewJobsHandler(submitter *queue.Submitter, store queue.Store) *JobsHandler {
	return &JobsHandler{Submitter: submitter, Store: store}
}

type submitJobRequest struct {
	TenantID       string          `json:"tenantId"`
	Payload        json.RawMessage `json:"payload"`
	IdempotencyKey *string         `json:"idempotencyKey,omitempty"`
}

type submitJobResponse struct {
	JobID   string        `json:"jobId"`
	Status  domain.Status `json:"status"`
	TraceID string        `json:"traceId"`
}

// Submit handles POST /api/v1/jobs.
func (h *JobsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	}

	result, err := h.Submitter.Submit(r.Context(), req.TenantID, req.Payload, req.IdempotencyKey)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.Created(w, submitJobResponse{JobID: result.JobID, Status: result.Status, TraceID: result.TraceID})
}

const jobTimeFormat = "2006-01-02T15:04:05.000Z07:00"

type jobResponse struct {
	JobID        string        `json:"jobId"`
	TenantID     string        `json:"tenantId"`
	Status       domain.Status `json:"status"`
	RetryCount   int           `json:"retryCount"`
	MaxRetries   int           `json:"maxRetries"`
	CreatedAt    string        `json:"createdAt"`
	StartedAt    *string       `json:"startedAt,omitempty"`
	CompletedAt  *string       `json:"completedAt,omitempty"`
	ErrorMessage *string       `json:"errorMessage,omitempty"`
	TraceID      string        `json:"traceId"`
}

func formatJobTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(jobTimeFormat)
	return &formatted
}

func toJobResponse(j *domain.Job) jobResponse {
	return jobResponse{
		JobID:        j.ID,
		TenantID:     j.TenantID,
		Status:       j.Status,
		RetryCount:   j.RetryCount,
		MaxRetries:   j.MaxRetries,
		CreatedAt:    j.CreatedAt.Format(jobTimeFormat),
		StartedAt:    formatJobTime(j.StartedAt),
		CompletedAt:  formatJobTime(j.CompletedAt),
		ErrorMessage: j.ErrorMessage,
		TraceID:      j.TraceID,
	}
}

// Get handles GET /api/v1/jobs/{jobId}.
func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	job, err := h.Store.GetJob(r.Context(), jobID)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, toJobResponse(job))
}

type listJobsResponse struct {
	Jobs []jobResponse `json:"jobs"`
}

// List handles GET /api/v1/jobs?tenantId=&status=.
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("tenantId")
	if tenantID == "" {
		response.BadRequest(w, "tenantId is required")
		return
	}

	params := domain.ListJobsParams{TenantID: tenantID}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.Status(raw)
		params.Status = &status
	}

	jobs, err := h.Store.ListJobs(r.Context(), params)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list jobs", "tenant_id", tenantID, "error", err)
		response.FromDomainError(w, r, err)
		return
	}

	out := make([]jobResponse, len(jobs))
	for i, j := range jobs {
		out[i] = toJobResponse(j)
	}
	response.OK(w, listJobsResponse{Jobs: out})
}
