package handler

import (
	"net/http"
	"strconv"

	"github.com/rezkam/jobqueue/internal/domain"
	"github.com/rezkam/jobqueue/internal/infrastructure/http/response"
	"github.com/rezkam/jobqueue/internal/queue"
)

// DLQHandler is the read-only admin listing for dead letters. No mutating
// DLQ operations exist here.
type DLQHandler struct {
	Store queue.Store
}

func NewDLQHandler(store queue.Store) *DLQHandler {
	return &DLQHandler{Store: store}
}

type deadLetterResponse struct {
	ID         string `json:"id"`
	JobID      string `json:"jobId"`
	FinalError string `json:"finalError"`
	FailedAt   string `json:"failedAt"`
	TraceID    string `json:"traceId"`
}

type listDeadLettersResponse struct {
	Entries []deadLetterResponse `json:"entries"`
}

func toDeadLetterResponse(e *domain.DeadLetterEntry) deadLetterResponse {
	return deadLetterResponse{
		ID:         e.ID,
		JobID:      e.JobID,
		FinalError: e.FinalError,
		FailedAt:   e.FailedAt.Format("2006-01-02T15:04:05.000Z07:00"),
		TraceID:    e.TraceID,
	}
}

// List handles GET /api/v1/dlq?limit=.
func (h *DLQHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.Store.ListDeadLetters(r.Context(), limit)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	out := make([]deadLetterResponse, len(entries))
	for i, e := range entries {
		out[i] = toDeadLetterResponse(e)
	}
	response.OK(w, listDeadLettersResponse{Entries: out})
}
