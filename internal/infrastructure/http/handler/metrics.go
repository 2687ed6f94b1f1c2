package handler

import (
	"net/http"

	"github.com/rezkam/jobqueue/internal/infrastructure/http/response"
	"github.com/rezkam/jobqueue/internal/queue"
)

type MetricsHandler struct {
	Store queue.Store
}

func NewMetricsHandler(store queue.Store) *MetricsHandler {
	return &MetricsHandler{Store: store}
}

type jobsByStatusResponse struct {
	Pending   int64 `json:"pending"`
	Running   int64 `json:"running"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

type metricsResponse struct {
	JobsTotal    int64                `json:"jobs_total"`
	JobsByStatus jobsByStatusResponse `json:"jobs_by_status"`
	DLQSize      int64                `json:"dlq_size"`
}

// Get handles GET /api/v1/metrics?tenantId=. An empty tenantId scopes
// across all tenants.
func (h *MetricsHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("tenantId")

	m, err := h.Store.Metrics(r.Context(), tenantID)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, metricsResponse{
		JobsTotal: m.JobsTotal,
		JobsByStatus: jobsByStatusResponse{
			Pending:   m.JobsByStatus.Pending,
			Running:   m.JobsByStatus.Running,
			Completed: m.JobsByStatus.Completed,
			Failed:    m.JobsByStatus.Failed,
		},
		DLQSize: m.DLQSize,
	})
}
