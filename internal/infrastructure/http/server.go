package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/rezkam/jobqueue/internal/config"
	"github.com/rezkam/jobqueue/internal/infrastructure/http/handler"
	mw "github.com/rezkam/jobqueue/internal/infrastructure/http/middleware"
)

// APIServer wraps the HTTP server with the router and all HTTP concerns.
// Grounded on the teacher's APIServer shape, with the auth middleware and
// OpenAPI-validation layer dropped: this API has no auth surface, and no
// generated server interface survived retrieval.
type APIServer struct {
	server *http.Server
}

// NewAPIServer builds the router and wraps it in a configured
// net/http.Server.
func NewAPIServer(jobs *handler.JobsHandler, metrics *handler.MetricsHandler, dlq *handler.DLQHandler, cfg config.HTTPConfig) *APIServer {
	router := newRouter(jobs, metrics, dlq, cfg)
	return &APIServer{server: newHTTPServer(router, cfg)}
}

func newRouter(jobs *handler.JobsHandler, metrics *handler.MetricsHandler, dlq *handler.DLQHandler, cfg config.HTTPConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(mw.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "jobqueue-server")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			slog.ErrorContext(r.Context(), "failed to write health check response", "error", err)
		}
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/jobs", jobs.Submit)
		r.Get("/jobs", jobs.List)
		r.Get("/jobs/{jobId}", jobs.Get)
		r.Get("/metrics", metrics.Get)
		r.Get("/dlq", dlq.List)
	})

	return r
}

func newHTTPServer(router *chi.Mux, cfg config.HTTPConfig) *http.Server {
	return &http.Server{
		Addr:              cfg.Host + ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
}

// Start runs the HTTP server until it errors or is shut down.
func (s *APIServer) Start() error {
	slog.Info("starting HTTP server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully drains in-flight requests within ctx's deadline.
func (s *APIServer) Shutdown(ctx context.Context) error {
	slog.Info("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Handler exposes the underlying handler, primarily for tests.
func (s *APIServer) Handler() http.Handler {
	return s.server.Handler
}
