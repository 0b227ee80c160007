package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	slackCtrl "github.com/secmon-lab/vulntrend/pkg/controller/slack"
	"github.com/secmon-lab/vulntrend/pkg/domain/interfaces"
	"github.com/secmon-lab/vulntrend/pkg/domain/model"
	"github.com/secmon-lab/vulntrend/pkg/domain/types"
	"github.com/secmon-lab/vulntrend/pkg/usecase"
	"github.com/secmon-lab/vulntrend/pkg/utils/async"
)

const defaultReportLimit = 20

// PageRenderer renders the chart page and the status page of failed runs
type PageRenderer interface {
	interfaces.ChartRenderer
	interfaces.PageRenderer
}

// Renderers holds the renderer of each endpoint
type Renderers struct {
	Page PageRenderer
	JSON interfaces.ChartRenderer
	PNG  interfaces.ChartRenderer
	SVG  interfaces.ChartRenderer
}

// Server represents the HTTP server
type Server struct {
	*http.Server
	router    chi.Router
	dashboard usecase.DashboardUseCase
	repo      interfaces.Repository
	renderers Renderers
	slack     *slackCtrl.Handler
}

// Option configures optional endpoints of Server
type Option func(*Server)

// WithSlackHandler enables the Slack slash command endpoint
func WithSlackHandler(handler *slackCtrl.Handler) Option {
	return func(s *Server) {
		s.slack = handler
	}
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	addr string,
	dashboard usecase.DashboardUseCase,
	repo interfaces.Repository,
	renderers Renderers,
	opts ...Option,
) (*Server, error) {
	if dashboard == nil {
		return nil, goerr.New("dashboard is required")
	}
	if renderers.Page == nil || renderers.JSON == nil {
		return nil, goerr.New("page and JSON renderers are required")
	}

	router := chi.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	server := &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router:    router,
		dashboard: dashboard,
		repo:      repo,
		renderers: renderers,
	}
	for _, opt := range opts {
		opt(server)
	}

	router.Get("/health", handleHealth)
	router.Get("/", server.handlePage)
	if renderers.PNG != nil {
		router.Get("/chart.png", server.handleChart(renderers.PNG))
	}
	if renderers.SVG != nil {
		router.Get("/chart.svg", server.handleChart(renderers.SVG))
	}

	router.Route("/api", func(r chi.Router) {
		r.Get("/chart", server.handleChart(renderers.JSON))
		if repo != nil {
			r.Get("/reports", server.handleListReports)
			r.Get("/reports/{id}", server.handleGetReport)
		}
	})

	if server.slack != nil {
		router.Route("/hooks/slack", func(r chi.Router) {
			r.Post("/command", server.slack.HandleCommand)
		})
	}

	return server, nil
}

// record persists the report after the response has been written
func (s *Server) record(ctx context.Context, report *model.Report) {
	async.Dispatch(ctx, func(ctx context.Context) error {
		return s.dashboard.Record(ctx, report)
	})
}

// handlePage runs once per page load. Failed runs still answer 200 with the
// failure message in the loading indicator.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var buf bytes.Buffer
	report := s.dashboard.Run(ctx, s.renderers.Page, &buf)
	s.record(ctx, report)

	w.Header().Set("Content-Type", s.renderers.Page.ContentType())

	if report.Status.State == types.LoadStateSuccess {
		if _, err := w.Write(buf.Bytes()); err != nil {
			ctxlog.From(ctx).Error("Failed to write page", "error", err)
		}
		return
	}

	if err := s.renderers.Page.RenderPage(ctx, w, s.dashboard.Page(report)); err != nil {
		ctxlog.From(ctx).Error("Failed to render status page", "error", err)
	}
}

// handleChart runs once and writes the rendered chart, or a JSON error on failure
func (s *Server) handleChart(renderer interfaces.ChartRenderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var buf bytes.Buffer
		report := s.dashboard.Run(ctx, renderer, &buf)
		s.record(ctx, report)

		if report.Status.State != types.LoadStateSuccess {
			writeJSON(ctx, w, http.StatusInternalServerError, map[string]string{
				"id":    report.ID.String(),
				"error": report.Status.Message,
			})
			return
		}

		w.Header().Set("Content-Type", renderer.ContentType())
		w.Header().Set("X-Report-Id", report.ID.String())
		if _, err := w.Write(buf.Bytes()); err != nil {
			ctxlog.From(ctx).Error("Failed to write chart", "error", err)
		}
	}
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultReportLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(ctx, w, goerr.New("invalid limit", goerr.V("limit", v)), http.StatusBadRequest)
			return
		}
		limit = n
	}

	reports, err := s.repo.ListReports(ctx, limit)
	if err != nil {
		ctxlog.From(ctx).Error("Failed to list reports", "error", err)
		writeError(ctx, w, err, http.StatusInternalServerError)
		return
	}
	if reports == nil {
		reports = []*model.Report{}
	}

	writeJSON(ctx, w, http.StatusOK, reports)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := types.ReportID(chi.URLParam(r, "id"))
	if err := id.Validate(); err != nil {
		writeError(ctx, w, err, http.StatusBadRequest)
		return
	}

	report, err := s.repo.GetReport(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrReportNotFound) {
			writeError(ctx, w, model.ErrReportNotFound, http.StatusNotFound)
			return
		}
		ctxlog.From(ctx).Error("Failed to get report", "error", err, "id", id)
		writeError(ctx, w, err, http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusOK, report)
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "vulntrend",
	})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(ctx).Error("Failed to encode response", "error", err)
	}
}

// writeError writes an error response
func writeError(ctx context.Context, w http.ResponseWriter, err error, status int) {
	var message string
	if goErr := goerr.Unwrap(err); goErr != nil {
		message = goErr.Error()
	} else {
		message = err.Error()
	}

	writeJSON(ctx, w, status, map[string]string{
		"error": message,
	})
}
