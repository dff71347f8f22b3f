// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/attrition/internal/domain/assistant"
	"github.com/okian/attrition/internal/domain/insights"
	"github.com/okian/attrition/internal/domain/predictor"
	"github.com/okian/attrition/internal/domain/risk"
	"github.com/okian/attrition/internal/domain/table"
	"github.com/okian/attrition/internal/domain/types"
	"github.com/okian/attrition/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Session lifecycle.
	OpenDefault(ctx context.Context) (types.SessionInfo, error)
	OpenUpload(ctx context.Context, name string, r io.Reader) (types.SessionInfo, error)
	CloseSession(ctx context.Context, id string) error

	// Read operations over a session's dataset.
	Overview(ctx context.Context, id string) (types.Overview, error)
	Risk(ctx context.Context, id, dimension string) (risk.Result, error)
	Insights(ctx context.Context, id string) (insights.Report, error)
	Ask(ctx context.Context, id, question string) (assistant.Answer, error)
	Export(ctx context.Context, id string, w io.Writer) error

	// Predictor operations.
	BuildPredictor(ctx context.Context, id string) (types.PredictorInfo, error)
	Predict(ctx context.Context, id string, rec table.Record) (predictor.Prediction, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	sessionsHandler  *SessionsHandler
	analyticsHandler *AnalyticsHandler
	modelHandler     *ModelHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	cfg := &serverConfig{maxUploadBytes: defaultMaxUploadBytes}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logger.Get()
	}
	errs := &errorWriter{logger: cfg.logger}

	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		sessionsHandler:  NewSessionsHandler(deps, cfg.maxUploadBytes, errs),
		analyticsHandler: NewAnalyticsHandler(deps, errs),
		modelHandler:     NewModelHandler(deps, errs),
		dashboardHandler: newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /sessions", MetricsMiddleware(s.sessionsHandler.HandleCreate, "sessions"))
	mux.HandleFunc("DELETE /sessions/{id}", MetricsMiddleware(s.sessionsHandler.HandleDelete, "session"))

	mux.HandleFunc("GET /sessions/{id}/overview", MetricsMiddleware(s.analyticsHandler.HandleOverview, "overview"))
	mux.HandleFunc("GET /sessions/{id}/risk", MetricsMiddleware(s.analyticsHandler.HandleRisk, "risk"))
	mux.HandleFunc("GET /sessions/{id}/insights", MetricsMiddleware(s.analyticsHandler.HandleInsights, "insights"))
	mux.HandleFunc("POST /sessions/{id}/assistant", MetricsMiddleware(s.analyticsHandler.HandleAssistant, "assistant"))
	mux.HandleFunc("GET /sessions/{id}/export", MetricsMiddleware(s.analyticsHandler.HandleExport, "export"))

	mux.HandleFunc("POST /sessions/{id}/predictor", MetricsMiddleware(s.modelHandler.HandleBuild, "predictor"))
	mux.HandleFunc("POST /sessions/{id}/predict", MetricsMiddleware(s.modelHandler.HandlePredict, "predict"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before committing the status, so an unencodable value
// leaves w untouched.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
	return nil
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	_ = writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBytes))
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid JSON body: %v", err)
	}
	return nil
}
