package api

import (
	"bytes"
	"fmt"
	"net/http"
)

// AnalyticsHandler serves the read views of a session.
type AnalyticsHandler struct {
	deps Dependencies
	errs *errorWriter
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(deps Dependencies, errs *errorWriter) *AnalyticsHandler {
	return &AnalyticsHandler{deps: deps, errs: errs}
}

// HandleOverview handles GET /sessions/{id}/overview.
func (h *AnalyticsHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	out, err := h.deps.Overview(r.Context(), r.PathValue("id"))
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	h.errs.respond(w, r, http.StatusOK, out)
}

// HandleRisk handles GET /sessions/{id}/risk?dimension=.
func (h *AnalyticsHandler) HandleRisk(w http.ResponseWriter, r *http.Request) {
	out, err := h.deps.Risk(r.Context(), r.PathValue("id"), r.URL.Query().Get("dimension"))
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	h.errs.respond(w, r, http.StatusOK, out)
}

// HandleInsights handles GET /sessions/{id}/insights.
func (h *AnalyticsHandler) HandleInsights(w http.ResponseWriter, r *http.Request) {
	out, err := h.deps.Insights(r.Context(), r.PathValue("id"))
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	h.errs.respond(w, r, http.StatusOK, out)
}

type assistantRequest struct {
	Question string `json:"question"`
}

// HandleAssistant handles POST /sessions/{id}/assistant.
func (h *AnalyticsHandler) HandleAssistant(w http.ResponseWriter, r *http.Request) {
	var req assistantRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errs.write(w, r, err)
		return
	}
	out, err := h.deps.Ask(r.Context(), r.PathValue("id"), req.Question)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	h.errs.respond(w, r, http.StatusOK, out)
}

// HandleExport handles GET /sessions/{id}/export. The table is rendered
// before any header is written so failures still produce a JSON error.
func (h *AnalyticsHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var buf bytes.Buffer
	if err := h.deps.Export(r.Context(), id, &buf); err != nil {
		h.errs.write(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "attrition-"+id+".csv"))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
