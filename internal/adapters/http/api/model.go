package api

import (
	"net/http"

	service "github.com/okian/attrition/internal/app"
)

// ModelHandler builds and queries a session's predictor.
type ModelHandler struct {
	deps Dependencies
	errs *errorWriter
}

// NewModelHandler creates a new model handler.
func NewModelHandler(deps Dependencies, errs *errorWriter) *ModelHandler {
	return &ModelHandler{deps: deps, errs: errs}
}

// HandleBuild handles POST /sessions/{id}/predictor.
func (h *ModelHandler) HandleBuild(w http.ResponseWriter, r *http.Request) {
	out, err := h.deps.BuildPredictor(r.Context(), r.PathValue("id"))
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	h.errs.respond(w, r, http.StatusOK, out)
}

// predictRequest mirrors the OpenAPI schema for POST /sessions/{id}/predict.
type predictRequest struct {
	Record map[string]any `json:"record"`
}

// HandlePredict handles POST /sessions/{id}/predict.
func (h *ModelHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errs.write(w, r, err)
		return
	}
	if req.Record == nil {
		h.errs.write(w, r, badRequest("missing record"))
		return
	}
	rec, err := service.RecordOf(req.Record)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	out, err := h.deps.Predict(r.Context(), r.PathValue("id"), rec)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	h.errs.respond(w, r, http.StatusOK, out)
}
