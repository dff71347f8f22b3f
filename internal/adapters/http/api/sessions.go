package api

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

var csvMediaTypes = map[string]bool{
	"text/csv":                 true,
	"application/csv":          true,
	"text/plain":               true,
	"application/octet-stream": true,
}

// SessionsHandler opens and closes dashboard sessions.
type SessionsHandler struct {
	deps           Dependencies
	maxUploadBytes int64
	errs           *errorWriter
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps Dependencies, maxUploadBytes int64, errs *errorWriter) *SessionsHandler {
	return &SessionsHandler{deps: deps, maxUploadBytes: maxUploadBytes, errs: errs}
}

// HandleCreate handles POST /sessions. An empty body without a Content-Type
// opens the default dataset; otherwise the body is the CSV to analyse, and
// an empty CSV body yields an empty session. The optional name
// query parameter labels the upload.
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUploadBytes))
	if err != nil {
		h.errs.write(w, r, err)
		return
	}

	ct := r.Header.Get("Content-Type")
	if ct == "" && len(bytes.TrimSpace(body)) == 0 {
		info, err := h.deps.OpenDefault(r.Context())
		if err != nil {
			h.errs.write(w, r, err)
			return
		}
		h.errs.respond(w, r, http.StatusCreated, info)
		return
	}

	if ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || !csvMediaTypes[strings.ToLower(mt)] {
			h.errs.write(w, r, fmt.Errorf("%w: %s, send text/csv", ErrUnsupportedCSV, ct))
			return
		}
	}

	info, err := h.deps.OpenUpload(r.Context(), r.URL.Query().Get("name"), bytes.NewReader(body))
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	h.errs.respond(w, r, http.StatusCreated, info)
}

// HandleDelete handles DELETE /sessions/{id}.
func (h *SessionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.CloseSession(r.Context(), r.PathValue("id")); err != nil {
		h.errs.write(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
