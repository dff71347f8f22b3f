package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/attrition/internal/adapters/repository"
	service "github.com/okian/attrition/internal/app"
	"github.com/okian/attrition/internal/domain/predictor"
	"github.com/okian/attrition/pkg/logger"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest     = errors.New("bad request")
	ErrUnsupportedCSV = errors.New("unsupported content type")
)

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, fmt.Sprintf(format, args...))
}

// statusOf maps an error to its HTTP status and error code.
func statusOf(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, predictor.ErrInsufficientFeatures):
		return http.StatusUnprocessableEntity, "insufficient_features"
	case errors.Is(err, predictor.ErrTrainingFailed):
		return http.StatusUnprocessableEntity, "training_failed"
	case errors.Is(err, predictor.ErrNotFitted):
		return http.StatusConflict, "not_built"
	case errors.Is(err, predictor.ErrUnknownFeature),
		errors.Is(err, predictor.ErrInvalidValue),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, ErrUnsupportedCSV),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

type errorWriter struct {
	logger logger.Logger
}

// write translates err into the JSON error body. Server faults are logged.
func (e *errorWriter) write(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusOf(err)
	if status >= http.StatusInternalServerError {
		e.logger.Error(r.Context(), "request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
	}
	writeError(w, status, code, err)
}

// respond writes v as JSON, or a logged 500 when v cannot be encoded.
func (e *errorWriter) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	if err := writeJSON(w, status, v); err != nil {
		e.write(w, r, err)
	}
}
