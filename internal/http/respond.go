package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"homespend/internal/core"
	applog "homespend/internal/log"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP statuses. Store failures surface
// with their message; nothing below retries them.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	var storeErr *core.StoreError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, core.ErrNotFound):
		status, message = http.StatusNotFound, "not found"
	case errors.Is(err, core.ErrConflict):
		status, message = http.StatusConflict, "already exists"
	case errors.Is(err, core.ErrCategoryInUse):
		status, message = http.StatusConflict, "category in use"
	case errors.Is(err, core.ErrForbidden):
		status, message = http.StatusForbidden, "default category"
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrMissingDate),
		errors.Is(err, core.ErrMissingCategory),
		errors.Is(err, core.ErrSameCategory):
		status, message = http.StatusBadRequest, "invalid request"
	case errors.As(err, &validationErrs):
		status, message = http.StatusBadRequest, "invalid request"
	case errors.As(err, &storeErr):
		status, message = http.StatusInternalServerError, "store failure"
	}

	if status >= 500 {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			applog.NewFields().
				WithOperation(r.Method+" "+r.URL.Path).
				WithError(err).
				ToSlice()...)
	}

	writeJSON(w, status, errorResponse{Error: message, Details: err.Error()})
}

// badRequest reports a malformed body or query without a domain error.
func badRequest(w http.ResponseWriter, details string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request", Details: details})
}
