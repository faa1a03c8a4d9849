package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"adquote/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v as the response body. Encoding failures are logged;
// the status line has already been written at that point.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}

// writeError maps domain errors onto HTTP status codes: validation 422,
// rejected state transitions 409, missing records 404, anything else 500.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var (
		validationErr *domain.ValidationError
		transitionErr *domain.StateTransitionError
	)
	switch {
	case errors.As(err, &validationErr):
		h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: validationErr.Error()})
	case errors.As(err, &transitionErr):
		h.writeJSON(w, http.StatusConflict, errorResponse{Error: transitionErr.Error()})
	case errors.Is(err, domain.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		h.logger.Error("internal error", slog.Any("error", err))
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// decodeAndValidate decodes the request body into v and runs struct
// validation. It writes the error response itself and reports success.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON"})
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return false
	}
	return true
}
