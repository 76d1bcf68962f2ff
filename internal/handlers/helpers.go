package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Lixing-Zhang/orderboard/internal/middleware"
	"github.com/Lixing-Zhang/orderboard/internal/models"
	"github.com/go-chi/chi/v5"
)

// statusFor maps the error taxonomy onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, models.ErrStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError logs err and writes the mapped response. Client errors
// echo the message; server errors do not leak internals.
func writeServiceError(w http.ResponseWriter, err error, op string, logger *slog.Logger) {
	status := statusFor(err)

	switch status {
	case http.StatusServiceUnavailable:
		logger.Error(op+" failed", "error", err)
		WriteError(w, status, "Order store unavailable, retry later", logger)
	case http.StatusInternalServerError:
		logger.Error(op+" failed", "error", err)
		WriteError(w, status, "Internal server error", logger)
	default:
		logger.Info(op+" rejected", "status", status, "error", err)
		WriteError(w, status, err.Error(), logger)
	}
}

// decodeJSON reads the request body into v
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body", models.ErrValidation)
	}
	return nil
}

// ownerID returns the authenticated owner. Routes are always mounted behind
// OwnerAuth; a missing owner means a wiring bug.
func ownerID(r *http.Request) (string, error) {
	owner, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		return "", errors.New("request has no authenticated owner")
	}
	return owner, nil
}

// int64Param parses a numeric URL parameter
func int64Param(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", models.ErrValidation, name, raw)
	}
	return id, nil
}
