package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kvothesson/chat-saas-gateway/internal/domain"

	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// handleServiceError maps domain errors to HTTP responses. Client faults
// get 400; everything else, upstream failures included, gets 500.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var malformed *domain.ErrMalformedRequest
	var validation *domain.ErrValidation
	var resolution *domain.ErrProfileResolution
	var upstream *domain.ErrUpstreamCompletion
	var circuitOpen *domain.ErrCircuitOpen

	switch {
	case errors.As(err, &malformed):
		logger.Debug("malformed request", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &resolution):
		logger.Error("business profile unavailable", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	case errors.As(err, &circuitOpen):
		logger.Error("circuit breaker open", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	case errors.As(err, &upstream):
		logger.Error("completion provider error", zap.Int("status", upstream.StatusCode), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
