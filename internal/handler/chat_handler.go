package handler

import (
	"encoding/json"
	"net/http"

	"github.com/kvothesson/chat-saas-gateway/internal/domain"
	"github.com/kvothesson/chat-saas-gateway/internal/infra/observability"
	"github.com/kvothesson/chat-saas-gateway/internal/service"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const maxChatBody = 1 << 20

// ============================================================
// POST /chat
// ============================================================

func chatHandler(svc *service.ChatService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /chat")
		defer span.End()

		chatID := uuid.New().String()
		w.Header().Set(observability.ChatIDHeader, chatID)
		span.SetAttributes(attribute.String("chat.id", chatID))

		var req domain.ChatRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBody)).Decode(&req); err != nil {
			handleServiceError(w, &domain.ErrMalformedRequest{Message: "invalid JSON body"}, logger)
			return
		}

		resp, err := svc.Reply(ctx, chatID, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// ============================================================
// GET /business
// ============================================================

func businessHandler(svc *service.ChatService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /business")
		defer span.End()

		profile, err := svc.Profile(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}
