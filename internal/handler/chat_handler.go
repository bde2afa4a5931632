package handler

import (
	"encoding/json"
	"net/http"

	"github.com/TomyRioss/misstress/internal/domain"
	"github.com/TomyRioss/misstress/internal/service"

	"go.uber.org/zap"
)

// chatHandler serves POST /v1/chat with the local fallback bot.
func chatHandler(svc *service.ChatService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/chat")
		defer span.End()

		var req domain.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		resp, err := svc.Reply(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
