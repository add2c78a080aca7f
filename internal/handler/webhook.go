package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/entretech/wanotify/internal/middleware"
)

// maxWebhookBody caps gateway webhook payloads.
const maxWebhookBody = 1 << 20

// WebhookStatusResponse reports the webhook ingress state.
type WebhookStatusResponse struct {
	Listening bool      `json:"listening"`
	Timestamp time.Time `json:"timestamp"`
}

// ReceiveWebhook ingests gateway events. It always answers 200: a non-200
// would make the gateway retry, and replays of conversational replies are
// worse than a dropped payload.
func (h *Handler) ReceiveWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		h.logger.Warn("Failed to read webhook body", zap.Error(err))
		render.JSON(w, r, map[string]string{"status": "ok"})
		return
	}

	if err := h.service.Webhook.HandleInbound(r.Context(), payload); err != nil {
		requestID := middleware.GetRequestID(r.Context())
		h.logger.Error("Webhook processing failed",
			zap.String("request_id", requestID),
			zap.Error(err))
	}

	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (h *Handler) WebhookStatus(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, WebhookStatusResponse{
		Listening: true,
		Timestamp: time.Now(),
	})
}
