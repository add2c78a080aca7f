package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/entretech/wanotify/internal/middleware"
	"github.com/entretech/wanotify/internal/models"
	"github.com/entretech/wanotify/internal/service"
)

// ConfigureWebhookRequest is the body of POST /api/settings/configure-webhook.
type ConfigureWebhookRequest struct {
	PublicURL string `json:"public_url"`
}

type ConnectionTestResponse struct {
	State     string `json:"state"`
	Connected bool   `json:"connected"`
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.Settings.Get(r.Context())
	if err != nil {
		requestID := middleware.GetRequestID(r.Context())
		h.logger.Error("Failed to load settings",
			zap.String("request_id", requestID),
			zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, "Failed to load settings")
		return
	}

	render.JSON(w, r, settings)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	settings := models.DefaultSettings()
	if err := render.DecodeJSON(r.Body, settings); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "Invalid request body")
		return
	}

	if settings.LocalNumberLength <= 0 {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "local_number_length must be positive")
		return
	}
	if settings.Enabled && !settings.Configured() {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation,
			"api_base_url, api_key and instance_name are required when enabled")
		return
	}

	if err := h.service.Settings.Save(r.Context(), settings); err != nil {
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, "Failed to save settings")
		return
	}

	render.JSON(w, r, settings)
}

func (h *Handler) TestConnection(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Settings.TestConnection(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrGatewayNotConfigured) {
			h.sendError(w, r, http.StatusConflict, errorCodeGatewayNotConfigured, errorMessageGatewayNotConfigured)
			return
		}
		h.sendError(w, r, http.StatusBadGateway, middleware.ErrorCodeInternal, err.Error())
		return
	}

	render.JSON(w, r, ConnectionTestResponse{
		State:     state,
		Connected: state == "open",
	})
}

func (h *Handler) ConfigureWebhook(w http.ResponseWriter, r *http.Request) {
	var req ConfigureWebhookRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "Invalid request body")
		return
	}
	if req.PublicURL == "" {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "public_url is required")
		return
	}

	if err := h.service.Settings.ConfigureWebhook(r.Context(), req.PublicURL); err != nil {
		if errors.Is(err, service.ErrGatewayNotConfigured) {
			h.sendError(w, r, http.StatusConflict, errorCodeGatewayNotConfigured, errorMessageGatewayNotConfigured)
			return
		}
		h.sendError(w, r, http.StatusBadGateway, middleware.ErrorCodeInternal, err.Error())
		return
	}

	render.JSON(w, r, map[string]string{"status": "configured"})
}

func (h *Handler) GetGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.Settings.FetchGroups(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrGatewayNotConfigured) {
			h.sendError(w, r, http.StatusConflict, errorCodeGatewayNotConfigured, errorMessageGatewayNotConfigured)
			return
		}
		requestID := middleware.GetRequestID(r.Context())
		h.logger.Error("Failed to fetch groups",
			zap.String("request_id", requestID),
			zap.Error(err))
		h.sendError(w, r, http.StatusBadGateway, middleware.ErrorCodeInternal, "Failed to fetch groups from gateway")
		return
	}

	render.JSON(w, r, groups)
}
