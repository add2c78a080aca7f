package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/entretech/wanotify/internal/middleware"
	"github.com/entretech/wanotify/internal/models"
	"github.com/entretech/wanotify/internal/phone"
	"github.com/entretech/wanotify/internal/repository"
	"github.com/entretech/wanotify/internal/service"
)

// SendMessageRequest is the body of POST /api/messages.
type SendMessageRequest struct {
	Recipient     string     `json:"recipient"`
	RecipientName string     `json:"recipient_name,omitempty"`
	Message       string     `json:"message"`
	Kind          string     `json:"kind,omitempty"`
	MediaMimetype string     `json:"media_mimetype,omitempty"`
	MediaFilename string     `json:"media_filename,omitempty"`
	MediaData     string     `json:"media_data,omitempty"`
	RefDocType    string     `json:"ref_doctype,omitempty"`
	RefDocID      string     `json:"ref_doc_id,omitempty"`
	ScheduledAt   *time.Time `json:"scheduled_at,omitempty"`
}

// MessageListResponse wraps a page of message logs.
type MessageListResponse struct {
	Data   []*models.MessageLog `json:"data"`
	Total  int64                `json:"total"`
	Offset int                  `json:"offset"`
	Limit  int                  `json:"limit"`
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "Invalid request body")
		return
	}
	if req.Recipient == "" {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "recipient is required")
		return
	}

	kind := models.MessageKind(req.Kind)
	if kind == "" {
		kind = models.MessageKindText
		if req.MediaData != "" {
			kind = models.MessageKindMedia
		}
	}

	recipientKind := models.RecipientKindPhone
	if phone.IsGroupAddress(req.Recipient) {
		recipientKind = models.RecipientKindGroup
	}

	log, err := h.service.Delivery.Enqueue(r.Context(), service.EnqueueRequest{
		Recipient:     models.Recipient{Kind: recipientKind, Address: req.Recipient, Name: req.RecipientName},
		Message:       req.Message,
		Kind:          kind,
		MediaMimetype: req.MediaMimetype,
		MediaFilename: req.MediaFilename,
		MediaData:     req.MediaData,
		RefDocType:    req.RefDocType,
		RefDocID:      req.RefDocID,
		RecipientName: req.RecipientName,
		ScheduledAt:   req.ScheduledAt,
	})
	if err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, err.Error())
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, log)
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	filter := repository.ListFilter{
		Status:     models.MessageStatus(r.URL.Query().Get("status")),
		Phone:      r.URL.Query().Get("phone"),
		RefDocType: r.URL.Query().Get("ref_doctype"),
		RefDocID:   r.URL.Query().Get("ref_doc_id"),
		Offset:     queryInt(r, "offset", 0),
		Limit:      queryInt(r, "limit", 20),
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	messages, total, err := h.service.Delivery.ListMessages(filter)
	if err != nil {
		requestID := middleware.GetRequestID(r.Context())
		h.logger.Error("Failed to list messages",
			zap.String("request_id", requestID),
			zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, "Failed to retrieve messages")
		return
	}

	if messages == nil {
		messages = []*models.MessageLog{}
	}
	render.JSON(w, r, MessageListResponse{
		Data:   messages,
		Total:  total,
		Offset: filter.Offset,
		Limit:  filter.Limit,
	})
}

func (h *Handler) GetMessage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "Invalid message id")
		return
	}

	log, err := h.service.Delivery.GetMessage(id)
	if errors.Is(err, repository.ErrNotFound) {
		h.sendError(w, r, http.StatusNotFound, errorCodeNotFound, "Message not found")
		return
	}
	if err != nil {
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, "Failed to retrieve message")
		return
	}

	render.JSON(w, r, log)
}

func (h *Handler) GetMessageStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Delivery.Stats()
	if err != nil {
		requestID := middleware.GetRequestID(r.Context())
		h.logger.Error("Failed to compute message stats",
			zap.String("request_id", requestID),
			zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, "Failed to compute stats")
		return
	}

	render.JSON(w, r, stats)
}

func (h *Handler) CancelMessage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "Invalid message id")
		return
	}

	if err := h.service.Delivery.CancelMessage(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.sendError(w, r, http.StatusNotFound, errorCodeNotFound, "Message not found")
			return
		}
		h.sendError(w, r, http.StatusConflict, errorCodeConflict, err.Error())
		return
	}

	render.JSON(w, r, map[string]string{"status": "cancelled"})
}

func (h *Handler) RetryMessage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "Invalid message id")
		return
	}

	if err := h.service.Delivery.RetryMessage(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.sendError(w, r, http.StatusNotFound, errorCodeNotFound, "Message not found")
			return
		}
		h.sendError(w, r, http.StatusConflict, errorCodeConflict, err.Error())
		return
	}

	render.JSON(w, r, map[string]string{"status": "queued"})
}
