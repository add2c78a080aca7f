package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/entretech/wanotify/internal/middleware"
	"github.com/entretech/wanotify/internal/models"
	"github.com/entretech/wanotify/internal/repository"
)

// SendApprovalRequest is the body of POST /api/approvals.
type SendApprovalRequest struct {
	Template   string `json:"template"`
	RefDocType string `json:"ref_doctype"`
	RefDocID   string `json:"ref_doc_id"`
	Phone      string `json:"phone,omitempty"`
}

// ApprovalListResponse wraps a page of approval requests.
type ApprovalListResponse struct {
	Data   []*models.ApprovalRequest `json:"data"`
	Total  int64                     `json:"total"`
	Offset int                       `json:"offset"`
	Limit  int                       `json:"limit"`
}

// DocumentEventRequest is the body of POST /api/events: the host
// application's "document changed" trigger.
type DocumentEventRequest struct {
	DocType       string   `json:"document_type"`
	DocID         string   `json:"document_id"`
	Event         string   `json:"event"`
	ChangedFields []string `json:"changed_fields,omitempty"`
}

func (h *Handler) SendApproval(w http.ResponseWriter, r *http.Request) {
	var req SendApprovalRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "Invalid request body")
		return
	}
	if req.Template == "" || req.RefDocType == "" || req.RefDocID == "" {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "template, ref_doctype and ref_doc_id are required")
		return
	}

	err := h.service.Approvals.SendManual(r.Context(), req.Template, req.RefDocType, req.RefDocID, req.Phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.sendError(w, r, http.StatusNotFound, errorCodeNotFound, "Approval template not found")
			return
		}
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, err.Error())
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]string{"status": "sent"})
}

func (h *Handler) GetApproval(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "Invalid approval id")
		return
	}

	req, err := h.service.Approvals.GetRequest(id)
	if errors.Is(err, repository.ErrNotFound) {
		h.sendError(w, r, http.StatusNotFound, errorCodeNotFound, "Approval request not found")
		return
	}
	if err != nil {
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, "Failed to retrieve approval request")
		return
	}

	render.JSON(w, r, req)
}

func (h *Handler) ListApprovals(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	requests, total, err := h.service.Approvals.ListRequests(
		r.URL.Query().Get("ref_doctype"),
		r.URL.Query().Get("ref_doc_id"),
		models.ApprovalStatus(r.URL.Query().Get("status")),
		offset, limit)
	if err != nil {
		requestID := middleware.GetRequestID(r.Context())
		h.logger.Error("Failed to list approval requests",
			zap.String("request_id", requestID),
			zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, "Failed to retrieve approval requests")
		return
	}

	if requests == nil {
		requests = []*models.ApprovalRequest{}
	}
	render.JSON(w, r, ApprovalListResponse{
		Data:   requests,
		Total:  total,
		Offset: offset,
		Limit:  limit,
	})
}

// HandleEvent runs an incoming document event through both the rule and
// approval flows. Processing errors are reported but individually isolated.
func (h *Handler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	var req DocumentEventRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "Invalid request body")
		return
	}
	if req.DocType == "" || req.DocID == "" || req.Event == "" {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "document_type, document_id and event are required")
		return
	}

	event := models.DocumentEvent{
		DocType:       req.DocType,
		DocID:         req.DocID,
		Event:         models.TriggerEvent(req.Event),
		ChangedFields: req.ChangedFields,
	}

	requestID := middleware.GetRequestID(r.Context())

	if err := h.service.Rules.HandleEvent(r.Context(), event); err != nil {
		h.logger.Error("Rule processing failed",
			zap.String("request_id", requestID),
			zap.String("doc", req.DocID),
			zap.Error(err))
	}
	if err := h.service.Approvals.HandleEvent(r.Context(), event); err != nil {
		h.logger.Error("Approval processing failed",
			zap.String("request_id", requestID),
			zap.String("doc", req.DocID),
			zap.Error(err))
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]string{"status": "accepted"})
}

// ListRules returns all notification rules.
func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.service.Rules.ListRules()
	if err != nil {
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, "Failed to retrieve rules")
		return
	}

	if rules == nil {
		rules = []*models.NotificationRule{}
	}
	render.JSON(w, r, rules)
}

// SaveRule creates or updates a notification rule.
func (h *Handler) SaveRule(w http.ResponseWriter, r *http.Request) {
	var rule models.NotificationRule
	if err := render.DecodeJSON(r.Body, &rule); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "Invalid request body")
		return
	}
	if rule.Name == "" || rule.DocType == "" || rule.Event == "" {
		h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, "name, doctype and event are required")
		return
	}

	if err := h.service.Rules.SaveRule(r.Context(), &rule); err != nil {
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, "Failed to save rule")
		return
	}

	render.JSON(w, r, rule)
}
