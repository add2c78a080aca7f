package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/entretech/wanotify/internal/gateway"
	"github.com/entretech/wanotify/internal/handler"
	"github.com/entretech/wanotify/internal/middleware"
	"github.com/entretech/wanotify/internal/models"
	"github.com/entretech/wanotify/internal/repository"
	"github.com/entretech/wanotify/internal/scheduler"
	"github.com/entretech/wanotify/internal/service"
	"github.com/entretech/wanotify/internal/service/mocks"
)

func newRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "test-request-id"))
}

func withIDParam(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestHandler_StartScheduler(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(*mocks.MockSchedulerService)
		expectedStatus int
		expectedBody   func(*testing.T, []byte)
	}{
		{
			name: "success",
			setupMocks: func(m *mocks.MockSchedulerService) {
				m.EXPECT().Start().Return(nil)
				m.EXPECT().Status().Return(map[string]bool{"process-pending": true})
			},
			expectedStatus: http.StatusOK,
			expectedBody: func(t *testing.T, body []byte) {
				var resp handler.SchedulerResponse
				err := json.Unmarshal(body, &resp)
				assert.NoError(t, err)
				assert.Equal(t, "started", resp.Status)
				assert.Equal(t, "Scheduler started successfully", resp.Message)
				assert.True(t, resp.Tasks["process-pending"])
			},
		},
		{
			name: "scheduler already running",
			setupMocks: func(m *mocks.MockSchedulerService) {
				m.EXPECT().Start().Return(scheduler.ErrSchedulerAlreadyRunning)
			},
			expectedStatus: http.StatusConflict,
			expectedBody: func(t *testing.T, body []byte) {
				var resp handler.ErrorResponse
				err := json.Unmarshal(body, &resp)
				assert.NoError(t, err)
				assert.Equal(t, "SCHEDULER_ALREADY_RUNNING", resp.Error)
				assert.Equal(t, "Scheduler is already running", resp.Message)
			},
		},
		{
			name: "internal error",
			setupMocks: func(m *mocks.MockSchedulerService) {
				m.EXPECT().Start().Return(errors.New("internal error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody: func(t *testing.T, body []byte) {
				var resp handler.ErrorResponse
				err := json.Unmarshal(body, &resp)
				assert.NoError(t, err)
				assert.Equal(t, middleware.ErrorCodeInternal, resp.Error)
				assert.Equal(t, "Failed to start scheduler", resp.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockScheduler := mocks.NewMockSchedulerService(ctrl)
			tt.setupMocks(mockScheduler)

			h := handler.NewHandler(&service.Service{Scheduler: mockScheduler}, zap.NewNop())

			w := httptest.NewRecorder()
			h.StartScheduler(w, newRequest(http.MethodPost, "/api/scheduler/start", ""))

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.expectedBody(t, w.Body.Bytes())
		})
	}
}

func TestHandler_StopScheduler(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(*mocks.MockSchedulerService)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "success",
			setupMocks: func(m *mocks.MockSchedulerService) {
				m.EXPECT().Stop().Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "scheduler not running",
			setupMocks: func(m *mocks.MockSchedulerService) {
				m.EXPECT().Stop().Return(scheduler.ErrSchedulerNotRunning)
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "SCHEDULER_NOT_RUNNING",
		},
		{
			name: "internal error",
			setupMocks: func(m *mocks.MockSchedulerService) {
				m.EXPECT().Stop().Return(errors.New("internal error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  middleware.ErrorCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockScheduler := mocks.NewMockSchedulerService(ctrl)
			tt.setupMocks(mockScheduler)

			h := handler.NewHandler(&service.Service{Scheduler: mockScheduler}, zap.NewNop())

			w := httptest.NewRecorder()
			h.StopScheduler(w, newRequest(http.MethodPost, "/api/scheduler/stop", ""))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				var resp handler.ErrorResponse
				assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedError, resp.Error)
			}
		})
	}
}

func TestHandler_HealthCheck(t *testing.T) {
	tests := []struct {
		name           string
		health         *service.HealthStatus
		expectedStatus int
	}{
		{
			name: "healthy",
			health: &service.HealthStatus{
				Status:               service.StatusHealthy,
				DatabaseStatus:       service.ComponentConnected,
				RedisStatus:          service.ComponentConnected,
				SchedulerRunning:     true,
				CircuitBreakerState:  gateway.BreakerClosed,
				CircuitBreakerStatus: "No requests yet",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "unhealthy returns 503",
			health: &service.HealthStatus{
				Status:              service.StatusUnhealthy,
				DatabaseStatus:      service.ComponentDisconnected,
				RedisStatus:         service.ComponentDisconnected,
				CircuitBreakerState: gateway.BreakerClosed,
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name: "degraded stays 200",
			health: &service.HealthStatus{
				Status:              service.StatusDegraded,
				DatabaseStatus:      service.ComponentConnected,
				RedisStatus:         service.ComponentConnected,
				SchedulerRunning:    true,
				CircuitBreakerState: gateway.BreakerOpen,
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockHealth := mocks.NewMockHealthService(ctrl)
			mockHealth.EXPECT().GetHealth().Return(tt.health)

			h := handler.NewHandler(&service.Service{Health: mockHealth}, zap.NewNop())

			w := httptest.NewRecorder()
			h.HealthCheck(w, newRequest(http.MethodGet, "/health", ""))

			assert.Equal(t, tt.expectedStatus, w.Code)

			var resp handler.HealthResponse
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, string(tt.health.Status), resp.Status)
			assert.Equal(t, string(tt.health.DatabaseStatus), resp.DatabaseStatus)
		})
	}
}

func TestHandler_SendMessage(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockDeliveryService)
		expectedStatus int
	}{
		{
			name: "success",
			body: `{"recipient": "841234567", "message": "Hello"}`,
			setupMocks: func(m *mocks.MockDeliveryService) {
				m.EXPECT().Enqueue(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, req service.EnqueueRequest) (*models.MessageLog, error) {
						assert.Equal(t, "841234567", req.Recipient.Address)
						assert.Equal(t, models.RecipientKindPhone, req.Recipient.Kind)
						assert.Equal(t, models.MessageKindText, req.Kind)
						return &models.MessageLog{ID: 7, Status: models.MessageStatusPending}, nil
					})
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "group recipient",
			body: `{"recipient": "12036304@g.us", "message": "Hello group"}`,
			setupMocks: func(m *mocks.MockDeliveryService) {
				m.EXPECT().Enqueue(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, req service.EnqueueRequest) (*models.MessageLog, error) {
						assert.Equal(t, models.RecipientKindGroup, req.Recipient.Kind)
						return &models.MessageLog{ID: 8, Status: models.MessageStatusPending}, nil
					})
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing recipient",
			body:           `{"message": "Hello"}`,
			setupMocks:     func(m *mocks.MockDeliveryService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "enqueue rejects",
			body: `{"recipient": "12", "message": "Hello"}`,
			setupMocks: func(m *mocks.MockDeliveryService) {
				m.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil, errors.New("invalid recipient phone number: 12"))
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockDelivery := mocks.NewMockDeliveryService(ctrl)
			tt.setupMocks(mockDelivery)

			h := handler.NewHandler(&service.Service{Delivery: mockDelivery}, zap.NewNop())

			w := httptest.NewRecorder()
			h.SendMessage(w, newRequest(http.MethodPost, "/api/messages", tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestHandler_ListMessages(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDelivery := mocks.NewMockDeliveryService(ctrl)
	mockDelivery.EXPECT().ListMessages(repository.ListFilter{
		Status: models.MessageStatusSent,
		Offset: 20,
		Limit:  10,
	}).Return([]*models.MessageLog{{ID: 1, Status: models.MessageStatusSent}}, int64(21), nil)

	h := handler.NewHandler(&service.Service{Delivery: mockDelivery}, zap.NewNop())

	w := httptest.NewRecorder()
	h.ListMessages(w, newRequest(http.MethodGet, "/api/messages?status=Sent&offset=20&limit=10", ""))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.MessageListResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, int64(21), resp.Total)
	assert.Equal(t, 20, resp.Offset)
	assert.Equal(t, 10, resp.Limit)
}

func TestHandler_ListMessages_ClampsLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDelivery := mocks.NewMockDeliveryService(ctrl)
	mockDelivery.EXPECT().ListMessages(repository.ListFilter{Limit: 20}).Return(nil, int64(0), nil)

	h := handler.NewHandler(&service.Service{Delivery: mockDelivery}, zap.NewNop())

	w := httptest.NewRecorder()
	h.ListMessages(w, newRequest(http.MethodGet, "/api/messages?limit=5000", ""))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.MessageListResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotNil(t, resp.Data)
	assert.Empty(t, resp.Data)
}

func TestHandler_GetMessage(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		setupMocks     func(*mocks.MockDeliveryService)
		expectedStatus int
	}{
		{
			name: "found",
			id:   "5",
			setupMocks: func(m *mocks.MockDeliveryService) {
				m.EXPECT().GetMessage(int64(5)).Return(&models.MessageLog{ID: 5}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "not found",
			id:   "6",
			setupMocks: func(m *mocks.MockDeliveryService) {
				m.EXPECT().GetMessage(int64(6)).Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalid id",
			id:             "abc",
			setupMocks:     func(m *mocks.MockDeliveryService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockDelivery := mocks.NewMockDeliveryService(ctrl)
			tt.setupMocks(mockDelivery)

			h := handler.NewHandler(&service.Service{Delivery: mockDelivery}, zap.NewNop())

			w := httptest.NewRecorder()
			h.GetMessage(w, withIDParam(newRequest(http.MethodGet, "/api/messages/"+tt.id, ""), tt.id))

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestHandler_CancelMessage_Conflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDelivery := mocks.NewMockDeliveryService(ctrl)
	mockDelivery.EXPECT().CancelMessage(int64(9)).Return(errors.New("message 9 is Sent and cannot be cancelled"))

	h := handler.NewHandler(&service.Service{Delivery: mockDelivery}, zap.NewNop())

	w := httptest.NewRecorder()
	h.CancelMessage(w, withIDParam(newRequest(http.MethodPost, "/api/messages/9/cancel", ""), "9"))

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp handler.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "CONFLICT", resp.Error)
}

func TestHandler_ReceiveWebhook_AlwaysOK(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(*mocks.MockWebhookService)
	}{
		{
			name: "processed",
			setupMocks: func(m *mocks.MockWebhookService) {
				m.EXPECT().HandleInbound(gomock.Any(), []byte(`{"event":"messages.upsert"}`)).Return(nil)
			},
		},
		{
			name: "processing error still acknowledged",
			setupMocks: func(m *mocks.MockWebhookService) {
				m.EXPECT().HandleInbound(gomock.Any(), gomock.Any()).Return(errors.New("database down"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockWebhook := mocks.NewMockWebhookService(ctrl)
			tt.setupMocks(mockWebhook)

			h := handler.NewHandler(&service.Service{Webhook: mockWebhook}, zap.NewNop())

			w := httptest.NewRecorder()
			h.ReceiveWebhook(w, newRequest(http.MethodPost, "/webhook/receive", `{"event":"messages.upsert"}`))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), `"ok"`)
		})
	}
}

func TestHandler_SendApproval(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockApprovalService)
		expectedStatus int
	}{
		{
			name: "accepted",
			body: `{"template": "expense-approval", "ref_doctype": "Expense Claim", "ref_doc_id": "EXP-0042"}`,
			setupMocks: func(m *mocks.MockApprovalService) {
				m.EXPECT().SendManual(gomock.Any(), "expense-approval", "Expense Claim", "EXP-0042", "").Return(nil)
			},
			expectedStatus: http.StatusAccepted,
		},
		{
			name: "template not found",
			body: `{"template": "missing", "ref_doctype": "Expense Claim", "ref_doc_id": "EXP-0042"}`,
			setupMocks: func(m *mocks.MockApprovalService) {
				m.EXPECT().SendManual(gomock.Any(), "missing", "Expense Claim", "EXP-0042", "").Return(repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "missing fields",
			body:           `{"template": "expense-approval"}`,
			setupMocks:     func(m *mocks.MockApprovalService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockApprovals := mocks.NewMockApprovalService(ctrl)
			tt.setupMocks(mockApprovals)

			h := handler.NewHandler(&service.Service{Approvals: mockApprovals}, zap.NewNop())

			w := httptest.NewRecorder()
			h.SendApproval(w, newRequest(http.MethodPost, "/api/approvals", tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestHandler_HandleEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	event := models.DocumentEvent{
		DocType:       "Sales Invoice",
		DocID:         "INV-0001",
		Event:         models.EventOnSubmit,
		ChangedFields: []string{"status"},
	}

	mockRules := mocks.NewMockRuleService(ctrl)
	mockRules.EXPECT().HandleEvent(gomock.Any(), event).Return(nil)
	mockApprovals := mocks.NewMockApprovalService(ctrl)
	mockApprovals.EXPECT().HandleEvent(gomock.Any(), event).Return(nil)

	h := handler.NewHandler(&service.Service{Rules: mockRules, Approvals: mockApprovals}, zap.NewNop())

	body := `{"document_type": "Sales Invoice", "document_id": "INV-0001", "event": "on_submit", "changed_fields": ["status"]}`
	w := httptest.NewRecorder()
	h.HandleEvent(w, newRequest(http.MethodPost, "/api/events", body))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), `"accepted"`)
}

func TestHandler_HandleEvent_RuleFailureStillAccepted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRules := mocks.NewMockRuleService(ctrl)
	mockRules.EXPECT().HandleEvent(gomock.Any(), gomock.Any()).Return(errors.New("template parse error"))
	mockApprovals := mocks.NewMockApprovalService(ctrl)
	mockApprovals.EXPECT().HandleEvent(gomock.Any(), gomock.Any()).Return(nil)

	h := handler.NewHandler(&service.Service{Rules: mockRules, Approvals: mockApprovals}, zap.NewNop())

	body := `{"document_type": "Sales Invoice", "document_id": "INV-0001", "event": "on_submit"}`
	w := httptest.NewRecorder()
	h.HandleEvent(w, newRequest(http.MethodPost, "/api/events", body))

	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestHandler_UpdateSettings_Validation(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockSettingsService)
		expectedStatus int
	}{
		{
			name: "valid disabled settings",
			body: `{"enabled": false}`,
			setupMocks: func(m *mocks.MockSettingsService) {
				m.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "enabled without gateway config",
			body:           `{"enabled": true}`,
			setupMocks:     func(m *mocks.MockSettingsService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "non-positive local number length",
			body:           `{"local_number_length": 0}`,
			setupMocks:     func(m *mocks.MockSettingsService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockSettings := mocks.NewMockSettingsService(ctrl)
			tt.setupMocks(mockSettings)

			h := handler.NewHandler(&service.Service{Settings: mockSettings}, zap.NewNop())

			w := httptest.NewRecorder()
			h.UpdateSettings(w, newRequest(http.MethodPut, "/api/settings", tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestHandler_TestConnection(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(*mocks.MockSettingsService)
		expectedStatus int
		expectedBody   func(*testing.T, []byte)
	}{
		{
			name: "connected",
			setupMocks: func(m *mocks.MockSettingsService) {
				m.EXPECT().TestConnection(gomock.Any()).Return("open", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: func(t *testing.T, body []byte) {
				var resp handler.ConnectionTestResponse
				assert.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, "open", resp.State)
				assert.True(t, resp.Connected)
			},
		},
		{
			name: "not configured",
			setupMocks: func(m *mocks.MockSettingsService) {
				m.EXPECT().TestConnection(gomock.Any()).Return("", service.ErrGatewayNotConfigured)
			},
			expectedStatus: http.StatusConflict,
			expectedBody: func(t *testing.T, body []byte) {
				var resp handler.ErrorResponse
				assert.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, "GATEWAY_NOT_CONFIGURED", resp.Error)
			},
		},
		{
			name: "gateway unreachable",
			setupMocks: func(m *mocks.MockSettingsService) {
				m.EXPECT().TestConnection(gomock.Any()).Return("", errors.New("connection refused"))
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   func(t *testing.T, body []byte) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockSettings := mocks.NewMockSettingsService(ctrl)
			tt.setupMocks(mockSettings)

			h := handler.NewHandler(&service.Service{Settings: mockSettings}, zap.NewNop())

			w := httptest.NewRecorder()
			h.TestConnection(w, newRequest(http.MethodPost, "/api/settings/test-connection", ""))

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.expectedBody(t, w.Body.Bytes())
		})
	}
}
