// Package handler provides HTTP request handlers for the application.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/entretech/wanotify/internal/middleware"
	"github.com/entretech/wanotify/internal/scheduler"
	"github.com/entretech/wanotify/internal/service"
)

const (
	errorCodeSchedulerAlreadyRunning = "SCHEDULER_ALREADY_RUNNING"
	errorCodeSchedulerNotRunning     = "SCHEDULER_NOT_RUNNING"
	errorCodeValidation              = "VALIDATION_ERROR"
	errorCodeNotFound                = "NOT_FOUND"
	errorCodeGatewayNotConfigured    = "GATEWAY_NOT_CONFIGURED"
	errorCodeConflict                = "CONFLICT"
)

const (
	errorMessageSchedulerAlreadyRunning = "Scheduler is already running"
	errorMessageSchedulerNotRunning     = "Scheduler is not running"
	errorMessageFailedToStartScheduler  = "Failed to start scheduler"
	errorMessageFailedToStopScheduler   = "Failed to stop scheduler"
	errorMessageGatewayNotConfigured    = "Gateway connection settings are not configured"
)

const (
	schedulerMessageStarted = "Scheduler started successfully"
	schedulerMessageStopped = "Scheduler stopped successfully"
)

type Handler struct {
	service *service.Service
	logger  *zap.Logger
}

func NewHandler(service *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type SchedulerResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Tasks   map[string]bool `json:"tasks,omitempty"`
}

type HealthResponse struct {
	Status               string          `json:"status"`
	Timestamp            time.Time       `json:"timestamp"`
	DatabaseStatus       string          `json:"database_status,omitempty"`
	RedisStatus          string          `json:"redis_status,omitempty"`
	SchedulerRunning     bool            `json:"scheduler_running"`
	SchedulerTasks       map[string]bool `json:"scheduler_tasks,omitempty"`
	CircuitBreakerState  string          `json:"circuit_breaker_state,omitempty"`
	CircuitBreakerStatus string          `json:"circuit_breaker_status,omitempty"`
}

func (h *Handler) StartScheduler(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	err := h.service.Scheduler.Start()
	if err != nil {
		if errors.Is(err, scheduler.ErrSchedulerAlreadyRunning) {
			h.sendError(w, r, http.StatusConflict, errorCodeSchedulerAlreadyRunning, errorMessageSchedulerAlreadyRunning)
			return
		}

		h.logger.Error("Failed to start scheduler",
			zap.String("request_id", requestID),
			zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, errorMessageFailedToStartScheduler)
		return
	}

	render.JSON(w, r, SchedulerResponse{
		Status:  "started",
		Message: schedulerMessageStarted,
		Tasks:   h.service.Scheduler.Status(),
	})
}

func (h *Handler) StopScheduler(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	err := h.service.Scheduler.Stop()
	if err != nil {
		if errors.Is(err, scheduler.ErrSchedulerNotRunning) {
			h.sendError(w, r, http.StatusConflict, errorCodeSchedulerNotRunning, errorMessageSchedulerNotRunning)
			return
		}

		h.logger.Error("Failed to stop scheduler",
			zap.String("request_id", requestID),
			zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, errorMessageFailedToStopScheduler)
		return
	}

	render.JSON(w, r, SchedulerResponse{
		Status:  "stopped",
		Message: schedulerMessageStopped,
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := h.service.Health.GetHealth()

	response := HealthResponse{
		Status:               string(health.Status),
		Timestamp:            time.Now(),
		DatabaseStatus:       string(health.DatabaseStatus),
		RedisStatus:          string(health.RedisStatus),
		SchedulerRunning:     health.SchedulerRunning,
		SchedulerTasks:       health.SchedulerTasks,
		CircuitBreakerState:  string(health.CircuitBreakerState),
		CircuitBreakerStatus: health.CircuitBreakerStatus,
	}

	if health.Status == service.StatusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	render.JSON(w, r, response)
}

func (h *Handler) sendError(w http.ResponseWriter, r *http.Request, statusCode int, errorCode, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Error:     errorCode,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// idParam reads the numeric {id} path parameter.
func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
