package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/entretech/wanotify/internal/gateway"
	"github.com/entretech/wanotify/internal/repository"
)

type OverallStatus string

const (
	StatusHealthy   OverallStatus = "healthy"
	StatusDegraded  OverallStatus = "degraded"
	StatusUnhealthy OverallStatus = "unhealthy"
)

type ComponentStatus string

const (
	ComponentConnected    ComponentStatus = "connected"
	ComponentDisconnected ComponentStatus = "disconnected"
)

type HealthStatus struct {
	Status               OverallStatus        `json:"status"`
	DatabaseStatus       ComponentStatus      `json:"database_status"`
	RedisStatus          ComponentStatus      `json:"redis_status"`
	SchedulerRunning     bool                 `json:"scheduler_running"`
	SchedulerTasks       map[string]bool      `json:"scheduler_tasks"`
	CircuitBreakerState  gateway.BreakerState `json:"circuit_breaker_state"`
	CircuitBreakerStatus string               `json:"circuit_breaker_status"`
}

type healthService struct {
	repo        repository.Repository
	redisClient *redis.Client
	scheduler   SchedulerService
	delivery    DeliveryService
}

func NewHealthService(
	repo repository.Repository,
	redisClient *redis.Client,
	scheduler SchedulerService,
	delivery DeliveryService,
) HealthService {
	return &healthService{
		repo:        repo,
		redisClient: redisClient,
		scheduler:   scheduler,
		delivery:    delivery,
	}
}

func (s *healthService) GetHealth() *HealthStatus {
	status := &HealthStatus{
		Status:           StatusHealthy,
		SchedulerRunning: s.scheduler.IsRunning(),
		SchedulerTasks:   s.scheduler.Status(),
	}

	status.DatabaseStatus = s.checkDatabaseHealth()
	status.RedisStatus = s.checkRedisHealth()

	state, requests, failures := s.delivery.CircuitBreakerStatus()
	status.CircuitBreakerState = state
	if requests > 0 {
		failureRate := float64(failures) / float64(requests) * 100
		status.CircuitBreakerStatus = fmt.Sprintf("Requests: %d, Failures: %d (%.1f%%)", requests, failures, failureRate)
	} else {
		status.CircuitBreakerStatus = "No requests yet"
	}

	if status.DatabaseStatus != ComponentConnected || status.RedisStatus != ComponentConnected {
		status.Status = StatusUnhealthy
	}

	if state == gateway.BreakerOpen {
		status.Status = StatusDegraded
	}

	return status
}

func (s *healthService) checkDatabaseHealth() ComponentStatus {
	if err := s.repo.Ping(); err != nil {
		return ComponentDisconnected
	}
	return ComponentConnected
}

func (s *healthService) checkRedisHealth() ComponentStatus {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		return ComponentDisconnected
	}
	return ComponentConnected
}
