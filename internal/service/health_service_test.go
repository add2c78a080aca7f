package service_test

import (
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/entretech/wanotify/internal/gateway"
	"github.com/entretech/wanotify/internal/repository/mocks"
	"github.com/entretech/wanotify/internal/service"
	svcmocks "github.com/entretech/wanotify/internal/service/mocks"
)

func TestHealthService_GetHealth_Unhealthy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockRepository(ctrl)
	mockRepo.EXPECT().Ping().Return(assert.AnError)

	mockScheduler := svcmocks.NewMockSchedulerService(ctrl)
	mockScheduler.EXPECT().IsRunning().Return(true)
	mockScheduler.EXPECT().Status().Return(map[string]bool{"process-pending": true})

	mockDelivery := svcmocks.NewMockDeliveryService(ctrl)
	mockDelivery.EXPECT().CircuitBreakerStatus().
		Return(gateway.BreakerClosed, uint32(0), uint32(0))

	redisClient := redis.NewClient(&redis.Options{
		Addr: "localhost:9999", // Non-existent server for testing
	})

	svc := service.NewHealthService(mockRepo, redisClient, mockScheduler, mockDelivery)

	health := svc.GetHealth()
	assert.Equal(t, service.StatusUnhealthy, health.Status)
	assert.Equal(t, service.ComponentDisconnected, health.DatabaseStatus)
	assert.Equal(t, service.ComponentDisconnected, health.RedisStatus)
	assert.True(t, health.SchedulerRunning)
	assert.Equal(t, "No requests yet", health.CircuitBreakerStatus)
}

func TestHealthService_GetHealth_BreakerOpenDegrades(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockRepository(ctrl)
	mockRepo.EXPECT().Ping().Return(assert.AnError)

	mockScheduler := svcmocks.NewMockSchedulerService(ctrl)
	mockScheduler.EXPECT().IsRunning().Return(false)
	mockScheduler.EXPECT().Status().Return(map[string]bool{})

	mockDelivery := svcmocks.NewMockDeliveryService(ctrl)
	mockDelivery.EXPECT().CircuitBreakerStatus().
		Return(gateway.BreakerOpen, uint32(10), uint32(8))

	redisClient := redis.NewClient(&redis.Options{
		Addr: "localhost:9999", // Non-existent server for testing
	})

	svc := service.NewHealthService(mockRepo, redisClient, mockScheduler, mockDelivery)

	health := svc.GetHealth()
	// An open breaker overrides the connectivity verdict.
	assert.Equal(t, service.StatusDegraded, health.Status)
	assert.Equal(t, gateway.BreakerOpen, health.CircuitBreakerState)
	assert.Contains(t, health.CircuitBreakerStatus, "Requests: 10")
}
