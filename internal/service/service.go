package service

import (
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/entretech/wanotify/internal/config"
	"github.com/entretech/wanotify/internal/document"
	"github.com/entretech/wanotify/internal/gateway"
	"github.com/entretech/wanotify/internal/repository"
)

type Service struct {
	Settings  SettingsService
	Delivery  DeliveryService
	Rules     RuleService
	Approvals ApprovalService
	Webhook   WebhookService
	Scheduler SchedulerService
	Health    HealthService

	// Executor is exposed so the binary can register named action handlers
	// before the scheduler starts.
	Executor *ActionExecutor
}

func NewService(
	cfg *config.Config,
	repo repository.Repository,
	redisClient *redis.Client,
	documents document.Store,
	logger *zap.Logger,
) *Service {
	gatewayClient := gateway.NewHTTPClient(&cfg.Gateway, logger)
	files := NewHTTPFileSource(time.Duration(cfg.Gateway.Timeout) * time.Second)

	settingsService := NewSettingsService(repo, redisClient, gatewayClient, logger)
	deliveryService := NewDeliveryService(
		repo, settingsService, gatewayClient, documents,
		gatewayClient.Breaker(), cfg.Scheduler.BatchSize, logger)
	ruleService := NewRuleService(
		repo, settingsService, deliveryService, documents, files, redisClient, logger)
	executor := NewActionExecutor(documents, logger)
	approvalService := NewApprovalService(
		repo, settingsService, deliveryService, documents, executor, logger)
	webhookService := NewWebhookService(approvalService, logger)
	schedulerService := NewSchedulerService(cfg, deliveryService, approvalService, logger)
	healthService := NewHealthService(repo, redisClient, schedulerService, deliveryService)

	return &Service{
		Settings:  settingsService,
		Delivery:  deliveryService,
		Rules:     ruleService,
		Approvals: approvalService,
		Webhook:   webhookService,
		Scheduler: schedulerService,
		Health:    healthService,
		Executor:  executor,
	}
}
