package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/entretech/wanotify/internal/gateway"
	"github.com/entretech/wanotify/internal/models"
	"github.com/entretech/wanotify/internal/repository"
)

// ErrGatewayNotConfigured is returned when a gateway call is requested
// before the connection settings are filled in.
var ErrGatewayNotConfigured = errors.New("gateway is not configured")

const (
	settingsCacheKey = "wanotify:settings"
	settingsCacheTTL = 5 * time.Minute
)

type settingsService struct {
	repo        repository.Repository
	redisClient *redis.Client
	gateway     gateway.Client
	logger      *zap.Logger
}

func NewSettingsService(
	repo repository.Repository,
	redisClient *redis.Client,
	gw gateway.Client,
	logger *zap.Logger,
) SettingsService {
	return &settingsService{
		repo:        repo,
		redisClient: redisClient,
		gateway:     gw,
		logger:      logger,
	}
}

// Get serves settings from the cache, falling back to the database. A cache
// outage degrades to direct reads instead of failing the caller.
func (s *settingsService) Get(ctx context.Context) (*models.Settings, error) {
	cached, err := s.redisClient.Get(ctx, settingsCacheKey).Bytes()
	if err == nil {
		var settings models.Settings
		if err := json.Unmarshal(cached, &settings); err == nil {
			return &settings, nil
		}
		s.logger.Warn("Discarding undecodable cached settings")
	} else if !errors.Is(err, redis.Nil) {
		s.logger.Warn("Settings cache read failed", zap.Error(err))
	}

	settings, err := s.repo.Settings().Get()
	if err != nil {
		return nil, err
	}

	s.cache(ctx, settings)
	return settings, nil
}

func (s *settingsService) cache(ctx context.Context, settings *models.Settings) {
	data, err := json.Marshal(settings)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, settingsCacheKey, data, settingsCacheTTL).Err(); err != nil {
		s.logger.Warn("Settings cache write failed", zap.Error(err))
	}
}

func (s *settingsService) Save(ctx context.Context, settings *models.Settings) error {
	if err := s.repo.Settings().Save(settings); err != nil {
		return err
	}

	// Drop the stale entry so the next read sees the new values.
	if err := s.redisClient.Del(ctx, settingsCacheKey).Err(); err != nil {
		s.logger.Warn("Settings cache invalidation failed", zap.Error(err))
	}

	s.logger.Info("Settings saved",
		zap.Bool("enabled", settings.Enabled),
		zap.String("instance", settings.InstanceName))
	return nil
}

func (s *settingsService) Conn(ctx context.Context) (gateway.Conn, *models.Settings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return gateway.Conn{}, nil, err
	}
	if !settings.Configured() {
		return gateway.Conn{}, settings, ErrGatewayNotConfigured
	}

	return gateway.Conn{
		BaseURL:  settings.APIBaseURL,
		Instance: settings.InstanceName,
		APIKey:   settings.APIKey,
	}, settings, nil
}

func (s *settingsService) TestConnection(ctx context.Context) (string, error) {
	conn, _, err := s.Conn(ctx)
	if err != nil {
		return "", err
	}

	state, err := s.gateway.ConnectionState(ctx, conn)
	if err != nil {
		return "", fmt.Errorf("connection test failed: %w", err)
	}

	s.logger.Info("Gateway connection tested", zap.String("state", state))
	return state, nil
}

func (s *settingsService) ConfigureWebhook(ctx context.Context, publicURL string) error {
	conn, _, err := s.Conn(ctx)
	if err != nil {
		return err
	}

	if err := s.gateway.SetWebhook(ctx, conn, publicURL); err != nil {
		return fmt.Errorf("failed to configure webhook: %w", err)
	}

	s.logger.Info("Gateway webhook configured", zap.String("url", publicURL))
	return nil
}

func (s *settingsService) FetchGroups(ctx context.Context) ([]gateway.Group, error) {
	conn, _, err := s.Conn(ctx)
	if err != nil {
		return nil, err
	}

	return s.gateway.FetchGroups(ctx, conn)
}
