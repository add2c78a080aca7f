package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/entretech/wanotify/internal/document"
	"github.com/entretech/wanotify/internal/gateway"
	"github.com/entretech/wanotify/internal/models"
	"github.com/entretech/wanotify/internal/phone"
	"github.com/entretech/wanotify/internal/repository"
)

// Messages stuck in Sending longer than this are treated as crashed sends.
const stuckSendingAfter = 10 * time.Minute

// sendPacing spaces out consecutive gateway calls within one batch.
const sendPacing = 500 * time.Millisecond

type deliveryService struct {
	repo      repository.Repository
	settings  SettingsService
	gateway   gateway.Client
	documents document.Store
	breaker   *gateway.CircuitBreaker
	batchSize int
	logger    *zap.Logger
}

func NewDeliveryService(
	repo repository.Repository,
	settings SettingsService,
	gw gateway.Client,
	documents document.Store,
	breaker *gateway.CircuitBreaker,
	batchSize int,
	logger *zap.Logger,
) DeliveryService {
	if batchSize <= 0 {
		batchSize = 50
	}

	return &deliveryService{
		repo:      repo,
		settings:  settings,
		gateway:   gw,
		documents: documents,
		breaker:   breaker,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Enqueue validates the recipient, normalizes phone targets and records the
// message as Pending. When queueing is disabled an immediate delivery is
// attempted.
func (s *deliveryService) Enqueue(ctx context.Context, req EnqueueRequest) (*models.MessageLog, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	formatted, err := s.formatAddress(req.Recipient, settings)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Message) == "" && req.Kind == models.MessageKindText {
		return nil, errors.New("message text is empty")
	}

	log := &models.MessageLog{
		Phone:          req.Recipient.Address,
		FormattedPhone: formatted,
		Message:        req.Message,
		Kind:           req.Kind,
		Status:         models.MessageStatusPending,
	}
	if req.Kind == "" {
		log.Kind = models.MessageKindText
	}
	if req.MediaMimetype != "" {
		log.MediaMimetype = sql.NullString{String: req.MediaMimetype, Valid: true}
	}
	if req.MediaFilename != "" {
		log.MediaFilename = sql.NullString{String: req.MediaFilename, Valid: true}
	}
	if req.MediaCaption != "" {
		log.MediaCaption = sql.NullString{String: req.MediaCaption, Valid: true}
	}
	if req.MediaData != "" {
		log.MediaData = sql.NullString{String: req.MediaData, Valid: true}
		log.MediaSize = sql.NullInt64{Int64: int64(len(req.MediaData)), Valid: true}
	}
	if req.RefDocType != "" {
		log.RefDocType = sql.NullString{String: req.RefDocType, Valid: true}
	}
	if req.RefDocID != "" {
		log.RefDocID = sql.NullString{String: req.RefDocID, Valid: true}
	}
	if req.RuleName != "" {
		log.RuleName = sql.NullString{String: req.RuleName, Valid: true}
	}
	if req.RecipientName != "" {
		log.RecipientName = sql.NullString{String: req.RecipientName, Valid: true}
	}
	if req.ScheduledAt != nil {
		log.ScheduledAt = sql.NullTime{Time: *req.ScheduledAt, Valid: true}
	}

	if err := s.repo.MessageLog().Create(log); err != nil {
		return nil, err
	}

	s.logger.Info("Message enqueued",
		zap.Int64("id", log.ID),
		zap.String("to", formatted),
		zap.String("kind", string(log.Kind)))

	if !settings.QueueEnabled && req.ScheduledAt == nil {
		if err := s.Deliver(ctx, log.ID); err != nil {
			s.logger.Error("Immediate delivery failed", zap.Int64("id", log.ID), zap.Error(err))
		}
	}

	return log, nil
}

func (s *deliveryService) formatAddress(r models.Recipient, settings *models.Settings) (string, error) {
	if r.Kind == models.RecipientKindGroup {
		if !phone.IsGroupAddress(r.Address) {
			return "", fmt.Errorf("invalid group address %q", r.Address)
		}
		return r.Address, nil
	}

	cfg := phone.Config{
		CountryCode:   settings.DefaultCountryCode,
		LocalLength:   settings.LocalNumberLength,
		LocalPrefixes: settings.LocalPrefixes,
	}

	formatted, err := phone.Normalize(r.Address, cfg)
	if err != nil {
		return "", fmt.Errorf("invalid recipient %q: %w", r.Address, err)
	}
	return formatted, nil
}

// ProcessDue sends the due batch. Disabled or unconfigured gateways skip the
// run entirely, leaving messages Pending.
func (s *deliveryService) ProcessDue(ctx context.Context) error {
	conn, settings, err := s.settings.Conn(ctx)
	if errors.Is(err, ErrGatewayNotConfigured) {
		s.logger.Debug("Skipping delivery run, gateway not configured")
		return nil
	}
	if err != nil {
		return err
	}
	if !settings.Enabled {
		s.logger.Debug("Skipping delivery run, notifications disabled")
		return nil
	}

	due, err := s.repo.MessageLog().GetDue(s.batchSize, time.Now())
	if err != nil {
		return fmt.Errorf("failed to load due messages: %w", err)
	}
	if len(due) == 0 {
		return nil
	}

	if settings.RateLimiting && settings.MessagesPerMinute > 0 && len(due) > settings.MessagesPerMinute {
		due = due[:settings.MessagesPerMinute]
	}

	s.logger.Info("Processing due messages", zap.Int("count", len(due)))

	limiter := rate.NewLimiter(rate.Every(sendPacing), 1)
	for _, log := range due {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		if err := s.deliver(ctx, conn, settings, log); err != nil {
			s.logger.Error("Failed to deliver message",
				zap.Int64("id", log.ID),
				zap.Error(err))
		}
	}

	return nil
}

// Deliver attempts one message end to end, re-reading it first.
func (s *deliveryService) Deliver(ctx context.Context, id int64) error {
	conn, settings, err := s.settings.Conn(ctx)
	if err != nil {
		return err
	}
	if !settings.Enabled {
		return errors.New("notifications are disabled")
	}

	log, err := s.repo.MessageLog().GetByID(id)
	if err != nil {
		return err
	}

	return s.deliver(ctx, conn, settings, log)
}

func (s *deliveryService) deliver(ctx context.Context, conn gateway.Conn, settings *models.Settings, log *models.MessageLog) error {
	claimed, err := s.repo.MessageLog().ClaimSending(log.ID)
	if err != nil {
		return err
	}
	if !claimed {
		// Another worker got there first, or the log is already settled.
		s.logger.Debug("Message not claimable", zap.Int64("id", log.ID))
		return nil
	}

	result, sendErr := s.send(ctx, conn, log)
	if sendErr != nil {
		if err := s.repo.MessageLog().MarkFailed(log.ID, sendErr.Error()); err != nil {
			s.logger.Error("Failed to record delivery failure", zap.Int64("id", log.ID), zap.Error(err))
		}

		s.logger.Error("Message delivery failed",
			zap.Int64("id", log.ID),
			zap.String("to", log.FormattedPhone),
			zap.Int("retryCount", log.RetryCount),
			zap.Error(sendErr))
		return sendErr
	}

	sentAt := time.Now()
	if err := s.repo.MessageLog().MarkSent(log.ID, result.MessageID, result.Raw, sentAt); err != nil {
		return fmt.Errorf("failed to mark message sent: %w", err)
	}

	s.logger.Info("Message sent",
		zap.Int64("id", log.ID),
		zap.String("to", log.FormattedPhone),
		zap.String("gatewayID", result.MessageID))

	s.recordDeliveryComment(ctx, log, sentAt)
	return nil
}

func (s *deliveryService) send(ctx context.Context, conn gateway.Conn, log *models.MessageLog) (*gateway.SendResult, error) {
	if log.Kind == models.MessageKindText {
		return s.gateway.SendText(ctx, conn, log.FormattedPhone, log.Message)
	}

	if !log.MediaData.Valid {
		return nil, errors.New("media message has no payload")
	}

	return s.gateway.SendMedia(ctx, conn, gateway.MediaMessage{
		Number:    log.FormattedPhone,
		MediaType: mediaTypeFor(log.MediaMimetype.String),
		MimeType:  log.MediaMimetype.String,
		Caption:   log.MediaCaption.String,
		FileName:  log.MediaFilename.String,
		Data:      log.MediaData.String,
	})
}

// recordDeliveryComment leaves an audit trail on the source document.
func (s *deliveryService) recordDeliveryComment(ctx context.Context, log *models.MessageLog, sentAt time.Time) {
	if s.documents == nil || !log.RefDocType.Valid || !log.RefDocID.Valid {
		return
	}

	comment := fmt.Sprintf("WhatsApp message sent to %s at %s",
		phone.FormatForDisplay(log.FormattedPhone), sentAt.Format("2006-01-02 15:04"))
	if err := s.documents.AppendComment(ctx, log.RefDocType.String, log.RefDocID.String, comment); err != nil {
		s.logger.Warn("Failed to add delivery comment",
			zap.String("doctype", log.RefDocType.String),
			zap.String("docID", log.RefDocID.String),
			zap.Error(err))
	}
}

// RecoverStuck runs the recovery sweeps: retriable failures go back to
// Pending, stale queued logs get a nudge, and crashed sends are requeued or
// closed out depending on their retry budget.
func (s *deliveryService) RecoverStuck(ctx context.Context) error {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}

	retryDelay := time.Duration(settings.RetryDelayMinutes) * time.Minute
	cutoff := time.Now().Add(-retryDelay)
	logs := s.repo.MessageLog()

	failed, err := logs.GetFailedForRetry(settings.MaxRetries, cutoff, s.batchSize)
	if err != nil {
		return fmt.Errorf("failed to load retriable messages: %w", err)
	}
	for _, log := range failed {
		if err := logs.Requeue(log.ID); err != nil {
			s.logger.Error("Failed to requeue message", zap.Int64("id", log.ID), zap.Error(err))
			continue
		}
		s.logger.Info("Requeued failed message",
			zap.Int64("id", log.ID),
			zap.Int("retryCount", log.RetryCount))
	}

	stale, err := logs.GetStaleQueued(cutoff, s.batchSize)
	if err != nil {
		return fmt.Errorf("failed to load stale queued messages: %w", err)
	}
	for _, log := range stale {
		// Scheduled messages are not stale before their time.
		if log.ScheduledAt.Valid && log.ScheduledAt.Time.After(time.Now()) {
			continue
		}
		if err := logs.Requeue(log.ID); err != nil {
			s.logger.Error("Failed to requeue stale message", zap.Int64("id", log.ID), zap.Error(err))
		}
	}

	stuck, err := logs.GetStaleSending(time.Now().Add(-stuckSendingAfter))
	if err != nil {
		return fmt.Errorf("failed to load stuck messages: %w", err)
	}
	for _, log := range stuck {
		if log.RetryCount < settings.MaxRetries {
			if err := logs.Requeue(log.ID); err != nil {
				s.logger.Error("Failed to requeue stuck message", zap.Int64("id", log.ID), zap.Error(err))
			}
			continue
		}
		if err := logs.ForceFail(log.ID, "send attempt did not complete and retry limit is reached"); err != nil {
			s.logger.Error("Failed to close out stuck message", zap.Int64("id", log.ID), zap.Error(err))
		}
	}

	return nil
}

// Cleanup deletes finished logs past the retention window. A non-positive
// retention keeps logs forever.
func (s *deliveryService) Cleanup(ctx context.Context) error {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	if settings.LogRetentionDays <= 0 {
		return nil
	}

	cutoff := time.Now().AddDate(0, 0, -settings.LogRetentionDays)
	deleted, err := s.repo.MessageLog().DeleteFinishedBefore(cutoff)
	if err != nil {
		return err
	}

	if deleted > 0 {
		s.logger.Info("Cleaned up old message logs",
			zap.Int64("deleted", deleted),
			zap.Int("retentionDays", settings.LogRetentionDays))
	}
	return nil
}

func (s *deliveryService) GetMessage(id int64) (*models.MessageLog, error) {
	return s.repo.MessageLog().GetByID(id)
}

func (s *deliveryService) ListMessages(filter repository.ListFilter) ([]*models.MessageLog, int64, error) {
	return s.repo.MessageLog().List(filter)
}

func (s *deliveryService) Stats() (*models.MessageStats, error) {
	return s.repo.MessageLog().Stats()
}

func (s *deliveryService) CancelMessage(id int64) error {
	ok, err := s.repo.MessageLog().Cancel(id)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("message is already sent or cancelled")
	}

	s.logger.Info("Message cancelled", zap.Int64("id", id))
	return nil
}

// RetryMessage requeues a failed message, clearing its recorded error, and
// attempts the delivery right away rather than waiting for the next sweep.
func (s *deliveryService) RetryMessage(ctx context.Context, id int64) error {
	log, err := s.repo.MessageLog().GetByID(id)
	if err != nil {
		return err
	}
	if log.Status != models.MessageStatusFailed {
		return fmt.Errorf("only failed messages can be retried, status is %s", log.Status)
	}

	if err := s.repo.MessageLog().Requeue(id); err != nil {
		return err
	}

	if err := s.Deliver(ctx, id); err != nil {
		// The message stays queued for the pending sweep.
		s.logger.Error("Immediate retry delivery failed", zap.Int64("id", id), zap.Error(err))
	}

	return nil
}

func (s *deliveryService) CircuitBreakerStatus() (gateway.BreakerState, uint32, uint32) {
	if s.breaker == nil {
		return gateway.BreakerClosed, 0, 0
	}
	state := s.breaker.GetState()
	requests, failures := s.breaker.GetCounts()
	return state, requests, failures
}

func mediaTypeFor(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return "image"
	case strings.HasPrefix(mimeType, "video/"):
		return "video"
	case strings.HasPrefix(mimeType, "audio/"):
		return "audio"
	default:
		return "document"
	}
}
