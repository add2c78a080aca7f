package service

import (
	"context"
	"time"

	"github.com/entretech/wanotify/internal/gateway"
	"github.com/entretech/wanotify/internal/models"
	"github.com/entretech/wanotify/internal/repository"
)

// EnqueueRequest describes one outbound message to be written to the log.
type EnqueueRequest struct {
	Recipient     models.Recipient
	Message       string
	Kind          models.MessageKind
	MediaMimetype string
	MediaFilename string
	MediaCaption  string
	// MediaData is the payload encoded as base64.
	MediaData     string
	RefDocType    string
	RefDocID      string
	RuleName      string
	RecipientName string
	ScheduledAt   *time.Time
}

type SettingsService interface {
	// Get returns the runtime settings, served from cache when fresh.
	Get(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, s *models.Settings) error

	// Conn builds a gateway connection from current settings. It fails when
	// the gateway is not configured.
	Conn(ctx context.Context) (gateway.Conn, *models.Settings, error)

	TestConnection(ctx context.Context) (string, error)
	ConfigureWebhook(ctx context.Context, publicURL string) error
	FetchGroups(ctx context.Context) ([]gateway.Group, error)
}

type DeliveryService interface {
	// Enqueue validates and records an outbound message as Pending.
	Enqueue(ctx context.Context, req EnqueueRequest) (*models.MessageLog, error)

	// ProcessDue sends the due batch, honoring rate limits and pacing.
	ProcessDue(ctx context.Context) error

	// Deliver attempts one message end to end.
	Deliver(ctx context.Context, id int64) error

	// RecoverStuck requeues retriable failures and stuck logs.
	RecoverStuck(ctx context.Context) error

	// Cleanup deletes finished logs past the retention window.
	Cleanup(ctx context.Context) error

	GetMessage(id int64) (*models.MessageLog, error)
	ListMessages(filter repository.ListFilter) ([]*models.MessageLog, int64, error)
	Stats() (*models.MessageStats, error)
	CancelMessage(id int64) error

	// RetryMessage requeues a failed message and attempts delivery
	// immediately.
	RetryMessage(ctx context.Context, id int64) error

	CircuitBreakerStatus() (state gateway.BreakerState, requests, failures uint32)
}

type RuleService interface {
	// HandleEvent evaluates notification rules against a document event and
	// enqueues the resulting messages.
	HandleEvent(ctx context.Context, event models.DocumentEvent) error

	ListRules() ([]*models.NotificationRule, error)

	// SaveRule persists a rule and invalidates the rule cache.
	SaveRule(ctx context.Context, rule *models.NotificationRule) error
}

// InboundMessage is a plain-text reply extracted from a gateway webhook.
type InboundMessage struct {
	// From is the sender address with the JID suffix stripped.
	From      string
	Text      string
	Timestamp time.Time
}

type ApprovalService interface {
	// HandleEvent sends approval requests for templates matching the event.
	HandleEvent(ctx context.Context, event models.DocumentEvent) error

	// SendManual sends one approval request outside of event triggers. An
	// empty phone falls back to the template's recipient resolution.
	SendManual(ctx context.Context, templateName, refDocType, refDocID, phone string) error

	// ProcessResponse matches an inbound reply to a pending request and
	// executes the chosen action.
	ProcessResponse(ctx context.Context, msg InboundMessage) error

	// ExpireOld marks overdue pending requests Expired.
	ExpireOld(ctx context.Context) error

	GetRequest(id int64) (*models.ApprovalRequest, error)
	ListRequests(refDocType, refDocID string, status models.ApprovalStatus, offset, limit int) ([]*models.ApprovalRequest, int64, error)
}

type WebhookService interface {
	// HandleInbound parses a raw gateway webhook payload and routes any
	// usable reply to the approval flow. It never fails the caller for
	// payloads that are merely irrelevant.
	HandleInbound(ctx context.Context, payload []byte) error
}

type SchedulerService interface {
	Start() error
	Stop() error
	IsRunning() bool

	// Status reports each background task by name.
	Status() map[string]bool
}

type HealthService interface {
	GetHealth() *HealthStatus
}
