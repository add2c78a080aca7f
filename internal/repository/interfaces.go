package repository

import (
	"time"

	"github.com/entretech/wanotify/internal/models"
)

// Repository interface defines all repository operations.
type Repository interface {
	// Ping checks database connectivity
	Ping() error

	// MessageLog returns the message log repository
	MessageLog() MessageLogRepository

	// Approval returns the approval request repository
	Approval() ApprovalRepository

	// Template returns the approval template repository
	Template() TemplateRepository

	// Rule returns the notification rule repository
	Rule() RuleRepository

	// Settings returns the settings repository
	Settings() SettingsRepository
}

// ListFilter narrows and pages message log listings.
type ListFilter struct {
	Status     models.MessageStatus
	Phone      string
	RefDocType string
	RefDocID   string
	Offset     int
	Limit      int
}

// MessageLogRepository interface defines message log operations.
type MessageLogRepository interface {
	Create(log *models.MessageLog) error
	GetByID(id int64) (*models.MessageLog, error)

	// GetDue returns sendable logs: Pending or Queued, with no schedule or a
	// schedule at or before now, oldest first.
	GetDue(limit int, now time.Time) ([]*models.MessageLog, error)

	// ClaimSending flips a Pending or Queued log to Sending. It returns false
	// when another worker already claimed the log or it reached a terminal
	// status in the meantime.
	ClaimSending(id int64) (bool, error)

	MarkSent(id int64, gatewayID, gatewayRaw string, sentAt time.Time) error
	MarkFailed(id int64, errorMsg string) error

	// Requeue moves a log back to Pending and clears its error message.
	Requeue(id int64) error
	ForceFail(id int64, errorMsg string) error

	// GetFailedForRetry returns Failed logs under the retry ceiling whose
	// last update is at or before cutoff.
	GetFailedForRetry(maxRetries int, cutoff time.Time, limit int) ([]*models.MessageLog, error)

	// GetStaleQueued returns Pending or Queued logs untouched since cutoff.
	GetStaleQueued(cutoff time.Time, limit int) ([]*models.MessageLog, error)

	// GetStaleSending returns logs stuck in Sending since before cutoff.
	GetStaleSending(cutoff time.Time) ([]*models.MessageLog, error)

	// Cancel marks a non-terminal log Cancelled; false if it was terminal.
	Cancel(id int64) (bool, error)

	ExistsForRule(ruleName, refDocType, refDocID string) (bool, error)

	// DeleteFinishedBefore removes terminal logs older than cutoff.
	DeleteFinishedBefore(cutoff time.Time) (int64, error)

	List(filter ListFilter) ([]*models.MessageLog, int64, error)
	Stats() (*models.MessageStats, error)
}

// ApprovalRepository interface defines approval request operations.
type ApprovalRepository interface {
	Create(req *models.ApprovalRequest) error
	GetByID(id int64) (*models.ApprovalRequest, error)

	// FindOpenByFormattedPhone returns Pending requests for an exactly
	// matching normalized phone, most recent first. Expired-but-Pending
	// requests are included so the caller can flip and report them.
	FindOpenByFormattedPhone(phone string) ([]*models.ApprovalRequest, error)

	// FindOpenByRawPhone matches against the phone as originally captured.
	FindOpenByRawPhone(phone string) ([]*models.ApprovalRequest, error)

	// FindOpenBySuffix matches on the last digits of the normalized phone.
	FindOpenBySuffix(suffix string) ([]*models.ApprovalRequest, error)

	// FindRecentlyResolved returns the most recent non-Pending request for
	// the phone resolved after since, if any.
	FindRecentlyResolved(phone string, since time.Time) (*models.ApprovalRequest, error)

	PendingForDocument(refDocType, refDocID string) ([]*models.ApprovalRequest, error)

	// CancelPendingForDocument cancels every Pending request for a document
	// with the given reason, and returns how many were cancelled.
	CancelPendingForDocument(refDocType, refDocID, reason string) (int64, error)

	// CancelSiblings cancels all other Pending requests for the same
	// document, and returns how many were cancelled.
	CancelSiblings(refDocType, refDocID string, keepID int64) (int64, error)

	RecordResponse(id int64, status models.ApprovalStatus, option int, text, from string, at time.Time) error
	MarkProcessed(id int64, actionExecuted string) error
	MarkError(id int64, errorMsg string) error

	// ExpirePending flips Pending requests past their expiry to Expired.
	ExpirePending(now time.Time) (int64, error)

	// ExpireByID flips one Pending request to Expired, leaving settled
	// requests untouched.
	ExpireByID(id int64) error

	LinkMessageLog(id, messageLogID int64) error
	List(refDocType, refDocID string, status models.ApprovalStatus, offset, limit int) ([]*models.ApprovalRequest, int64, error)
}

// TemplateRepository interface defines approval template operations.
type TemplateRepository interface {
	GetByName(name string) (*models.ApprovalTemplate, error)
	ListForEvent(docType string, event models.TriggerEvent) ([]*models.ApprovalTemplate, error)
	ListForWorkflowState(docType, state string) ([]*models.ApprovalTemplate, error)
	List() ([]*models.ApprovalTemplate, error)
	Save(tpl *models.ApprovalTemplate) error
}

// RuleRepository interface defines notification rule operations.
type RuleRepository interface {
	GetByName(name string) (*models.NotificationRule, error)
	ListForEvent(docType string, event models.TriggerEvent) ([]*models.NotificationRule, error)
	List() ([]*models.NotificationRule, error)
	Save(rule *models.NotificationRule) error
}

// SettingsRepository interface defines runtime settings operations.
type SettingsRepository interface {
	Get() (*models.Settings, error)
	Save(s *models.Settings) error
}
