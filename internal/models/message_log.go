// Package models defines data structures used throughout the application.
package models

import (
	"database/sql"
	"time"
)

type MessageStatus string

const (
	MessageStatusPending   MessageStatus = "Pending"
	MessageStatusQueued    MessageStatus = "Queued"
	MessageStatusSending   MessageStatus = "Sending"
	MessageStatusSent      MessageStatus = "Sent"
	MessageStatusFailed    MessageStatus = "Failed"
	MessageStatusCancelled MessageStatus = "Cancelled"
)

// IsTerminal reports whether no further delivery attempt may mutate the log.
func (s MessageStatus) IsTerminal() bool {
	return s == MessageStatusSent || s == MessageStatusCancelled
}

type MessageKind string

const (
	MessageKindText     MessageKind = "Text"
	MessageKindMedia    MessageKind = "Media"
	MessageKindDocument MessageKind = "Document"
)

// MessageLog represents one outbound message attempt in the database.
type MessageLog struct {
	ID             int64          `db:"id" json:"id"`
	Phone          string         `db:"phone" json:"phone"`
	FormattedPhone string         `db:"formatted_phone" json:"formatted_phone"`
	Message        string         `db:"message" json:"message"`
	Kind           MessageKind    `db:"kind" json:"kind"`
	MediaMimetype  sql.NullString `db:"media_mimetype" json:"media_mimetype,omitempty"`
	MediaFilename  sql.NullString `db:"media_filename" json:"media_filename,omitempty"`
	MediaSize      sql.NullInt64  `db:"media_size" json:"media_size,omitempty"`
	MediaCaption   sql.NullString `db:"media_caption" json:"media_caption,omitempty"`
	MediaData      sql.NullString `db:"media_data" json:"-"`
	RefDocType     sql.NullString `db:"ref_doctype" json:"ref_doctype,omitempty"`
	RefDocID       sql.NullString `db:"ref_doc_id" json:"ref_doc_id,omitempty"`
	RuleName       sql.NullString `db:"rule_name" json:"rule_name,omitempty"`
	RecipientName  sql.NullString `db:"recipient_name" json:"recipient_name,omitempty"`
	ScheduledAt    sql.NullTime   `db:"scheduled_at" json:"scheduled_at,omitempty"`
	Status         MessageStatus  `db:"status" json:"status"`
	RetryCount     int            `db:"retry_count" json:"retry_count"`
	ErrorMessage   sql.NullString `db:"error_message" json:"error_message,omitempty"`
	SentAt         sql.NullTime   `db:"sent_at" json:"sent_at,omitempty"`
	GatewayID      sql.NullString `db:"gateway_id" json:"gateway_id,omitempty"`
	GatewayRaw     sql.NullString `db:"gateway_raw" json:"-"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// MessageStats aggregates log counts by status for the dashboard endpoint.
type MessageStats struct {
	Total    int64            `json:"total"`
	Sent     int64            `json:"sent"`
	Failed   int64            `json:"failed"`
	Pending  int64            `json:"pending"`
	ByStatus map[string]int64 `json:"by_status"`
}
