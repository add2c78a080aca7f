package models

import (
	"database/sql"
	"time"
)

type RecipientKind string

const (
	RecipientKindPhone RecipientKind = "phone"
	RecipientKindGroup RecipientKind = "group"
)

// Recipient is a resolved delivery target. Legacy string shapes are
// normalized into this at the boundary and never leak into the core.
type Recipient struct {
	Kind    RecipientKind `json:"kind"`
	Address string        `json:"address"`
	Name    string        `json:"name,omitempty"`
}

type MediaMode string

const (
	MediaModeNone       MediaMode = "none"
	MediaModeAttachment MediaMode = "attachment"
	MediaModeGenerated  MediaMode = "generated_document"
	MediaModeFixedFile  MediaMode = "fixed_file"
)

// NotificationRule configures when a document event produces an outbound
// message and how the message is rendered and addressed.
type NotificationRule struct {
	Name             string          `db:"name" json:"name"`
	Enabled          bool            `db:"enabled" json:"enabled"`
	DocType          string          `db:"doctype" json:"doctype"`
	Event            TriggerEvent    `db:"event" json:"event"`
	Condition        sql.NullString  `db:"condition" json:"condition,omitempty"`
	ValueChangedField sql.NullString `db:"value_changed_field" json:"value_changed_field,omitempty"`
	RecipientSource  RecipientSource `db:"recipient_source" json:"recipient_source"`
	PhoneField       sql.NullString  `db:"phone_field" json:"phone_field,omitempty"`
	FixedRecipients  StringList      `db:"fixed_recipients" json:"fixed_recipients,omitempty"`
	GroupID          sql.NullString  `db:"group_id" json:"group_id,omitempty"`
	GroupName        sql.NullString  `db:"group_name" json:"group_name,omitempty"`
	MessageTemplate  string          `db:"message_template" json:"message_template"`
	OwnerTemplate    sql.NullString  `db:"owner_template" json:"owner_template,omitempty"`
	NotifyOwner      bool            `db:"notify_owner" json:"notify_owner"`
	DelaySeconds     int             `db:"delay_seconds" json:"delay_seconds"`
	ActiveHoursStart sql.NullString  `db:"active_hours_start" json:"active_hours_start,omitempty"`
	ActiveHoursEnd   sql.NullString  `db:"active_hours_end" json:"active_hours_end,omitempty"`
	SendOnce         bool            `db:"send_once" json:"send_once"`
	MediaMode        MediaMode       `db:"media_mode" json:"media_mode"`
	FixedFileURL     sql.NullString  `db:"fixed_file_url" json:"fixed_file_url,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}

// DocumentEvent is the host application's "document changed" trigger as
// received on the event ingress endpoint.
type DocumentEvent struct {
	DocType       string       `json:"document_type"`
	DocID         string       `json:"document_id"`
	Event         TriggerEvent `json:"event"`
	ChangedFields []string     `json:"changed_fields,omitempty"`
}

// FieldChanged reports whether the event carries a change to the named field.
func (e DocumentEvent) FieldChanged(field string) bool {
	for _, f := range e.ChangedFields {
		if f == field {
			return true
		}
	}
	return false
}
