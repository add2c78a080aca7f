package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type ApprovalStatus string

const (
	ApprovalStatusPending   ApprovalStatus = "Pending"
	ApprovalStatusApproved  ApprovalStatus = "Approved"
	ApprovalStatusRejected  ApprovalStatus = "Rejected"
	ApprovalStatusExpired   ApprovalStatus = "Expired"
	ApprovalStatusCancelled ApprovalStatus = "Cancelled"
	ApprovalStatusError     ApprovalStatus = "Error"
)

// ApprovalRequest represents one outstanding conversational approval.
type ApprovalRequest struct {
	ID             int64          `db:"id" json:"id"`
	TemplateName   string         `db:"template_name" json:"template_name"`
	RefDocType     string         `db:"ref_doctype" json:"ref_doctype"`
	RefDocID       string         `db:"ref_doc_id" json:"ref_doc_id"`
	RecipientPhone string         `db:"recipient_phone" json:"recipient_phone"`
	FormattedPhone string         `db:"formatted_phone" json:"formatted_phone"`
	RecipientName  sql.NullString `db:"recipient_name" json:"recipient_name,omitempty"`
	Status         ApprovalStatus `db:"status" json:"status"`
	SentAt         time.Time      `db:"sent_at" json:"sent_at"`
	ExpiresAt      time.Time      `db:"expires_at" json:"expires_at"`
	ResponseOption sql.NullInt64  `db:"response_option" json:"response_option,omitempty"`
	ResponseText   sql.NullString `db:"response_text" json:"response_text,omitempty"`
	ResponseFrom   sql.NullString `db:"response_from" json:"response_from,omitempty"`
	RespondedAt    sql.NullTime   `db:"responded_at" json:"responded_at,omitempty"`
	Processed      bool           `db:"processed" json:"processed"`
	ActionExecuted sql.NullString `db:"action_executed" json:"action_executed,omitempty"`
	MessageLogID   sql.NullInt64  `db:"message_log_id" json:"message_log_id,omitempty"`
	ErrorMessage   sql.NullString `db:"error_message" json:"error_message,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

type ActionType string

const (
	ActionWorkflowTransition ActionType = "workflow_transition"
	ActionFieldUpdate        ActionType = "field_update"
	ActionNamedHandler       ActionType = "named_handler"
)

// ApprovalOption is one numbered entry in a template's response menu.
type ApprovalOption struct {
	Number     int        `json:"number"`
	Label      string     `json:"label"`
	ActionType ActionType `json:"action_type"`
	// Transition name, field name, or registered handler name depending on ActionType.
	ActionTarget string `json:"action_target,omitempty"`
	// FieldUpdate only: the literal value to set.
	FieldValue string `json:"field_value,omitempty"`
}

// OptionList stores a template's options as a JSONB column.
type OptionList []ApprovalOption

func (l OptionList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *OptionList) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("unsupported type for OptionList: %T", src)
	}
}

// ByNumber returns the option with the given number, or nil.
func (l OptionList) ByNumber(n int) *ApprovalOption {
	for i := range l {
		if l[i].Number == n {
			return &l[i]
		}
	}
	return nil
}

type TriggerEvent string

const (
	EventAfterInsert   TriggerEvent = "after_insert"
	EventOnUpdate      TriggerEvent = "on_update"
	EventOnSubmit      TriggerEvent = "on_submit"
	EventOnCancel      TriggerEvent = "on_cancel"
	EventOnChange      TriggerEvent = "on_change"
	EventOnTrash       TriggerEvent = "on_trash"
	EventWorkflowState TriggerEvent = "workflow_state_change"
)

type RecipientSource string

const (
	RecipientFieldValue   RecipientSource = "field_value"
	RecipientFixedNumbers RecipientSource = "fixed_numbers"
	RecipientBoth         RecipientSource = "both"
	RecipientGroup        RecipientSource = "group"
	RecipientPhoneAndGrp  RecipientSource = "phone_and_group"
)

// ApprovalTemplate is the read-mostly configuration for one approval flow.
type ApprovalTemplate struct {
	Name                 string          `db:"name" json:"name"`
	Enabled              bool            `db:"enabled" json:"enabled"`
	DocType              string          `db:"doctype" json:"doctype"`
	Event                TriggerEvent    `db:"event" json:"event"`
	WorkflowState        sql.NullString  `db:"workflow_state" json:"workflow_state,omitempty"`
	Condition            sql.NullString  `db:"condition" json:"condition,omitempty"`
	RecipientSource      RecipientSource `db:"recipient_source" json:"recipient_source"`
	PhoneField           sql.NullString  `db:"phone_field" json:"phone_field,omitempty"`
	FixedRecipients      StringList      `db:"fixed_recipients" json:"fixed_recipients,omitempty"`
	MessageTemplate      string          `db:"message_template" json:"message_template"`
	OptionsHeader        sql.NullString  `db:"options_header" json:"options_header,omitempty"`
	OptionsFooter        sql.NullString  `db:"options_footer" json:"options_footer,omitempty"`
	Options              OptionList      `db:"options" json:"options"`
	ExpiryHours          int             `db:"expiry_hours" json:"expiry_hours"`
	SendConfirmation     bool            `db:"send_confirmation" json:"send_confirmation"`
	ConfirmationTemplate sql.NullString  `db:"confirmation_template" json:"confirmation_template,omitempty"`
	SendInvalidHelp      bool            `db:"send_invalid_help" json:"send_invalid_help"`
	InvalidHelpTemplate  sql.NullString  `db:"invalid_help_template" json:"invalid_help_template,omitempty"`
	AllowMultiplePending bool            `db:"allow_multiple_pending" json:"allow_multiple_pending"`
	FirstResponseWins    bool            `db:"first_response_wins" json:"first_response_wins"`
	CreatedAt            time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at" json:"updated_at"`
}

// StringList stores a list of strings as a JSONB column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("unsupported type for StringList: %T", src)
	}
}
