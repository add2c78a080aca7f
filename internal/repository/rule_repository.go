package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/entretech/wanotify/internal/models"
)

const ruleColumns = `
	name, enabled, doctype, event, condition, value_changed_field,
	recipient_source, phone_field, fixed_recipients, group_id, group_name,
	message_template, owner_template, notify_owner,
	delay_seconds, active_hours_start, active_hours_end, send_once,
	media_mode, fixed_file_url,
	created_at, updated_at`

type ruleRepository struct {
	db *sqlx.DB
}

func NewRuleRepository(db *sqlx.DB) RuleRepository {
	return &ruleRepository{
		db: db,
	}
}

func (r *ruleRepository) GetByName(name string) (*models.NotificationRule, error) {
	query := `SELECT` + ruleColumns + ` FROM notification_rules WHERE name = $1`

	var rule models.NotificationRule
	err := r.db.Get(&rule, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification rule: %w", err)
	}

	return &rule, nil
}

func (r *ruleRepository) ListForEvent(docType string, event models.TriggerEvent) ([]*models.NotificationRule, error) {
	query := `
		SELECT` + ruleColumns + `
		FROM notification_rules
		WHERE enabled = TRUE AND doctype = $1 AND event = $2
		ORDER BY name ASC
	`

	var rules []*models.NotificationRule
	err := r.db.Select(&rules, query, docType, event)
	if err != nil {
		return nil, fmt.Errorf("failed to list notification rules: %w", err)
	}

	return rules, nil
}

func (r *ruleRepository) List() ([]*models.NotificationRule, error) {
	query := `SELECT` + ruleColumns + ` FROM notification_rules ORDER BY name ASC`

	var rules []*models.NotificationRule
	err := r.db.Select(&rules, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list notification rules: %w", err)
	}

	return rules, nil
}

func (r *ruleRepository) Save(rule *models.NotificationRule) error {
	query := `
		INSERT INTO notification_rules (
			name, enabled, doctype, event, condition, value_changed_field,
			recipient_source, phone_field, fixed_recipients, group_id, group_name,
			message_template, owner_template, notify_owner,
			delay_seconds, active_hours_start, active_hours_end, send_once,
			media_mode, fixed_file_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (name) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			doctype = EXCLUDED.doctype,
			event = EXCLUDED.event,
			condition = EXCLUDED.condition,
			value_changed_field = EXCLUDED.value_changed_field,
			recipient_source = EXCLUDED.recipient_source,
			phone_field = EXCLUDED.phone_field,
			fixed_recipients = EXCLUDED.fixed_recipients,
			group_id = EXCLUDED.group_id,
			group_name = EXCLUDED.group_name,
			message_template = EXCLUDED.message_template,
			owner_template = EXCLUDED.owner_template,
			notify_owner = EXCLUDED.notify_owner,
			delay_seconds = EXCLUDED.delay_seconds,
			active_hours_start = EXCLUDED.active_hours_start,
			active_hours_end = EXCLUDED.active_hours_end,
			send_once = EXCLUDED.send_once,
			media_mode = EXCLUDED.media_mode,
			fixed_file_url = EXCLUDED.fixed_file_url,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(query,
		rule.Name, rule.Enabled, rule.DocType, rule.Event, rule.Condition, rule.ValueChangedField,
		rule.RecipientSource, rule.PhoneField, rule.FixedRecipients, rule.GroupID, rule.GroupName,
		rule.MessageTemplate, rule.OwnerTemplate, rule.NotifyOwner,
		rule.DelaySeconds, rule.ActiveHoursStart, rule.ActiveHoursEnd, rule.SendOnce,
		rule.MediaMode, rule.FixedFileURL,
	).Scan(&rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save notification rule: %w", err)
	}

	return nil
}
