package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/entretech/wanotify/internal/models"
)

const templateColumns = `
	name, enabled, doctype, event, workflow_state, condition,
	recipient_source, phone_field, fixed_recipients,
	message_template, options_header, options_footer, options,
	expiry_hours, send_confirmation, confirmation_template,
	send_invalid_help, invalid_help_template,
	allow_multiple_pending, first_response_wins,
	created_at, updated_at`

type templateRepository struct {
	db *sqlx.DB
}

func NewTemplateRepository(db *sqlx.DB) TemplateRepository {
	return &templateRepository{
		db: db,
	}
}

func (r *templateRepository) GetByName(name string) (*models.ApprovalTemplate, error) {
	query := `SELECT` + templateColumns + ` FROM approval_templates WHERE name = $1`

	var tpl models.ApprovalTemplate
	err := r.db.Get(&tpl, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get approval template: %w", err)
	}

	return &tpl, nil
}

func (r *templateRepository) ListForEvent(docType string, event models.TriggerEvent) ([]*models.ApprovalTemplate, error) {
	query := `
		SELECT` + templateColumns + `
		FROM approval_templates
		WHERE enabled = TRUE AND doctype = $1 AND event = $2
		ORDER BY name ASC
	`

	var tpls []*models.ApprovalTemplate
	err := r.db.Select(&tpls, query, docType, event)
	if err != nil {
		return nil, fmt.Errorf("failed to list approval templates: %w", err)
	}

	return tpls, nil
}

func (r *templateRepository) ListForWorkflowState(docType, state string) ([]*models.ApprovalTemplate, error) {
	query := `
		SELECT` + templateColumns + `
		FROM approval_templates
		WHERE enabled = TRUE AND doctype = $1 AND event = $2 AND workflow_state = $3
		ORDER BY name ASC
	`

	var tpls []*models.ApprovalTemplate
	err := r.db.Select(&tpls, query, docType, models.EventWorkflowState, state)
	if err != nil {
		return nil, fmt.Errorf("failed to list approval templates by state: %w", err)
	}

	return tpls, nil
}

func (r *templateRepository) List() ([]*models.ApprovalTemplate, error) {
	query := `SELECT` + templateColumns + ` FROM approval_templates ORDER BY name ASC`

	var tpls []*models.ApprovalTemplate
	err := r.db.Select(&tpls, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list approval templates: %w", err)
	}

	return tpls, nil
}

func (r *templateRepository) Save(tpl *models.ApprovalTemplate) error {
	query := `
		INSERT INTO approval_templates (
			name, enabled, doctype, event, workflow_state, condition,
			recipient_source, phone_field, fixed_recipients,
			message_template, options_header, options_footer, options,
			expiry_hours, send_confirmation, confirmation_template,
			send_invalid_help, invalid_help_template,
			allow_multiple_pending, first_response_wins
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (name) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			doctype = EXCLUDED.doctype,
			event = EXCLUDED.event,
			workflow_state = EXCLUDED.workflow_state,
			condition = EXCLUDED.condition,
			recipient_source = EXCLUDED.recipient_source,
			phone_field = EXCLUDED.phone_field,
			fixed_recipients = EXCLUDED.fixed_recipients,
			message_template = EXCLUDED.message_template,
			options_header = EXCLUDED.options_header,
			options_footer = EXCLUDED.options_footer,
			options = EXCLUDED.options,
			expiry_hours = EXCLUDED.expiry_hours,
			send_confirmation = EXCLUDED.send_confirmation,
			confirmation_template = EXCLUDED.confirmation_template,
			send_invalid_help = EXCLUDED.send_invalid_help,
			invalid_help_template = EXCLUDED.invalid_help_template,
			allow_multiple_pending = EXCLUDED.allow_multiple_pending,
			first_response_wins = EXCLUDED.first_response_wins,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(query,
		tpl.Name, tpl.Enabled, tpl.DocType, tpl.Event, tpl.WorkflowState, tpl.Condition,
		tpl.RecipientSource, tpl.PhoneField, tpl.FixedRecipients,
		tpl.MessageTemplate, tpl.OptionsHeader, tpl.OptionsFooter, tpl.Options,
		tpl.ExpiryHours, tpl.SendConfirmation, tpl.ConfirmationTemplate,
		tpl.SendInvalidHelp, tpl.InvalidHelpTemplate,
		tpl.AllowMultiplePending, tpl.FirstResponseWins,
	).Scan(&tpl.CreatedAt, &tpl.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save approval template: %w", err)
	}

	return nil
}
