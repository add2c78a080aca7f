package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/entretech/wanotify/internal/models"
)

const approvalColumns = `
	id, template_name, ref_doctype, ref_doc_id, recipient_phone, formatted_phone,
	recipient_name, status, sent_at, expires_at,
	response_option, response_text, response_from, responded_at,
	processed, action_executed, message_log_id, error_message,
	created_at, updated_at`

type approvalRepository struct {
	db *sqlx.DB
}

func NewApprovalRepository(db *sqlx.DB) ApprovalRepository {
	return &approvalRepository{
		db: db,
	}
}

func (r *approvalRepository) Create(req *models.ApprovalRequest) error {
	query := `
		INSERT INTO approval_requests (
			template_name, ref_doctype, ref_doc_id, recipient_phone, formatted_phone,
			recipient_name, status, sent_at, expires_at, message_log_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	if req.Status == "" {
		req.Status = models.ApprovalStatusPending
	}

	err := r.db.QueryRow(query,
		req.TemplateName, req.RefDocType, req.RefDocID, req.RecipientPhone, req.FormattedPhone,
		req.RecipientName, req.Status, req.SentAt, req.ExpiresAt, req.MessageLogID,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create approval request: %w", err)
	}

	return nil
}

func (r *approvalRepository) GetByID(id int64) (*models.ApprovalRequest, error) {
	query := `SELECT` + approvalColumns + ` FROM approval_requests WHERE id = $1`

	var req models.ApprovalRequest
	err := r.db.Get(&req, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get approval request: %w", err)
	}

	return &req, nil
}

// findOpen matches Pending requests regardless of expiry, most recent first.
// Expiry is the caller's concern: an expired match still has to be flipped to
// Expired and answered with an expiry failure.
func (r *approvalRepository) findOpen(clause string, phone string) ([]*models.ApprovalRequest, error) {
	query := `
		SELECT` + approvalColumns + `
		FROM approval_requests
		WHERE status = $1 AND ` + clause + `
		ORDER BY sent_at DESC
	`

	var reqs []*models.ApprovalRequest
	err := r.db.Select(&reqs, query, models.ApprovalStatusPending, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to find open approval requests: %w", err)
	}

	return reqs, nil
}

func (r *approvalRepository) FindOpenByFormattedPhone(phone string) ([]*models.ApprovalRequest, error) {
	return r.findOpen("formatted_phone = $2", phone)
}

func (r *approvalRepository) FindOpenByRawPhone(phone string) ([]*models.ApprovalRequest, error) {
	return r.findOpen("recipient_phone = $2", phone)
}

func (r *approvalRepository) FindOpenBySuffix(suffix string) ([]*models.ApprovalRequest, error) {
	return r.findOpen("RIGHT(formatted_phone, LENGTH($2::text)) = $2", suffix)
}

// FindRecentlyResolved returns the latest request for the phone already
// answered or closed after since. Used to acknowledge duplicate replies.
func (r *approvalRepository) FindRecentlyResolved(phone string, since time.Time) (*models.ApprovalRequest, error) {
	query := `
		SELECT` + approvalColumns + `
		FROM approval_requests
		WHERE formatted_phone = $1
		  AND status != $2
		  AND updated_at >= $3
		ORDER BY updated_at DESC
		LIMIT 1
	`

	var req models.ApprovalRequest
	err := r.db.Get(&req, query, phone, models.ApprovalStatusPending, since)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find resolved approval request: %w", err)
	}

	return &req, nil
}

func (r *approvalRepository) PendingForDocument(refDocType, refDocID string) ([]*models.ApprovalRequest, error) {
	query := `
		SELECT` + approvalColumns + `
		FROM approval_requests
		WHERE ref_doctype = $1 AND ref_doc_id = $2 AND status = $3
		ORDER BY sent_at ASC
	`

	var reqs []*models.ApprovalRequest
	err := r.db.Select(&reqs, query, refDocType, refDocID, models.ApprovalStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending approval requests: %w", err)
	}

	return reqs, nil
}

// CancelPendingForDocument cancels every Pending request for a document,
// recording the reason. Used to supersede open requests before a new send.
func (r *approvalRepository) CancelPendingForDocument(refDocType, refDocID, reason string) (int64, error) {
	query := `
		UPDATE approval_requests
		SET status = $3, error_message = $4, updated_at = $5
		WHERE ref_doctype = $1 AND ref_doc_id = $2 AND status = $6
	`

	result, err := r.db.Exec(query, refDocType, refDocID,
		models.ApprovalStatusCancelled, reason, time.Now(), models.ApprovalStatusPending)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel pending approval requests: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

// CancelSiblings closes the other Pending requests once one recipient answered.
func (r *approvalRepository) CancelSiblings(refDocType, refDocID string, keepID int64) (int64, error) {
	query := `
		UPDATE approval_requests
		SET status = $4, updated_at = $5
		WHERE ref_doctype = $1 AND ref_doc_id = $2 AND id != $3 AND status = $6
	`

	result, err := r.db.Exec(query, refDocType, refDocID, keepID,
		models.ApprovalStatusCancelled, time.Now(), models.ApprovalStatusPending)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel sibling approval requests: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

func (r *approvalRepository) RecordResponse(id int64, status models.ApprovalStatus, option int, text, from string, at time.Time) error {
	query := `
		UPDATE approval_requests
		SET status = $2,
		    response_option = $3,
		    response_text = $4,
		    response_from = $5,
		    responded_at = $6,
		    updated_at = $7
		WHERE id = $1 AND status = $8
	`

	var opt sql.NullInt64
	if option > 0 {
		opt = sql.NullInt64{Int64: int64(option), Valid: true}
	}

	result, err := r.db.Exec(query, id, status, opt, text, from, at, time.Now(),
		models.ApprovalStatusPending)
	if err != nil {
		return fmt.Errorf("failed to record approval response: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *approvalRepository) MarkProcessed(id int64, actionExecuted string) error {
	query := `
		UPDATE approval_requests
		SET processed = TRUE, action_executed = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.Exec(query, id, actionExecuted, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark approval request processed: %w", err)
	}

	return nil
}

func (r *approvalRepository) MarkError(id int64, errorMsg string) error {
	query := `
		UPDATE approval_requests
		SET status = $2, error_message = $3, updated_at = $4
		WHERE id = $1
	`

	_, err := r.db.Exec(query, id, models.ApprovalStatusError, errorMsg, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark approval request errored: %w", err)
	}

	return nil
}

// ExpireByID flips a single Pending request to Expired. A request that was
// settled in the meantime is left alone.
func (r *approvalRepository) ExpireByID(id int64) error {
	query := `
		UPDATE approval_requests
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4
	`

	_, err := r.db.Exec(query, id, models.ApprovalStatusExpired, time.Now(),
		models.ApprovalStatusPending)
	if err != nil {
		return fmt.Errorf("failed to expire approval request: %w", err)
	}

	return nil
}

func (r *approvalRepository) ExpirePending(now time.Time) (int64, error) {
	query := `
		UPDATE approval_requests
		SET status = $1, updated_at = $2
		WHERE status = $3 AND expires_at <= $4
	`

	result, err := r.db.Exec(query, models.ApprovalStatusExpired, time.Now(),
		models.ApprovalStatusPending, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire approval requests: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

func (r *approvalRepository) LinkMessageLog(id, messageLogID int64) error {
	query := `
		UPDATE approval_requests
		SET message_log_id = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.Exec(query, id, messageLogID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to link message log: %w", err)
	}

	return nil
}

func (r *approvalRepository) List(refDocType, refDocID string, status models.ApprovalStatus, offset, limit int) ([]*models.ApprovalRequest, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	n := 0

	addArg := func(column string, value interface{}) {
		n++
		where += fmt.Sprintf(" AND %s = $%d", column, n)
		args = append(args, value)
	}

	if refDocType != "" {
		addArg("ref_doctype", refDocType)
	}
	if refDocID != "" {
		addArg("ref_doc_id", refDocID)
	}
	if status != "" {
		addArg("status", status)
	}

	var total int64
	if err := r.db.Get(&total, `SELECT COUNT(*) FROM approval_requests`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count approval requests: %w", err)
	}

	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(
		`SELECT`+approvalColumns+` FROM approval_requests`+where+
			` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, limit, offset)

	var reqs []*models.ApprovalRequest
	if err := r.db.Select(&reqs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list approval requests: %w", err)
	}

	return reqs, total, nil
}
