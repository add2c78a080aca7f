package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/entretech/wanotify/internal/models"
)

const messageLogColumns = `
	id, phone, formatted_phone, message, kind,
	media_mimetype, media_filename, media_size, media_caption, media_data,
	ref_doctype, ref_doc_id, rule_name, recipient_name, scheduled_at,
	status, retry_count, error_message, sent_at, gateway_id, gateway_raw,
	created_at, updated_at`

type messageLogRepository struct {
	db *sqlx.DB
}

func NewMessageLogRepository(db *sqlx.DB) MessageLogRepository {
	return &messageLogRepository{
		db: db,
	}
}

// Create inserts a new message log and sets its generated id.
func (r *messageLogRepository) Create(log *models.MessageLog) error {
	query := `
		INSERT INTO message_logs (
			phone, formatted_phone, message, kind,
			media_mimetype, media_filename, media_size, media_caption, media_data,
			ref_doctype, ref_doc_id, rule_name, recipient_name, scheduled_at,
			status, retry_count, error_message
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at
	`

	if log.Status == "" {
		log.Status = models.MessageStatusPending
	}
	if log.Kind == "" {
		log.Kind = models.MessageKindText
	}

	err := r.db.QueryRow(query,
		log.Phone, log.FormattedPhone, log.Message, log.Kind,
		log.MediaMimetype, log.MediaFilename, log.MediaSize, log.MediaCaption, log.MediaData,
		log.RefDocType, log.RefDocID, log.RuleName, log.RecipientName, log.ScheduledAt,
		log.Status, log.RetryCount, log.ErrorMessage,
	).Scan(&log.ID, &log.CreatedAt, &log.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create message log: %w", err)
	}

	return nil
}

func (r *messageLogRepository) GetByID(id int64) (*models.MessageLog, error) {
	query := `SELECT` + messageLogColumns + ` FROM message_logs WHERE id = $1`

	var log models.MessageLog
	err := r.db.Get(&log, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message log: %w", err)
	}

	return &log, nil
}

// GetDue retrieves sendable logs, oldest first.
func (r *messageLogRepository) GetDue(limit int, now time.Time) ([]*models.MessageLog, error) {
	query := `
		SELECT` + messageLogColumns + `
		FROM message_logs
		WHERE status IN ($1, $2)
		  AND (scheduled_at IS NULL OR scheduled_at <= $3)
		ORDER BY created_at ASC
		LIMIT $4
	`

	var logs []*models.MessageLog
	err := r.db.Select(&logs, query, models.MessageStatusPending, models.MessageStatusQueued, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get due message logs: %w", err)
	}

	return logs, nil
}

// ClaimSending transitions a log to Sending only from Pending or Queued,
// so two workers never deliver the same log.
func (r *messageLogRepository) ClaimSending(id int64) (bool, error) {
	query := `
		UPDATE message_logs
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status IN ($4, $5)
	`

	result, err := r.db.Exec(query, id, models.MessageStatusSending, time.Now(),
		models.MessageStatusPending, models.MessageStatusQueued)
	if err != nil {
		return false, fmt.Errorf("failed to claim message log: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows == 1, nil
}

func (r *messageLogRepository) MarkSent(id int64, gatewayID, gatewayRaw string, sentAt time.Time) error {
	query := `
		UPDATE message_logs
		SET status = $2,
		    gateway_id = $3,
		    gateway_raw = $4,
		    sent_at = $5,
		    error_message = NULL,
		    updated_at = $6
		WHERE id = $1
	`

	var gwID sql.NullString
	if gatewayID != "" {
		gwID = sql.NullString{String: gatewayID, Valid: true}
	}

	_, err := r.db.Exec(query, id, models.MessageStatusSent, gwID,
		sql.NullString{String: gatewayRaw, Valid: gatewayRaw != ""}, sentAt, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark message log sent: %w", err)
	}

	return nil
}

// MarkFailed records the failure and bumps the retry counter.
func (r *messageLogRepository) MarkFailed(id int64, errorMsg string) error {
	query := `
		UPDATE message_logs
		SET status = $2,
		    error_message = $3,
		    retry_count = retry_count + 1,
		    updated_at = $4
		WHERE id = $1
	`

	_, err := r.db.Exec(query, id, models.MessageStatusFailed, errorMsg, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark message log failed: %w", err)
	}

	return nil
}

func (r *messageLogRepository) Requeue(id int64) error {
	query := `
		UPDATE message_logs
		SET status = $2, error_message = NULL, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.Exec(query, id, models.MessageStatusPending, time.Now())
	if err != nil {
		return fmt.Errorf("failed to requeue message log: %w", err)
	}

	return nil
}

func (r *messageLogRepository) ForceFail(id int64, errorMsg string) error {
	query := `
		UPDATE message_logs
		SET status = $2, error_message = $3, updated_at = $4
		WHERE id = $1
	`

	_, err := r.db.Exec(query, id, models.MessageStatusFailed, errorMsg, time.Now())
	if err != nil {
		return fmt.Errorf("failed to force-fail message log: %w", err)
	}

	return nil
}

func (r *messageLogRepository) GetFailedForRetry(maxRetries int, cutoff time.Time, limit int) ([]*models.MessageLog, error) {
	query := `
		SELECT` + messageLogColumns + `
		FROM message_logs
		WHERE status = $1
		  AND retry_count < $2
		  AND updated_at <= $3
		ORDER BY updated_at ASC
		LIMIT $4
	`

	var logs []*models.MessageLog
	err := r.db.Select(&logs, query, models.MessageStatusFailed, maxRetries, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get failed message logs: %w", err)
	}

	return logs, nil
}

func (r *messageLogRepository) GetStaleQueued(cutoff time.Time, limit int) ([]*models.MessageLog, error) {
	query := `
		SELECT` + messageLogColumns + `
		FROM message_logs
		WHERE status IN ($1, $2)
		  AND updated_at <= $3
		ORDER BY updated_at ASC
		LIMIT $4
	`

	var logs []*models.MessageLog
	err := r.db.Select(&logs, query, models.MessageStatusPending, models.MessageStatusQueued, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get stale queued message logs: %w", err)
	}

	return logs, nil
}

func (r *messageLogRepository) GetStaleSending(cutoff time.Time) ([]*models.MessageLog, error) {
	query := `
		SELECT` + messageLogColumns + `
		FROM message_logs
		WHERE status = $1 AND updated_at <= $2
		ORDER BY updated_at ASC
	`

	var logs []*models.MessageLog
	err := r.db.Select(&logs, query, models.MessageStatusSending, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to get stale sending message logs: %w", err)
	}

	return logs, nil
}

// Cancel marks a non-terminal log Cancelled.
func (r *messageLogRepository) Cancel(id int64) (bool, error) {
	query := `
		UPDATE message_logs
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status NOT IN ($4, $5)
	`

	result, err := r.db.Exec(query, id, models.MessageStatusCancelled, time.Now(),
		models.MessageStatusSent, models.MessageStatusCancelled)
	if err != nil {
		return false, fmt.Errorf("failed to cancel message log: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows == 1, nil
}

func (r *messageLogRepository) ExistsForRule(ruleName, refDocType, refDocID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM message_logs
			WHERE rule_name = $1 AND ref_doctype = $2 AND ref_doc_id = $3
			  AND status != $4
		)
	`

	var exists bool
	err := r.db.Get(&exists, query, ruleName, refDocType, refDocID, models.MessageStatusCancelled)
	if err != nil {
		return false, fmt.Errorf("failed to check rule send history: %w", err)
	}

	return exists, nil
}

func (r *messageLogRepository) DeleteFinishedBefore(cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM message_logs
		WHERE status IN ($1, $2, $3) AND created_at < $4
	`

	result, err := r.db.Exec(query,
		models.MessageStatusSent, models.MessageStatusFailed, models.MessageStatusCancelled, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old message logs: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

// List returns a filtered page of logs plus the total match count.
func (r *messageLogRepository) List(filter ListFilter) ([]*models.MessageLog, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	n := 0

	addArg := func(clause string, value interface{}) {
		n++
		where += fmt.Sprintf(" AND %s = $%d", clause, n)
		args = append(args, value)
	}

	if filter.Status != "" {
		addArg("status", filter.Status)
	}
	if filter.Phone != "" {
		addArg("formatted_phone", filter.Phone)
	}
	if filter.RefDocType != "" {
		addArg("ref_doctype", filter.RefDocType)
	}
	if filter.RefDocID != "" {
		addArg("ref_doc_id", filter.RefDocID)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM message_logs` + where
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count message logs: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	listQuery := fmt.Sprintf(
		`SELECT`+messageLogColumns+` FROM message_logs`+where+
			` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, limit, filter.Offset)

	var logs []*models.MessageLog
	if err := r.db.Select(&logs, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list message logs: %w", err)
	}

	return logs, total, nil
}

func (r *messageLogRepository) Stats() (*models.MessageStats, error) {
	query := `SELECT status, COUNT(*) AS count FROM message_logs GROUP BY status`

	rows, err := r.db.Queryx(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get message log stats: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	stats := &models.MessageStats{
		ByStatus: make(map[string]int64),
	}

	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan message log stats: %w", err)
		}

		stats.ByStatus[status] = count
		stats.Total += count

		switch models.MessageStatus(status) {
		case models.MessageStatusSent:
			stats.Sent = count
		case models.MessageStatusFailed:
			stats.Failed = count
		case models.MessageStatusPending, models.MessageStatusQueued:
			stats.Pending += count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read message log stats: %w", err)
	}

	return stats, nil
}
