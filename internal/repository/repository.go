// Package repository implements data access on PostgreSQL.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// repositoryImpl is the concrete implementation of Repository interface.
type repositoryImpl struct {
	db         *sqlx.DB
	messageLog MessageLogRepository
	approval   ApprovalRepository
	template   TemplateRepository
	rule       RuleRepository
	settings   SettingsRepository
}

// NewRepository creates a new repository instance.
func NewRepository(db *sqlx.DB) Repository {
	return &repositoryImpl{
		db:         db,
		messageLog: NewMessageLogRepository(db),
		approval:   NewApprovalRepository(db),
		template:   NewTemplateRepository(db),
		rule:       NewRuleRepository(db),
		settings:   NewSettingsRepository(db),
	}
}

// MessageLog returns the message log repository.
func (r *repositoryImpl) MessageLog() MessageLogRepository {
	return r.messageLog
}

// Approval returns the approval request repository.
func (r *repositoryImpl) Approval() ApprovalRepository {
	return r.approval
}

// Template returns the approval template repository.
func (r *repositoryImpl) Template() TemplateRepository {
	return r.template
}

// Rule returns the notification rule repository.
func (r *repositoryImpl) Rule() RuleRepository {
	return r.rule
}

// Settings returns the settings repository.
func (r *repositoryImpl) Settings() SettingsRepository {
	return r.settings
}

// Ping checks if the database connection is healthy.
func (r *repositoryImpl) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return r.db.PingContext(ctx)
}
