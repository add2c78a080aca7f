package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/entretech/wanotify/internal/document"
	"github.com/entretech/wanotify/internal/models"
)

// ActionHandler is a registered named action invoked by an approval option.
type ActionHandler func(ctx context.Context, doc *document.Document, req *models.ApprovalRequest) error

// ActionExecutor runs the action behind a chosen approval option. The set of
// action types is closed; named handlers must be registered up front.
type ActionExecutor struct {
	documents document.Store
	logger    *zap.Logger

	mu       sync.RWMutex
	handlers map[string]ActionHandler
}

func NewActionExecutor(documents document.Store, logger *zap.Logger) *ActionExecutor {
	return &ActionExecutor{
		documents: documents,
		logger:    logger,
		handlers:  make(map[string]ActionHandler),
	}
}

// RegisterHandler adds a named handler. Registering the same name twice is a
// programming error.
func (e *ActionExecutor) RegisterHandler(name string, handler ActionHandler) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.handlers[name]; exists {
		return fmt.Errorf("action handler %q is already registered", name)
	}
	e.handlers[name] = handler
	return nil
}

// Execute runs the option's action against the request's document and
// returns a short description of what was executed.
func (e *ActionExecutor) Execute(ctx context.Context, opt models.ApprovalOption, req *models.ApprovalRequest) (string, error) {
	doc, err := e.documents.Get(ctx, req.RefDocType, req.RefDocID)
	if err != nil {
		return "", fmt.Errorf("failed to load document: %w", err)
	}

	switch opt.ActionType {
	case models.ActionWorkflowTransition:
		if err := e.documents.ApplyTransition(ctx, doc, opt.ActionTarget); err != nil {
			return "", fmt.Errorf("transition %q: %w", opt.ActionTarget, err)
		}
		return fmt.Sprintf("workflow_transition:%s", opt.ActionTarget), nil

	case models.ActionFieldUpdate:
		if err := e.documents.SetField(ctx, doc, opt.ActionTarget, opt.FieldValue); err != nil {
			return "", fmt.Errorf("field update %q: %w", opt.ActionTarget, err)
		}
		return fmt.Sprintf("field_update:%s=%s", opt.ActionTarget, opt.FieldValue), nil

	case models.ActionNamedHandler:
		e.mu.RLock()
		handler, ok := e.handlers[opt.ActionTarget]
		e.mu.RUnlock()
		if !ok {
			return "", fmt.Errorf("no handler registered for %q", opt.ActionTarget)
		}
		if err := handler(ctx, doc, req); err != nil {
			return "", fmt.Errorf("handler %q: %w", opt.ActionTarget, err)
		}
		return fmt.Sprintf("named_handler:%s", opt.ActionTarget), nil

	case "":
		// Options without an action only record the choice.
		return "none", nil

	default:
		return "", fmt.Errorf("unknown action type %q", opt.ActionType)
	}
}
