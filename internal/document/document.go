// Package document defines the host-application document collaborator.
// The core only reads fields, applies workflow transitions, updates single
// fields and appends timeline comments; how documents are actually stored
// belongs to the host.
package document

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrNotFound             = errors.New("document not found")
	ErrUnknownField         = errors.New("unknown field")
	ErrTransitionNotAllowed = errors.New("transition not allowed in current state")
)

// Document is a weakly-referenced host record. Fields carry whatever the
// host exposes for template rendering and recipient resolution.
type Document struct {
	Type          string
	ID            string
	Fields        map[string]interface{}
	WorkflowState string
}

// Field returns a direct (non-dotted) field value.
func (d *Document) Field(name string) (interface{}, bool) {
	if name == "workflow_state" {
		return d.WorkflowState, true
	}
	v, ok := d.Fields[name]
	return v, ok
}

// Store is everything the notification core needs from the host's
// document model.
type Store interface {
	// Get loads a document by type and id.
	Get(ctx context.Context, docType, id string) (*Document, error)

	// FieldValue resolves a possibly dotted field path, traversing link
	// fields into their target documents (e.g. "customer.mobile_no").
	FieldValue(ctx context.Context, doc *Document, path string) (interface{}, error)

	// SetField writes a single field value and persists the document.
	SetField(ctx context.Context, doc *Document, field string, value interface{}) error

	// ApplyTransition applies a named workflow transition. A transition
	// that is not valid from the document's current state returns
	// ErrTransitionNotAllowed.
	ApplyTransition(ctx context.Context, doc *Document, transition string) error

	// AppendComment adds a timeline comment. Best-effort: callers swallow
	// the error.
	AppendComment(ctx context.Context, docType, id, text string) error
}

// SplitPath splits a dotted field path into its first segment and the rest.
func SplitPath(path string) (head, rest string) {
	if i := strings.Index(path, "."); i >= 0 {
		return path[:i], path[i+1:]
	}
	return path, ""
}
