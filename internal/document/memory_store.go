package document

import (
	"context"
	"fmt"
	"sync"
)

// Transition is one edge of a document type's workflow.
type Transition struct {
	Name string
	From string
	To   string
}

// Link declares that a field on one document type references another type.
type Link struct {
	DocType    string
	Field      string
	TargetType string
}

// Comment is a recorded timeline entry.
type Comment struct {
	DocType string
	DocID   string
	Text    string
}

// MemoryStore is an in-process Store used by tests and standalone
// deployments. Hosts with their own document model provide their own Store.
type MemoryStore struct {
	mu          sync.RWMutex
	docs        map[string]*Document
	transitions map[string][]Transition
	links       map[string]string
	comments    []Comment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:        make(map[string]*Document),
		transitions: make(map[string][]Transition),
		links:       make(map[string]string),
	}
}

func docKey(docType, id string) string {
	return docType + "/" + id
}

// Put registers or replaces a document.
func (s *MemoryStore) Put(doc *Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[docKey(doc.Type, doc.ID)] = doc
}

// RegisterTransition adds a workflow edge for a document type.
func (s *MemoryStore) RegisterTransition(docType string, t Transition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transitions[docType] = append(s.transitions[docType], t)
}

// RegisterLink declares a link field so dotted paths can traverse it.
func (s *MemoryStore) RegisterLink(l Link) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links[l.DocType+"."+l.Field] = l.TargetType
}

// Comments returns all comments appended so far.
func (s *MemoryStore) Comments() []Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Comment, len(s.comments))
	copy(out, s.comments)
	return out
}

func (s *MemoryStore) Get(_ context.Context, docType, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[docKey(docType, id)]
	if !ok {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (s *MemoryStore) FieldValue(ctx context.Context, doc *Document, path string) (interface{}, error) {
	head, rest := SplitPath(path)

	v, ok := doc.Field(head)
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrUnknownField, head, doc.Type)
	}
	if rest == "" {
		return v, nil
	}

	// A dotted path means head is a link field holding the target id.
	targetID, ok := v.(string)
	if !ok || targetID == "" {
		return nil, nil
	}

	s.mu.RLock()
	targetType, linked := s.links[doc.Type+"."+head]
	s.mu.RUnlock()
	if !linked {
		return nil, fmt.Errorf("%w: %s.%s is not a link", ErrUnknownField, doc.Type, head)
	}

	target, err := s.Get(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}
	return s.FieldValue(ctx, target, rest)
}

func (s *MemoryStore) SetField(_ context.Context, doc *Document, field string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.docs[docKey(doc.Type, doc.ID)]
	if !ok {
		return ErrNotFound
	}
	if stored.Fields == nil {
		stored.Fields = make(map[string]interface{})
	}
	stored.Fields[field] = value
	doc.Fields = stored.Fields
	return nil
}

func (s *MemoryStore) ApplyTransition(_ context.Context, doc *Document, transition string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.docs[docKey(doc.Type, doc.ID)]
	if !ok {
		return ErrNotFound
	}

	for _, t := range s.transitions[doc.Type] {
		if t.Name == transition && t.From == stored.WorkflowState {
			stored.WorkflowState = t.To
			doc.WorkflowState = t.To
			return nil
		}
	}
	return fmt.Errorf("%w: %q from state %q", ErrTransitionNotAllowed, transition, stored.WorkflowState)
}

func (s *MemoryStore) AppendComment(_ context.Context, docType, id, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments = append(s.comments, Comment{DocType: docType, DocID: id, Text: text})
	return nil
}
