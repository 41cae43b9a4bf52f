package memstore

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Document is the entity managed by the memstore and docindex plugins.
type Document struct {
	ID     string
	Fields map[string]any
}

// Store is a process-local document store. Safe for concurrent use by
// composed operations.
type Store struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{docs: make(map[string]Document)}
}

// shared is the store backing the compiled-in document plugins.
// docindex reads from the same instance memstore writes to.
// TODO: Pass the store through plugin options once options support
// non-literal values.
var (
	shared     *Store
	sharedOnce sync.Once
)

// Shared returns the process-wide document store.
func Shared() *Store {
	sharedOnce.Do(func() {
		shared = NewStore()
	})
	return shared
}

// Create mints a new document with a generated ID and stores it.
func (s *Store) Create(fields map[string]any) Document {
	doc := Document{
		ID:     uuid.NewString(),
		Fields: fields,
	}
	if doc.Fields == nil {
		doc.Fields = make(map[string]any)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc
	return doc
}

// Lookup returns the document with the given ID.
func (s *Store) Lookup(id string) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	return doc, ok
}

// Update replaces the fields of an existing document.
func (s *Store) Update(id string, fields map[string]any) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return Document{}, fmt.Errorf("document %q not found", id)
	}
	doc.Fields = fields
	s.docs[id] = doc
	return doc, nil
}

// Delete removes a document.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return fmt.Errorf("document %q not found", id)
	}
	delete(s.docs, id)
	return nil
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
