// Package memory implements the document store on an in-memory map, for
// tests and local development.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/Marin-gh/shopping-app-backend/internal/docstore"
)

// Store is an in-memory document store.
type Store struct {
	mu   sync.RWMutex
	docs map[docstore.Kind]map[string]json.RawMessage
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{docs: make(map[docstore.Kind]map[string]json.RawMessage)}
}

// Get returns the document with the given id.
func (s *Store) Get(_ context.Context, kind docstore.Kind, id string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[kind][id]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return doc, nil
}

// Create inserts a new document.
func (s *Store) Create(_ context.Context, kind docstore.Kind, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.docs[kind] == nil {
		s.docs[kind] = make(map[string]json.RawMessage)
	}
	s.docs[kind][id] = data
	return nil
}

// Update replaces an existing document.
func (s *Store) Update(_ context.Context, kind docstore.Kind, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[kind][id]; !ok {
		return docstore.ErrNotFound
	}
	s.docs[kind][id] = data
	return nil
}

// Delete removes a document.
func (s *Store) Delete(_ context.Context, kind docstore.Kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[kind][id]; !ok {
		return docstore.ErrNotFound
	}
	delete(s.docs[kind], id)
	return nil
}

// Find returns documents matching the equality filter, ordered by created_at
// to mirror the postgres implementation.
func (s *Store) Find(_ context.Context, kind docstore.Kind, filter docstore.Filter) ([]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type entry struct {
		createdAt string
		id        string
		doc       json.RawMessage
	}
	var matched []entry

	for id, doc := range s.docs[kind] {
		var fields map[string]any
		if err := json.Unmarshal(doc, &fields); err != nil {
			return nil, err
		}
		if matches(fields, filter) {
			createdAt, _ := fields["created_at"].(string)
			matched = append(matched, entry{createdAt: createdAt, id: id, doc: doc})
		}
	}

	// Ties on created_at break on id so the order is deterministic.
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].createdAt != matched[j].createdAt {
			return matched[i].createdAt < matched[j].createdAt
		}
		return matched[i].id < matched[j].id
	})

	docs := make([]json.RawMessage, len(matched))
	for i, e := range matched {
		docs[i] = e.doc
	}
	return docs, nil
}

// matches reports whether every filter field equals the corresponding
// document field after JSON normalization.
func matches(fields map[string]any, filter docstore.Filter) bool {
	for key, want := range filter {
		got, ok := fields[key]
		if !ok {
			return false
		}
		if normalize(got) != normalize(want) {
			return false
		}
	}
	return true
}

// normalize round-trips a value through JSON so that, e.g., int and float64
// forms of the same number compare equal.
func normalize(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
