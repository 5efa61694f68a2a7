// Package docstore defines the document-store collaborator contract.
//
// All operations are single-document: the store offers no multi-document
// atomicity, and callers maintaining cross-document references must tolerate
// partial application.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned when a document id does not resolve.
var ErrNotFound = errors.New("document not found")

// Kind identifies a document collection.
type Kind string

const (
	KindUser    Kind = "users"
	KindProduct Kind = "products"
	KindReview  Kind = "reviews"
)

// Filter is an equality filter over top-level JSON fields of a document.
type Filter map[string]any

// Store is the minimal document-store contract the entity repositories
// are built on.
type Store interface {
	// Get returns the document with the given id, or ErrNotFound.
	Get(ctx context.Context, kind Kind, id string) (json.RawMessage, error)

	// Create inserts a new document under the given id.
	Create(ctx context.Context, kind Kind, id string, doc any) error

	// Update replaces the document with the given id, or returns ErrNotFound.
	Update(ctx context.Context, kind Kind, id string, doc any) error

	// Delete removes the document with the given id, or returns ErrNotFound.
	Delete(ctx context.Context, kind Kind, id string) error

	// Find returns all documents of the kind matching the equality filter.
	Find(ctx context.Context, kind Kind, filter Filter) ([]json.RawMessage, error)
}
