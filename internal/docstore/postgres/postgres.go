// Package postgres implements the document store on a single JSONB table.
//
// Every operation is one SQL statement, honoring the store contract's
// single-document semantics: no statement here ever touches two documents.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Marin-gh/shopping-app-backend/internal/docstore"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	kind TEXT NOT NULL,
	id   TEXT NOT NULL,
	doc  JSONB NOT NULL,
	PRIMARY KEY (kind, id)
);
CREATE INDEX IF NOT EXISTS documents_doc_idx ON documents USING GIN (doc jsonb_path_ops);
`

// DB is the subset of pgxpool.Pool the store needs. It is satisfied by
// *pgxpool.Pool and by pgxmock pools in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is a pgx-backed document store.
type Store struct {
	pool DB
}

// New creates a document store over the given connection pool.
func New(pool DB) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the documents table and index if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure documents schema: %w", err)
	}
	return nil
}

// Get returns the raw document with the given id.
func (s *Store) Get(ctx context.Context, kind docstore.Kind, id string) (json.RawMessage, error) {
	var doc json.RawMessage
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM documents WHERE kind = $1 AND id = $2`,
		string(kind), id,
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", kind, id, err)
	}
	return doc, nil
}

// Create inserts a new document.
func (s *Store) Create(ctx context.Context, kind docstore.Kind, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", kind, id, err)
	}
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO documents (kind, id, doc) VALUES ($1, $2, $3)`,
		string(kind), id, data,
	); err != nil {
		return fmt.Errorf("create %s/%s: %w", kind, id, err)
	}
	return nil
}

// Update replaces an existing document.
func (s *Store) Update(ctx context.Context, kind docstore.Kind, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", kind, id, err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE documents SET doc = $3 WHERE kind = $1 AND id = $2`,
		string(kind), id, data,
	)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", kind, id, err)
	}
	if tag.RowsAffected() == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

// Delete removes a document.
func (s *Store) Delete(ctx context.Context, kind docstore.Kind, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM documents WHERE kind = $1 AND id = $2`,
		string(kind), id,
	)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", kind, id, err)
	}
	if tag.RowsAffected() == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

// Find returns documents matching the equality filter via JSONB containment.
func (s *Store) Find(ctx context.Context, kind docstore.Kind, filter docstore.Filter) ([]json.RawMessage, error) {
	if filter == nil {
		filter = docstore.Filter{}
	}
	match, err := json.Marshal(filter)
	if err != nil {
		return nil, fmt.Errorf("marshal filter: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT doc FROM documents WHERE kind = $1 AND doc @> $2 ORDER BY doc->>'created_at'`,
		string(kind), match,
	)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", kind, err)
	}
	defer rows.Close()

	var docs []json.RawMessage
	for rows.Next() {
		var doc json.RawMessage
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan %s document: %w", kind, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s documents: %w", kind, err)
	}
	return docs, nil
}
