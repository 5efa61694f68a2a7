// Package storage defines the blob-storage collaborator contract for
// product images.
package storage

import (
	"context"
	"io"
)

// Storage is the interface for image blob operations.
type Storage interface {
	// Upload stores a file and returns its key and public URL.
	Upload(ctx context.Context, input *UploadInput) (*UploadResult, error)

	// Delete removes a file by its key. Callers treat failures as
	// best-effort cleanup: log, never propagate.
	Delete(ctx context.Context, key string) error
}

// UploadInput holds the parameters for uploading a file.
type UploadInput struct {
	Name        string
	ContentType string
	Data        io.Reader
}

// UploadResult holds the result of a successful upload.
type UploadResult struct {
	Key string
	URL string
}
