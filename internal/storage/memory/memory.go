// Package memory implements blob storage on an in-memory map, for tests
// and local development.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Marin-gh/shopping-app-backend/internal/storage"
)

type fileEntry struct {
	Name        string
	ContentType string
	URL         string
}

// Storage implements storage.Storage using an in-memory map. It stores
// metadata only, no file bytes.
type Storage struct {
	mu      sync.RWMutex
	files   map[string]*fileEntry
	baseURL string
}

// New creates a new in-memory storage instance.
func New(baseURL string) *Storage {
	return &Storage{
		files:   make(map[string]*fileEntry),
		baseURL: baseURL,
	}
}

// Upload records file metadata and returns a generated key and URL.
func (s *Storage) Upload(_ context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := uuid.New().String()
	url := fmt.Sprintf("%s/images/%s", s.baseURL, key)

	s.files[key] = &fileEntry{
		Name:        input.Name,
		ContentType: input.ContentType,
		URL:         url,
	}

	return &storage.UploadResult{Key: key, URL: url}, nil
}

// Delete removes file metadata by key.
func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.files[key]; !exists {
		return fmt.Errorf("file not found: %s", key)
	}
	delete(s.files, key)
	return nil
}

// Len reports the number of stored files. Used by tests to verify cascades
// release image handles.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}
