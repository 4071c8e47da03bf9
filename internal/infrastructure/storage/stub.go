package storage

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// MemoryObjectStorage keeps objects in memory. It backs image mirroring in
// development and tests when no S3 endpoint is available.
type MemoryObjectStorage struct {
	// BaseURL prefixes the public URLs handed out for stored objects
	BaseURL string

	mu      sync.RWMutex
	objects map[string]StoredObject
}

// StoredObject is an object held by MemoryObjectStorage
type StoredObject struct {
	Data        []byte
	ContentType string
}

// NewMemoryObjectStorage creates a new MemoryObjectStorage
func NewMemoryObjectStorage(baseURL string) *MemoryObjectStorage {
	if baseURL == "" {
		baseURL = "https://storage.example.com"
	}
	return &MemoryObjectStorage{
		BaseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]StoredObject),
	}
}

// Ensure MemoryObjectStorage implements ObjectStore
var _ ObjectStore = (*MemoryObjectStorage)(nil)

// EnsureBucket is a no-op
func (s *MemoryObjectStorage) EnsureBucket(context.Context) error { return nil }

// ObjectExists reports whether key has been uploaded
func (s *MemoryObjectStorage) ObjectExists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("storage key is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok, nil
}

// Upload stores a copy of data under key
func (s *MemoryObjectStorage) Upload(_ context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = StoredObject{Data: append([]byte(nil), data...), ContentType: contentType}
	return nil
}

// PublicURL returns BaseURL joined with key
func (s *MemoryObjectStorage) PublicURL(key string) string {
	return s.BaseURL + "/" + strings.TrimLeft(key, "/")
}

// Object returns the stored object for key
func (s *MemoryObjectStorage) Object(key string) (StoredObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}

// Len returns the number of stored objects
func (s *MemoryObjectStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
