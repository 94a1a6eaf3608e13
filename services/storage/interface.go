// Package storage keeps media blobs (avatars and portfolio works) behind one
// interface with Cloudinary, Google Cloud Storage and in-memory backends.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"slotbook/config"
)

var ErrObjectNotFound = errors.New("object not found")

// StorageService defines the interface for storage operations.
type StorageService interface {
	// Put stores the object under key, replacing any previous content.
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	// Open streams an object. The caller closes the reader.
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
	// Delete removes an object; deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
}

// New builds the backend selected by MEDIA_BACKEND.
func New(ctx context.Context, cfg config.Config) (StorageService, error) {
	switch cfg.MediaBackend {
	case "", "cloudinary":
		return NewCloudinaryStorage(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	case "gcs":
		return NewGCSStorage(ctx, cfg.GCSBucket, cfg.GCSCredentialsFile)
	case "memory":
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.MediaBackend)
	}
}

// MemoryStorage keeps objects in process memory.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data        []byte
	contentType string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string]memoryObject)}
}

func (s *MemoryStorage) Put(_ context.Context, key string, r io.Reader, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read object %s: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memoryObject{data: data, contentType: contentType}
	return nil
}

func (s *MemoryStorage) Open(_ context.Context, key string) (io.ReadCloser, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, "", ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), obj.contentType, nil
}

func (s *MemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}
