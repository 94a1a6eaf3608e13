package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStorage stores objects in one Google Cloud Storage bucket.
type GCSStorage struct {
	client *storage.Client
	bucket string
}

func NewGCSStorage(ctx context.Context, bucket, credentialsFile string) (*GCSStorage, error) {
	if bucket == "" {
		return nil, fmt.Errorf("GCS_BUCKET is not set")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSStorage{client: client, bucket: bucket}, nil
}

func (s *GCSStorage) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("failed to copy %s to storage: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close writer for %s: %w", key, err)
	}
	return nil
}

func (s *GCSStorage) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, "", ErrObjectNotFound
		}
		return nil, "", fmt.Errorf("failed to open %s: %w", key, err)
	}
	return r, r.Attrs.ContentType, nil
}

func (s *GCSStorage) Delete(ctx context.Context, key string) error {
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *GCSStorage) Close() error {
	return s.client.Close()
}
