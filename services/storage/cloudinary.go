package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStorage stores objects as Cloudinary image assets whose public ID is the key.
type CloudinaryStorage struct {
	cld        *cloudinary.Cloudinary
	httpClient *http.Client
}

func NewCloudinaryStorage(cloudName, apiKey, apiSecret string) (*CloudinaryStorage, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryStorage{cld: cld, httpClient: &http.Client{Timeout: 30 * time.Second}}, nil
}

func (s *CloudinaryStorage) Put(ctx context.Context, key string, r io.Reader, _ string) error {
	params := uploader.UploadParams{
		PublicID:       key,
		Overwrite:      api.Bool(true),
		Invalidate:     api.Bool(true),
		UniqueFilename: api.Bool(false),
		ResourceType:   "image",
	}
	result, err := s.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	if result.PublicID == "" {
		return fmt.Errorf("failed to upload %s: no public ID returned", key)
	}
	return nil
}

// Open downloads the delivery URL of the asset.
func (s *CloudinaryStorage) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	img, err := s.cld.Image(key)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build asset %s: %w", key, err)
	}
	url, err := img.String()
	if err != nil {
		return nil, "", fmt.Errorf("failed to build URL for %s: %w", key, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch %s: %w", key, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, "", ErrObjectNotFound
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, "", fmt.Errorf("failed to fetch %s: status %d", key, resp.StatusCode)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

func (s *CloudinaryStorage) Delete(ctx context.Context, key string) error {
	result, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     key,
		ResourceType: "image",
		Invalidate:   api.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	// Destroy answers "not found" for missing assets.
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("failed to delete %s: %s", key, result.Result)
	}
	return nil
}
