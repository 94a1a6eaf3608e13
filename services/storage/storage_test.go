package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"slotbook/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	_, _, err := s.Open(ctx, "avatars/u1")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	require.NoError(t, s.Put(ctx, "avatars/u1", strings.NewReader("one"), "image/jpeg"))
	require.NoError(t, s.Put(ctx, "avatars/u1", strings.NewReader("two"), "image/jpeg"))

	rc, ct, err := s.Open(ctx, "avatars/u1")
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "two", string(body))
	assert.Equal(t, "image/jpeg", ct)

	require.NoError(t, s.Delete(ctx, "avatars/u1"))
	require.NoError(t, s.Delete(ctx, "avatars/u1"))
	_, _, err = s.Open(ctx, "avatars/u1")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, config.Config{MediaBackend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStorage{}, s)

	_, err = New(ctx, config.Config{MediaBackend: "cloudinary"})
	assert.Error(t, err)

	_, err = New(ctx, config.Config{MediaBackend: "gcs"})
	assert.Error(t, err)

	_, err = New(ctx, config.Config{MediaBackend: "s3"})
	assert.Error(t, err)
}
