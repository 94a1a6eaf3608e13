package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"slotbook/database/repository/memrepo"
	"slotbook/models"
	"slotbook/services/storage"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newService(t *testing.T) (*DefaultMediaService, *storage.MemoryStorage) {
	t.Helper()
	ctx := context.Background()
	users := memrepo.NewUsers()
	require.NoError(t, users.Create(ctx, &models.User{ID: "m1", Username: "anna", Email: "a@x.io", Specialization: "barber"}))
	require.NoError(t, users.Create(ctx, &models.User{ID: "m2", Username: "olga", Email: "o@x.io", Specialization: "nails"}))
	require.NoError(t, users.Create(ctx, &models.User{ID: "c1", Username: "bob", Email: "b@x.io", Specialization: models.SpecializationClient}))
	store := storage.NewMemoryStorage()
	return &DefaultMediaService{Users: users, Works: memrepo.NewWorks(), Storage: store}, store
}

func TestAvatar(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, _, err := svc.OpenAvatar(ctx, "c1")
	assert.ErrorIs(t, err, ErrNoAvatar)

	require.NoError(t, svc.SetAvatar(ctx, "c1", bytes.NewReader(pngBytes(t, 300, 120))))

	rc, ct, err := svc.OpenAvatar(ctx, "c1")
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, "image/jpeg", ct)

	img, err := imaging.Decode(rc)
	require.NoError(t, err)
	assert.Equal(t, AvatarSize, img.Bounds().Dx())
	assert.Equal(t, AvatarSize, img.Bounds().Dy())
}

func TestAvatar_Errors(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.SetAvatar(ctx, "c1", strings.NewReader("not an image")), ErrInvalidImage)
	assert.ErrorIs(t, svc.SetAvatar(ctx, "ghost", bytes.NewReader(pngBytes(t, 10, 10))), ErrUserNotFound)
	_, _, err := svc.OpenAvatar(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestWorks(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	_, err := svc.AddWork(ctx, "c1", bytes.NewReader(pngBytes(t, 10, 10)))
	assert.ErrorIs(t, err, ErrNotMaster)

	first, err := svc.AddWork(ctx, "m1", bytes.NewReader(pngBytes(t, 40, 20)))
	require.NoError(t, err)
	second, err := svc.AddWork(ctx, "m1", bytes.NewReader(pngBytes(t, 20, 40)))
	require.NoError(t, err)

	ids, err := svc.ListWorks(ctx, "m1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{first.ID, second.ID}, ids)

	rc, ct, err := svc.OpenWork(ctx, "m1", first.ID)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "image/jpeg", ct)

	_, _, err = svc.OpenWork(ctx, "m2", first.ID)
	assert.ErrorIs(t, err, ErrWorkNotFound)

	assert.ErrorIs(t, svc.DeleteWork(ctx, "m2", first.ID), ErrWorkNotFound)
	require.NoError(t, svc.DeleteWork(ctx, "m1", first.ID))

	_, _, err = store.Open(ctx, "works/m1/"+first.ID)
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)

	ids, err = svc.ListWorks(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID}, ids)
}
