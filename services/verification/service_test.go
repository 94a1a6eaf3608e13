package verification

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"slotbook/services/tasks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() (*DefaultVerificationService, *tasks.MemoryPublisher) {
	pub := &tasks.MemoryPublisher{}
	return &DefaultVerificationService{Store: NewMemoryCodeStore(), Publisher: pub, TTL: time.Minute}, pub
}

func sentCode(t *testing.T, pub *tasks.MemoryPublisher) tasks.VerificationCodePayload {
	t.Helper()
	sent := pub.Tasks()
	require.NotEmpty(t, sent)
	var p tasks.VerificationCodePayload
	require.NoError(t, json.Unmarshal(sent[len(sent)-1].Payload(), &p))
	return p
}

func TestSendAndVerify(t *testing.T) {
	svc, pub := newService()
	ctx := context.Background()

	require.NoError(t, svc.SendCode(ctx, " Anna@Example.com "))
	p := sentCode(t, pub)
	assert.Equal(t, "anna@example.com", p.Email)
	assert.Len(t, p.Code, 6)

	assert.ErrorIs(t, svc.Verify(ctx, "anna@example.com", "xxxxxx"), ErrInvalidCode)
	require.NoError(t, svc.Verify(ctx, "ANNA@example.com", p.Code))
	// Single use.
	assert.ErrorIs(t, svc.Verify(ctx, "anna@example.com", p.Code), ErrInvalidCode)
}

func TestVerify_Unknown(t *testing.T) {
	svc, _ := newService()
	assert.ErrorIs(t, svc.Verify(context.Background(), "nobody@example.com", "123456"), ErrInvalidCode)
}

func TestMemoryCodeStore_Expiry(t *testing.T) {
	store := NewMemoryCodeStore()
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a@b.c", "111111", time.Minute))
	code, err := store.Get(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "111111", code)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, "a@b.c")
	assert.ErrorIs(t, err, ErrCodeNotFound)
}
