package utils

import (
	"testing"
	"time"

	"slotbook/config"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	token, err := GenerateToken("u1", "anna", time.Hour)
	require.NoError(t, err)

	sub, exp, err := ExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", sub)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	config.AppConfig.JWTSecret = "rotated"
	_, _, err = ExtractClaims(token)
	assert.Error(t, err)
}

func TestExtractClaimsRejects(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	expired, err := GenerateToken("u1", "anna", -time.Minute)
	require.NoError(t, err)
	_, _, err = ExtractClaims(expired)
	assert.Error(t, err)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, _, err = ExtractClaims(noSub)
	assert.Error(t, err)

	_, _, err = ExtractClaims("garbage")
	assert.Error(t, err)
}

func TestHashToken(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}

func TestNewID(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewID()
		require.Len(t, id, 21)
		require.Regexp(t, `^[0-9a-z]+$`, id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 100)
}

func TestGenerateVerificationCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateVerificationCode(6)
		require.NoError(t, err)
		require.Regexp(t, `^[0-9]{6}$`, code)
	}
}
