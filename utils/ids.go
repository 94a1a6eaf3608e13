package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewID returns a 21 character url-safe identifier.
func NewID() string {
	id, err := gonanoid.Generate(idAlphabet, 21)
	if err != nil {
		// crypto/rand failure; nothing sensible left to do.
		panic(fmt.Sprintf("nanoid: %v", err))
	}
	return id
}

// GenerateVerificationCode returns a zero-padded numeric code of the given length.
func GenerateVerificationCode(length int) (string, error) {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%0*d", length, n.Int64()), nil
}
