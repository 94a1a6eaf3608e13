package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"slotbook/config"

	"github.com/golang-jwt/jwt"
)

var ErrInvalidToken = errors.New("invalid token")

func secretKey() []byte {
	return []byte(config.AppConfig.JWTSecret)
}

// GenerateToken creates a signed JWT for the user. The token expires after ttl.
func GenerateToken(userID, username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// HashToken computes a SHA-256 hash of the token string.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ExtractClaims returns the subject and expiry of a valid token.
func ExtractClaims(tokenString string) (string, time.Time, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return "", time.Time{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", time.Time{}, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", time.Time{}, errors.New("token does not contain a valid 'sub' claim")
	}

	// MapClaims decodes numbers as float64.
	exp, _ := claims["exp"].(float64)
	return sub, time.Unix(int64(exp), 0), nil
}
