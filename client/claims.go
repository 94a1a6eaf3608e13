package client

import (
	"time"

	"github.com/golang-jwt/jwt"
)

// Claims are the display fields of a bearer token.
type Claims struct {
	Subject   string
	Username  string
	ExpiresAt time.Time
}

// Expired reports whether the token is past its exp. A token without exp never expires here.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// DecodeClaims reads the token payload without checking the signature. The result is for
// display and UI gating only; the server validates every request.
func DecodeClaims(token string) (Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return Claims{}, &DecodeError{Op: "token", Err: err}
	}

	var c Claims
	c.Subject, _ = claims["sub"].(string)
	c.Username, _ = claims["username"].(string)
	// MapClaims decodes numbers as float64.
	if exp, ok := claims["exp"].(float64); ok {
		c.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return c, nil
}
