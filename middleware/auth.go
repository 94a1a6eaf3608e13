package middleware

import (
	"errors"
	"net/http"
	"strings"

	userRepo "slotbook/database/repository/user"
	"slotbook/services/session"
	"slotbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by JWTAuthMiddleware.
const (
	ContextUserID = "userID"
	ContextToken  = "token"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// JWTAuthMiddleware accepts a valid, unrevoked bearer token whose subject still exists.
// Validated tokens are cached so most requests skip the user lookup.
func JWTAuthMiddleware(users userRepo.UserRepository, sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger()
		ctx := c.Request.Context()

		tokenString := bearerToken(c)
		if tokenString == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "missing bearer token")
			return
		}

		userID, _, err := utils.ExtractClaims(tokenString)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "Invalid token", err.Error())
			return
		}

		hash := utils.HashToken(tokenString)
		revoked, err := sessions.IsRevoked(ctx, hash)
		if err != nil {
			logger.Warn("Revocation check failed, continuing", zap.Error(err))
		}
		if revoked {
			utils.JSONError(c, http.StatusUnauthorized, "Token revoked", "")
			return
		}

		cached, err := sessions.Lookup(ctx, hash, utils.AuthCacheTTL)
		switch {
		case err == nil && cached == userID:
			authorize(c, userID, tokenString)
			return
		case err == nil:
			utils.JSONError(c, http.StatusUnauthorized, "Token mismatch", "")
			return
		case !errors.Is(err, session.ErrNotCached):
			logger.Warn("Auth cache unavailable, falling back to DB lookup", zap.Error(err))
		}

		if _, err := users.GetByID(ctx, userID); err != nil {
			if errors.Is(err, userRepo.ErrNotFound) {
				utils.JSONError(c, http.StatusUnauthorized, "Authentication error", "account no longer exists")
				return
			}
			utils.JSONError(c, http.StatusInternalServerError, "Authentication error", err.Error())
			return
		}
		if err := sessions.Remember(ctx, hash, userID, utils.AuthCacheTTL); err != nil {
			logger.Warn("Failed to cache token", zap.Error(err))
		}
		authorize(c, userID, tokenString)
	}
}

func authorize(c *gin.Context, userID, token string) {
	c.Set(ContextUserID, userID)
	c.Set(ContextToken, token)
	if l, ok := c.Get(ContextLogger); ok {
		if logger, ok := l.(*zap.Logger); ok {
			c.Set(ContextLogger, logger.With(zap.String("userID", userID)))
		}
	}
	c.Next()
}
