package handlers

import (
	"slotbook/middleware"
	"slotbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves the request logger from the Gin context or falls back to the global one.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get(middleware.ContextLogger); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}

// currentUserID is the subject set by the auth middleware.
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.ContextUserID)
}
