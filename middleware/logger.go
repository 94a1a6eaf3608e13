package middleware

import (
	"time"

	"slotbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ContextLogger   = "logger"
	RequestIDHeader = "X-Request-ID"
)

// RequestLogger tags each request with an id and stores a child logger under "logger".
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		logger := utils.GetLogger().With(zap.String("requestID", requestID))
		c.Set(ContextLogger, logger)

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", getClientIP(c)),
		}
		if uid, ok := c.Get(ContextUserID); ok {
			fields = append(fields, zap.Any("userID", uid))
		}
		if c.Writer.Status() >= 500 {
			logger.Error("Request failed", fields...)
			return
		}
		logger.Info("Request handled", fields...)
	}
}
