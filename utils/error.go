package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response and aborts the chain.
func JSONError(c *gin.Context, status int, message string, details string) {
	logger := GetLogger()
	if status >= http.StatusInternalServerError {
		logger.Error(message, zap.String("details", details), zap.String("path", c.Request.URL.Path))
	} else {
		logger.Warn(message, zap.String("details", details), zap.String("path", c.Request.URL.Path))
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message, Details: details})
}

// NotFoundHandler answers unknown routes in the same JSON shape as other errors.
func NotFoundHandler(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{
		Message: "Not found",
		Details: c.Request.Method + " " + c.Request.URL.Path,
	})
}
