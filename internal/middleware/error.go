// File: internal/middleware/error.go
package middleware

import (
	"net/http"

	"campus_identity_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MethodNotAllowedText is the body returned when a route exists but the method does not.
const MethodNotAllowedText = "Method Not Allowed"

// ErrorHandler creates a Gin middleware for errors a handler attached to the
// context without writing a response itself.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		ginErr := c.Errors.Last()
		if apiErr, ok := common.IsAPIError(ginErr.Err); ok {
			c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
			return
		}

		logger.Error("Unhandled application error",
			zap.Error(ginErr.Err),
			zap.String("path", c.Request.URL.Path),
			zap.Any("meta", ginErr.Meta),
			zap.String("request_id", c.GetString(RequestIDContextKey)),
		)
		genericError := common.ErrInternalServer.WithDetails("An unexpected error occurred.")
		if gin.Mode() == gin.DebugMode && ginErr.Err != nil {
			genericError.Details = ginErr.Err.Error()
		}
		c.AbortWithStatusJSON(genericError.StatusCode, genericError)
	}
}

// MethodNotAllowed answers requests whose path is routed but whose method is not.
func MethodNotAllowed() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusMethodNotAllowed, MethodNotAllowedText)
	}
}

// NotFound answers requests for unknown paths.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusNotFound, common.ErrNotFound.WithDetails("The requested endpoint does not exist."))
	}
}
