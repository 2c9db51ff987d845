// File: internal/common/response.go
package common

import (
	"github.com/gin-gonic/gin"
)

// ProviderErrorCodeKey is the gin context key under which handlers record the
// provider error code of a failed request. The metrics middleware reads it.
const ProviderErrorCodeKey = "providerErrorCode"

// ProviderErrorBody is the error object of a 500-class JSON response.
type ProviderErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// RespondSuccess sends {success:true, ...payload, message}.
func RespondSuccess(c *gin.Context, statusCode int, message string, payload gin.H) {
	body := gin.H{}
	for k, v := range payload {
		body[k] = v
	}
	body["success"] = true
	body["message"] = message
	c.JSON(statusCode, body)
}

// RespondFailure sends a 400-class {success:false, message}.
func RespondFailure(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{
		"success": false,
		"message": message,
	})
}

// RespondFailureWithCode sends {success:false, message, code}.
func RespondFailureWithCode(c *gin.Context, statusCode int, message, code string) {
	c.AbortWithStatusJSON(statusCode, gin.H{
		"success": false,
		"message": message,
		"code":    code,
	})
}

// RespondProviderError sends a 500-class {success:false, error:{message,code}}
// with the provider's own message and code.
func RespondProviderError(c *gin.Context, statusCode int, message, code string) {
	MarkProviderError(c, code)
	c.AbortWithStatusJSON(statusCode, gin.H{
		"success": false,
		"error":   ProviderErrorBody{Message: message, Code: code},
	})
}

// RespondText sends a plain-text body.
func RespondText(c *gin.Context, statusCode int, text string) {
	c.String(statusCode, text)
	if statusCode >= 400 {
		c.Abort()
	}
}

// MarkProviderError records a provider failure code on the request.
func MarkProviderError(c *gin.Context, code string) {
	c.Set(ProviderErrorCodeKey, code)
}
