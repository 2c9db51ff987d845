package middleware

import (
	"time"

	"campus_identity_backend/internal/common"
	"campus_identity_backend/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request counts, latency and provider error codes.
func Metrics(recorder metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		recorder.RecordRequest(route, c.Request.Method, c.Writer.Status(), time.Since(start))
		if code := c.GetString(common.ProviderErrorCodeKey); code != "" {
			recorder.RecordProviderError(code)
		}
	}
}
