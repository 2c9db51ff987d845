package middleware

import (
	"time"

	"campus_identity_backend/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// StudentCORS returns the cross-origin policy for the student routes, or nil
// when it is disabled. Preflight requests are answered with 204 and never
// reach a handler.
func StudentCORS(cfg *config.Config) gin.HandlerFunc {
	if !cfg.StudentCORSEnabled {
		return nil
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = cfg.StudentCORSAllowedMethods
	corsConfig.AllowHeaders = append([]string{"Origin"}, cfg.StudentCORSAllowedHeaders...)
	corsConfig.ExposeHeaders = []string{"Content-Length", RequestIDHeader}
	corsConfig.AllowCredentials = cfg.StudentCORSAllowCredentials
	corsConfig.MaxAge = 12 * time.Hour

	if len(cfg.StudentCORSAllowedOrigins) == 0 || containsWildcard(cfg.StudentCORSAllowedOrigins) {
		// A literal "*" cannot be combined with credentials, so echo the origin back.
		corsConfig.AllowOriginFunc = func(string) bool { return true }
	} else {
		corsConfig.AllowOrigins = cfg.StudentCORSAllowedOrigins
	}

	return cors.New(corsConfig)
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
