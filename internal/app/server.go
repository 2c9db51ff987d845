// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"campus_identity_backend/internal/account"
	"campus_identity_backend/internal/config"
	"campus_identity_backend/internal/jobs"
	"campus_identity_backend/internal/metrics"
	"campus_identity_backend/internal/middleware"
	"campus_identity_backend/internal/student"
	"campus_identity_backend/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Jobs
	orphanSweepJob *jobs.StudentOrphanSweepJob
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	accountHandler *account.Handler,
	studentHandler *student.Handler,
	userHandler *user.Handler,
	orphanSweepJob *jobs.StudentOrphanSweepJob,
	registry *prometheus.Registry,
	collector *metrics.Collector,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := NewRouter(cfg, logger, accountHandler, studentHandler, userHandler, registry, collector)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // full directory scans can be slow
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:     httpServer,
		router:         router,
		cfg:            cfg,
		logger:         logger,
		orphanSweepJob: orphanSweepJob,
	}, nil
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	accountHandler *account.Handler,
	studentHandler *student.Handler,
	userHandler *user.Handler,
	registry *prometheus.Registry,
	collector *metrics.Collector,
) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	if cfg.MetricsEnabled && collector != nil {
		router.Use(middleware.Metrics(collector))
	}
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	router.NoMethod(middleware.MethodNotAllowed())
	router.NoRoute(middleware.NotFound())

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Campus identity API is healthy!"})
	})
	if cfg.MetricsEnabled && registry != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(registry)))
	}

	root := &router.RouterGroup
	accountHandler.RegisterRoutes(root)
	studentHandler.RegisterRoutes(root, middleware.StudentCORS(cfg))
	userHandler.RegisterRoutes(root)

	return router
}

// Router exposes the engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Start() error {
	if s.orphanSweepJob != nil {
		if err := s.orphanSweepJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start student orphan sweep job", zap.Error(err))
		}
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.orphanSweepJob != nil {
		s.orphanSweepJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
