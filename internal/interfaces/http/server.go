// Package http provides the HTTP adapter for the application layer.
// It translates HTTP requests to application service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MelissaSequeira/reimburse-portal/internal/application/port"
	"github.com/MelissaSequeira/reimburse-portal/internal/application/service"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	handlers   *Handlers
	logger     Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(
	config ServerConfig,
	submissions service.SubmissionService,
	approvals service.ApprovalService,
	admin service.AdminService,
	directory service.DirectoryService,
	artifacts port.ArtifactStore,
	logger Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:   config,
		router:   gin.New(),
		handlers: NewHandlers(submissions, approvals, admin, directory, artifacts, logger),
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handlers.HealthCheck)

	api := s.router.Group("/api/v1")
	api.Use(s.handlers.ActorMiddleware())
	{
		api.POST("/requests", s.handlers.SubmitRequest)
		api.GET("/requests", s.handlers.ListOwnRequests)
		api.GET("/requests/:id", s.handlers.GetRequest)

		api.GET("/stages/:stage/pending", s.handlers.ListPending)
		api.POST("/stages/:stage/requests/:id/decision", s.handlers.Decide)

		api.GET("/artifacts/:ref", s.handlers.DownloadArtifact)

		admin := api.Group("/admin")
		admin.Use(s.handlers.RequireAdmin())
		{
			admin.GET("/requests", s.handlers.ListAllRequests)
			admin.GET("/requests/export", s.handlers.ExportRegister)
			admin.GET("/users", s.handlers.ListUsers)
			admin.POST("/users", s.handlers.RegisterUser)
		}
	}
}

// Start starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
