// Package http exposes the DOTS application services over a JSON API.
// It is a thin adapter: handlers translate requests into service calls and
// service errors into status codes.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/farhandwi/dots/internal/application/port"
	"github.com/farhandwi/dots/internal/application/service"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	ExportPrefix    string
	MaxUploadSize   int64
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:            "0.0.0.0",
		Port:            8080,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		AllowedOrigins:  []string{"*"},
		ExportPrefix:    "dots-queue",
		MaxUploadSize:   10 << 20,
	}
}

// Services groups the application services the API exposes
type Services struct {
	Transactions service.TransactionService
	Dashboard    service.DashboardService
	MasterData   service.MasterDataService
	Attachments  service.AttachmentService

	// Health is optional; without it /health only reports that the process is up
	Health port.HealthReporter
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	services   Services
	verifier   port.TokenVerifier
	logger     Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(config ServerConfig, services Services, verifier port.TokenVerifier, logger Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	// multipart bodies beyond this spill to temp files; the service enforces the real limit
	router.MaxMultipartMemory = config.MaxUploadSize + 1<<20

	server := &Server{
		config:   config,
		router:   router,
		services: services,
		verifier: verifier,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(corsMiddleware(s.config.AllowedOrigins))
}

func (s *Server) setupRoutes() {
	h := NewHandlers(s.services, s.config.ExportPrefix, s.config.MaxUploadSize, s.logger)

	s.router.GET("/health", h.HealthCheck)

	api := s.router.Group("/api")
	api.Use(authMiddleware(s.verifier, s.logger))
	{
		api.GET("/me", h.Me)

		api.GET("/transactions", h.ListTransactions)
		api.POST("/transactions", h.CreateTransaction)
		api.POST("/transactions/validate", h.ValidateForm)
		api.GET("/transactions/:dots", h.GetTransaction)
		api.GET("/transactions/:dots/assessment", h.AssessTransaction)
		api.GET("/transactions/:dots/history", h.TransactionHistory)
		api.POST("/transactions/:dots/submit", h.transition(service.TransactionService.Submit))
		api.POST("/transactions/:dots/approve", h.transition(service.TransactionService.Approve))
		api.POST("/transactions/:dots/reject", h.transition(service.TransactionService.Reject))
		api.POST("/transactions/:dots/verify", h.transition(service.TransactionService.Verify))
		api.POST("/transactions/:dots/sap", h.transition(service.TransactionService.MarkSAPCreated))
		api.POST("/transactions/:dots/pay", h.transition(service.TransactionService.MarkPaid))

		api.GET("/transactions/:dots/attachments", h.ListAttachments)
		api.POST("/transactions/:dots/attachments", h.UploadAttachment)
		api.GET("/attachments/:id", h.DownloadAttachment)
		api.DELETE("/attachments/:id", h.DeleteAttachment)

		api.GET("/dashboard", h.Dashboard)
		api.GET("/dashboard/export", h.ExportDashboard)

		api.GET("/materials", h.ListMaterials)
		api.POST("/materials", h.UpsertMaterial)
		api.GET("/materials/:number", h.GetMaterial)
		api.PUT("/materials/:number", h.UpsertMaterial)
		api.DELETE("/materials/:number", h.DeleteMaterial)

		api.GET("/gl-accounts", h.ListGLAccounts)
		api.POST("/gl-accounts", h.UpsertGLAccount)
		api.DELETE("/gl-accounts/:account", h.DeleteGLAccount)

		api.GET("/format/currency", h.FormatCurrency)
		api.GET("/format/due-date", h.DueDate)
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.Address(),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", s.httpServer.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
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
