package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	credentialHTTP "github.com/allisson/warden/internal/credential/http"
	principalHTTP "github.com/allisson/warden/internal/principal/http"
	settingsHTTP "github.com/allisson/warden/internal/settings/http"
)

// RouterConfig carries the handlers and middleware the router mounts.
type RouterConfig struct {
	CredentialHandler *credentialHTTP.CredentialHandler
	PrincipalHandler  *principalHTTP.PrincipalHandler
	SettingsHandler   *settingsHTTP.SettingsHandler

	// AuthMiddleware authenticates Bearer tokens and stores the acting
	// principal in the request context.
	AuthMiddleware gin.HandlerFunc
	// AdminMiddleware restricts a route group to administrator principals.
	AdminMiddleware gin.HandlerFunc
	// MetricsMiddleware records HTTP request metrics. Optional.
	MetricsMiddleware gin.HandlerFunc

	CORSEnabled      bool
	CORSAllowOrigins string
}

// Server represents the API HTTP server.
type Server struct {
	server       *http.Server
	logger       *slog.Logger
	routerConfig RouterConfig
}

// NewServer creates a new HTTP server.
func NewServer(
	host string,
	port int,
	logger *slog.Logger,
	routerConfig RouterConfig,
) *Server {
	return &Server{
		logger:       logger,
		routerConfig: routerConfig,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// setupRouter builds the Gin engine with all routes and middleware.
func (s *Server) setupRouter(ctx context.Context) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(s.logger))

	if s.routerConfig.MetricsMiddleware != nil {
		router.Use(s.routerConfig.MetricsMiddleware)
	}

	if corsMiddleware := createCORSMiddleware(
		s.routerConfig.CORSEnabled,
		s.routerConfig.CORSAllowOrigins,
		s.logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	// Health and readiness endpoints
	router.GET("/health", HealthHandler())
	router.GET("/ready", ReadinessHandler(ctx))

	v1 := router.Group("/v1")

	// Self-service registration is the only unauthenticated API route.
	v1.POST("/register", s.routerConfig.PrincipalHandler.RegisterHandler)

	authenticated := v1.Group("")
	authenticated.Use(s.routerConfig.AuthMiddleware)
	{
		// Credential lifecycle
		authenticated.POST("/credentials", s.routerConfig.CredentialHandler.CreateHandler)
		authenticated.GET("/credentials", s.routerConfig.CredentialHandler.ListHandler)
		authenticated.GET("/credentials/:id", s.routerConfig.CredentialHandler.GetHandler)
		authenticated.POST("/credentials/:id/revoke", s.routerConfig.CredentialHandler.RevokeHandler)
		authenticated.DELETE("/credentials/:id", s.routerConfig.CredentialHandler.DeleteHandler)

		// Principal management
		authenticated.POST("/principals", s.routerConfig.PrincipalHandler.CreateHandler)
		authenticated.GET("/principals/:id", s.routerConfig.PrincipalHandler.GetHandler)
		authenticated.GET("/principals/:id/children", s.routerConfig.PrincipalHandler.ChildrenHandler)
		authenticated.POST("/principals/:id/revoke", s.routerConfig.PrincipalHandler.RevokeCreatedHandler)

		// Acting principal
		authenticated.GET("/me", s.routerConfig.PrincipalHandler.MeHandler)
		authenticated.POST("/me/revoke", s.routerConfig.PrincipalHandler.RevokeSelfHandler)
		authenticated.POST("/me/created/revoke", s.routerConfig.PrincipalHandler.RevokeAllCreatedHandler)

		// Administrator-only routes
		admin := authenticated.Group("")
		admin.Use(s.routerConfig.AdminMiddleware)
		{
			admin.POST("/principals/:id/permissions", s.routerConfig.PrincipalHandler.AddPermissionHandler)
			admin.GET("/settings", s.routerConfig.SettingsHandler.GetHandler)
			admin.PUT("/settings", s.routerConfig.SettingsHandler.UpdateHandler)
		}
	}

	return router
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.setupRouter(ctx)

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler(ctx context.Context) http.Handler {
	return s.setupRouter(ctx)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
