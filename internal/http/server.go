package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	apiTokenHTTP "github.com/allisson/sessions/internal/apitoken/http"
	"github.com/allisson/sessions/internal/config"
	"github.com/allisson/sessions/internal/metrics"
	sessionHTTP "github.com/allisson/sessions/internal/session/http"
)

// Server is the public API server. It exposes the session lifecycle endpoints
// and the permanent API token management endpoints behind the auth gate.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates the API server and wires all routes.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	tokenHandler *sessionHTTP.TokenHandler,
	apiTokenHandler *apiTokenHTTP.APITokenHandler,
	authGate *sessionHTTP.AuthGate,
	metricsProvider *metrics.Provider,
) *Server {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), "sessions"))
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")

	// Unauthenticated credential endpoints, IP rate limited
	public := v1.Group("")
	if cfg.RateLimitLoginEnabled {
		public.Use(sessionHTTP.LoginRateLimitMiddleware(
			cfg.RateLimitLoginRequestsPerSec,
			cfg.RateLimitLoginBurst,
			logger,
		))
	}
	public.POST("/login", tokenHandler.LoginHandler)
	public.POST("/refresh", tokenHandler.RefreshHandler)

	// Session-or-API-key endpoints
	mixed := v1.Group("", authGate.Middleware())
	if cfg.RateLimitEnabled {
		mixed.Use(sessionHTTP.RateLimitMiddleware(
			cfg.RateLimitRequestsPerSec,
			cfg.RateLimitBurst,
			logger,
		))
	}
	mixed.GET("/me", tokenHandler.MeHandler)

	// Session-only endpoints
	private := v1.Group("", authGate.SessionMiddleware())
	if cfg.RateLimitEnabled {
		private.Use(sessionHTTP.RateLimitMiddleware(
			cfg.RateLimitRequestsPerSec,
			cfg.RateLimitBurst,
			logger,
		))
	}
	private.POST("/logout", tokenHandler.LogoutHandler)
	private.POST("/api-tokens", apiTokenHandler.CreateHandler)
	private.DELETE("/api-tokens/:provider", apiTokenHandler.RevokeHandler)

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the API HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting api server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start api server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the API HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down api server")
	return s.server.Shutdown(ctx)
}
