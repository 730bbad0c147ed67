// internal/devauth/server.go
package devauth

import (
	"context"
	"net/http"
	"time"

	"fittech-client/internal/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server is the development auth backend: the token endpoints the
// storefront client expects, plus a websocket feed of auth events.
type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	hub    *Hub
	logger *zap.Logger
	http   *http.Server
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) (*Server, error) {
	users := NewUserStore()
	if err := users.Seed(); err != nil {
		return nil, err
	}

	issuer := NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL)
	refresh := NewRefreshStore(cfg.RefreshTokenTTL)
	hub := NewHub(logger)
	handler := NewHandler(users, issuer, refresh, hub, logger)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(recoveryMiddleware(logger), requestLogger(logger))
	setupRoutes(engine, handler)

	return &Server{
		cfg:    cfg,
		engine: engine,
		hub:    hub,
		logger: logger,
	}, nil
}

func setupRoutes(r *gin.Engine, h *Handler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ws", h.WebSocket)

	api := r.Group("/api")
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/validate", h.Validate)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", h.Me)
	}
}

// Run starts the hub and the HTTP listener, blocking until the listener
// stops.
func (s *Server) Run(ctx context.Context) error {
	go s.hub.Run(ctx)

	s.http = &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}
	s.logger.Info("dev auth server listening", zap.String("addr", s.cfg.HTTPAddr))

	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Engine exposes the router for httptest.
func (s *Server) Engine() *gin.Engine { return s.engine }

func recoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			}
		}()
		c.Next()
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
