// Package api provides the HTTP API for Quill, built on gin.
// It exposes manuscript generation and listing over JSON.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
	"github.com/custodia-labs/quill-cli/internal/core/ports/driving"
	"github.com/custodia-labs/quill-cli/internal/logger"
)

// ErrMissingManuscriptService is returned when the manuscript service is not provided.
var ErrMissingManuscriptService = errors.New("api: manuscript service is required")

// Config holds the HTTP API dependencies.
type Config struct {
	// Manuscripts generates and lists manuscripts.
	Manuscripts driving.ManuscriptService

	// Provider is the AI provider the manuscript service is wired to.
	// Requests naming another provider are refused.
	Provider domain.AIProvider
}

// Server serves the HTTP API.
type Server struct {
	cfg    Config
	engine *gin.Engine
}

// NewServer creates a server and registers its routes.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Manuscripts == nil {
		return nil, ErrMissingManuscriptService
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	s := &Server{cfg: cfg, engine: engine}
	s.register(engine)
	return s, nil
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) register(r gin.IRouter) {
	r.GET("/health", s.health)
	r.POST("/generate", s.generate)
	r.GET("/manuscripts", s.listManuscripts)
}

// requestLogger logs each request at debug level.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("%s %s -> %d (%s)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Millisecond))
	}
}
