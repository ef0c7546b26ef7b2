// Package api serves reproducible fixtures over HTTP: sample tables, stream
// draws and seed validation, so harnesses outside Go can share seeds with
// Go tests.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"seedrand/adapters/random"
	"seedrand/app"
	"seedrand/internal"
	"seedrand/internal/config"

	"github.com/gin-gonic/gin"
)

// Server represents the fixture HTTP server
type Server struct {
	router  *gin.Engine
	samples *app.SampleService
	streams map[random.Engine]*app.StreamService
	logger  *internal.Logger
	maxRows int
}

// NewServer creates a server with all routes registered
func NewServer(cfg config.ServerConfig, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.NewDiscardLogger()
	}
	gin.SetMode(cfg.GinMode)

	s := &Server{
		router:  gin.New(),
		samples: app.NewSampleService(random.Resolve, logger),
		streams: make(map[random.Engine]*app.StreamService),
		logger:  logger.With("api"),
		maxRows: cfg.MaxRows,
	}
	for _, e := range random.Engines() {
		s.streams[e] = app.NewStreamService(random.Factory(e), logger, app.WithMaxIssued(cfg.MaxIssued))
	}

	s.router.Use(gin.Recovery(), s.requestLogger())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/engines", s.handleEngines)

	s.router.GET("/tables", s.handleTable)
	s.router.POST("/tables/verify", s.handleVerifyTable)

	streams := s.router.Group("/streams")
	streams.GET("", s.handleIssued)
	streams.GET("/draws", s.handleDraws)
	streams.GET("/events", s.handleDrawEvents)
	streams.POST("/validate", s.handleValidate)
}

// Handler exposes the router for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
