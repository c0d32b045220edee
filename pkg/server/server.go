package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"net/http"
	"time"

	"evmscan/pkg/views"
	"evmscan/pkg/watcher"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Server is the HTML front-end and JSON API.
type Server struct {
	engine   *gin.Engine
	data     watcher.DataSource
	settings views.Settings
	logger   *log.Logger
}

func NewServer(ds watcher.DataSource, settings views.Settings, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if settings.Logger == nil {
		settings.Logger = logger
	}
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:   gin.New(),
		data:     ds,
		settings: settings,
		logger:   logger,
	}
	s.engine.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))
	s.setupMiddleware()
	s.routes()
	return s
}

func (s *Server) setupMiddleware() {
	s.engine.Use(Recovery(s.logger))
	s.engine.Use(Logger(s.logger))
}

func (s *Server) routes() {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.engine.GET("/", s.Landing)

	pages := s.engine.Group("/transactions/:network")
	pages.Use(ValidateNetwork())
	{
		pages.GET("/address/:address", s.Address)
		pages.GET("/hash/:hash", s.Transaction)
	}

	api := s.engine.Group("/api/transactions/:network")
	api.Use(ValidateNetwork())
	{
		api.GET("/address/:address", s.APIAddress)
		api.GET("/hash/:hash", s.APITransaction)
	}

	s.engine.NoRoute(s.NotFound)
}

// Engine returns the underlying Gin engine
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("Server stopped")
	return nil
}
