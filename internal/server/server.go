// Package server exposes the tutor over HTTP with gin.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexanderramin/ulpiano/internal/cache"
	"github.com/alexanderramin/ulpiano/internal/corpus"
	"github.com/alexanderramin/ulpiano/internal/intelligence"
	"github.com/alexanderramin/ulpiano/internal/logger"
	"github.com/alexanderramin/ulpiano/internal/metrics"
	"github.com/gin-gonic/gin"
)

const (
	healthPath  = "/api/health"
	metricsPath = "/metrics"
)

// Options configures the router. Zero values disable the optional parts.
type Options struct {
	Addr string
	// RateLimit requests per RateWindow per client IP on /api routes.
	RateLimit  int
	RateWindow time.Duration
	Logger     logger.Logger
	Metrics    *metrics.Metrics
	Cache      cache.Cache
	Corpus     corpus.Stats
}

// Server serves the tutor API.
type Server struct {
	tutor  intelligence.TutorService
	opts   Options
	log    logger.Logger
	router *gin.Engine
}

func New(tutor intelligence.TutorService, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	s := &Server{tutor: tutor, opts: opts, log: opts.Logger}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(s.log))
	if s.opts.Metrics != nil {
		r.Use(s.opts.Metrics.GinMiddleware())
		r.GET(metricsPath, gin.WrapH(s.opts.Metrics.Handler()))
	}
	r.Use(CORS())
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorBody{Error: "NOT_FOUND", Message: "Ruta no encontrada."})
	})

	api := r.Group("/api")
	api.Use(RateLimit(s.opts.RateLimit, s.opts.RateWindow, healthPath))
	api.GET("/health", s.handleHealth)
	api.POST("/lookup", s.handleLookup)
	api.POST("/page", s.handlePage)

	api.POST("/consulta-unificada", s.handleUnified)
	api.POST("/consulta", s.handleCase)
	api.POST("/buscar-pagina", s.handleFindPage)
	api.POST("/derecho-moderno", s.handleModern)
	api.POST("/consulta-parentesco", s.handleKinship)
	return r
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is canceled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
