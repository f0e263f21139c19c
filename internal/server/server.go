// Package server exposes the log book over a small JSON API.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/logbook"
	"github.com/julianstephens/lifelog/internal/logger"
	"github.com/julianstephens/lifelog/internal/storage"
	"github.com/julianstephens/lifelog/internal/trends"
)

type Server struct {
	store  storage.Provider
	repo   *logbook.Repository
	trends *trends.Engine
	now    func() time.Time
	engine *gin.Engine
}

// Option customizes a Server.
type Option func(*Server)

// WithClock replaces the wall clock, for deterministic status and progress.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithAllowedOrigins enables CORS for the given browser origins.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		if len(origins) == 0 {
			return
		}
		s.engine.Use(cors.New(cors.Config{
			AllowOrigins:  origins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:  []string{"Origin", "Content-Type", constants.RequestIDHeader},
			ExposeHeaders: []string{constants.RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}
}

// New builds the API over an initialized store.
func New(store storage.Provider, opts ...Option) *Server {
	s := &Server{
		store:  store,
		repo:   logbook.New(store),
		trends: trends.New(store),
		now:    time.Now,
		engine: gin.New(),
	}
	s.engine.Use(gin.Recovery(), requestID(), requestLogger())
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.health)

	api := s.engine.Group("/api/v1")
	api.POST("/logs/:category", s.createLog)
	api.GET("/logs/:category", s.listLogs)
	api.GET("/status", s.status)
	api.GET("/progress", s.progress)
	api.GET("/summary", s.summary)
	api.GET("/trends/:category", s.series)
	api.GET("/breakdown/:kind", s.breakdown)
	api.GET("/settings", s.getSettings)
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  constants.ServerReadTimeout,
		WriteTimeout: constants.ServerWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("Server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
