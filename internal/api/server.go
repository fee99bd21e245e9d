package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nissyi-gh/prio/internal/logger"
	"github.com/nissyi-gh/prio/internal/store"
)

// Options configures a Server.
type Options struct {
	Version     string
	RateLimiter *RateLimiter
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Server exposes a task repository over HTTP.
type Server struct {
	repo    store.Repository
	hub     *Hub
	router  *gin.Engine
	limiter *RateLimiter
	now     func() time.Time
	version string
	started time.Time
}

// NewServer builds the router for repo.
func NewServer(repo store.Repository, opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Server{
		repo:    repo,
		hub:     NewHub(),
		router:  gin.New(),
		limiter: opts.RateLimiter,
		now:     opts.Now,
		version: opts.Version,
		started: time.Now(),
	}

	r := s.router
	r.Use(gin.Recovery(), requestLog(), cors())

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/ws", s.hub.serveWS)

	tasks := api.Group("/tasks")
	tasks.Use(s.limiter.Middleware())
	{
		tasks.GET("", s.listTasks)
		tasks.POST("", s.createTask)
		tasks.GET("/:id", s.getTask)
		tasks.POST("/:id/toggle_complete", s.toggleComplete)
		tasks.DELETE("/:id", s.deleteTask)
	}

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the change feed.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", addr, "version", s.version)
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

	logger.Info("shutting down server")
	s.hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := s.limiter.Close(); err != nil {
		logger.Warn("close rate limiter", "error", err)
	}
	logger.Info("server exited")
	return nil
}
