// Package server implements the remote progress authority: the HTTP API the
// tutorial client fetches lessons from and reports completions to.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abhisek/gotutor/internal/lessons"
	"github.com/abhisek/gotutor/internal/logger"
	"github.com/abhisek/gotutor/internal/store"
)

// Options configures a Server.
type Options struct {
	Progress store.ProgressRepo
	Lessons  []lessons.Lesson
	Logger   *logger.Logger
	// Registry receives the server's metrics. Nil creates a private one.
	Registry *prometheus.Registry
}

// Server serves the /api routes and /metrics.
type Server struct {
	router   *gin.Engine
	progress store.ProgressRepo
	lessons  []lessons.Lesson
	log      *logger.Logger
	metrics  *metrics
}

// New builds a Server and its routes.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
		opts.Registry.MustRegister(collectors.NewGoCollector())
	}
	if opts.Lessons == nil {
		opts.Lessons = lessons.Builtin()
	}

	s := &Server{
		router:   gin.New(),
		progress: opts.Progress,
		lessons:  opts.Lessons,
		log:      opts.Logger.Named("server"),
		metrics:  newMetrics(opts.Registry),
	}

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}

	s.router.Use(gin.Recovery(), s.requestLogger(), cors.New(corsCfg))

	api := s.router.Group("/api")
	{
		api.GET("/health", s.health)
		api.GET("/lessons", s.listLessons)
		api.GET("/lessons/:id", s.getLesson)
		api.GET("/progress/:user_id", s.getProgress)
		api.POST("/progress", s.updateProgress)
	}
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
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
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		s.metrics.observeRequest(c.Request.Method, route, status, time.Since(start))
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
		)
	}
}
