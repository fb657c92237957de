// Package server exposes the layout engine over HTTP.
//
// Routes:
//
//	GET    /health                   liveness and version
//	GET    /v1/presets               preset names and their resolved options
//	POST   /v1/layout                one-shot layout
//	POST   /v1/sessions              create a session
//	GET    /v1/sessions/{id}         session info and cache statistics
//	POST   /v1/sessions/{id}/layout  layout reusing the session's caches
//	DELETE /v1/sessions/{id}         end a session
//
// Every /v1 route shares one token-bucket rate limiter. Errors are JSON
// objects carrying the error code of pkg/errors.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	srerrors "github.com/sruja-ai/sruja-sub008/pkg/errors"
	"github.com/sruja-ai/sruja-sub008/pkg/pipeline"
	"github.com/sruja-ai/sruja-sub008/pkg/session"
)

// Defaults for Config.
const (
	DefaultAddr          = ":8080"
	DefaultRateLimit     = 50
	DefaultBurst         = 100
	DefaultMaxBodyBytes  = 4 << 20
	DefaultCleanupPeriod = time.Minute
)

// Config configures a Server. Zero values select the defaults.
type Config struct {
	Addr string
	// RateLimit is the sustained number of /v1 requests per second.
	RateLimit    float64
	Burst        int
	MaxBodyBytes int64
	SessionTTL   time.Duration
	Version      string
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.RateLimit <= 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.Burst <= 0 {
		c.Burst = DefaultBurst
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = session.DefaultTTL
	}
	if c.Version == "" {
		c.Version = "dev"
	}
}

// Server is the HTTP API.
type Server struct {
	cfg      Config
	runner   *pipeline.Runner
	sessions session.Store
	logger   *log.Logger
	limiter  *rate.Limiter
	router   chi.Router
}

// New wires the routes. A nil store means an in-memory store and a nil
// logger discards output.
func New(runner *pipeline.Runner, sessions session.Store, logger *log.Logger, cfg Config) *Server {
	cfg.setDefaults()
	if sessions == nil {
		sessions = session.NewMemoryStore()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		cfg:      cfg,
		runner:   runner,
		sessions: sessions,
		logger:   logger,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(s.recoverer)

	r.Get("/health", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Get("/presets", s.handlePresets)
		r.Post("/layout", s.handleLayout)
		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Post("/layout", s.handleSessionLayout)
			r.Delete("/", s.handleDeleteSession)
		})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, srerrors.ErrCodeNotFound, "no route for "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" not allowed on "+r.URL.Path)
	})
	s.router = r
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is done and then shuts down gracefully.
// Expired sessions are swept in the background meanwhile.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go session.RunCleanup(sweepCtx, s.sessions, DefaultCleanupPeriod, func(n int) {
		s.logger.Debug("expired sessions removed", "count", n)
	})

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr, "version", s.cfg.Version)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
