// Package api exposes charts, conflicts and date fixing over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alexanderramin/gantry/internal/render"
	"github.com/alexanderramin/gantry/internal/service"
)

// Options configures chart defaults for the server.
type Options struct {
	// DefaultWidth is used when a request has no width parameter.
	DefaultWidth float64
	Style        render.Style
}

// Server is the gantry HTTP API.
type Server struct {
	projects service.ProjectService
	schedule service.ScheduleService
	logger   *log.Logger
	opts     Options
	router   chi.Router
}

// NewServer wires routes onto a chi router.
func NewServer(projects service.ProjectService, schedule service.ScheduleService, logger *log.Logger, opts Options) *Server {
	if opts.DefaultWidth <= 0 {
		opts.DefaultWidth = 1200
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		projects: projects,
		schedule: schedule,
		logger:   logger,
		opts:     opts,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/projects", func(r chi.Router) {
		r.Get("/", s.handleListProjects)
		r.Route("/{project}", func(r chi.Router) {
			r.Get("/chart", s.handleChart)
			r.Get("/chart.svg", s.handleChartSVG)
			r.Get("/conflicts", s.handleConflicts)
			r.Post("/fix", s.handleFix)
		})
	})

	s.router = r
	return s
}

// Handler returns the root handler.
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
		s.logger.Info("listening", "addr", addr)
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
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
