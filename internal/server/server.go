// Package server exposes the takeoff, labor and estimate core as a small
// JSON HTTP API.
//
// Routes:
//
//	POST /api/takeoff   design inputs in, priced takeoff out
//	POST /api/labor     takeoff plus labor plan
//	POST /api/estimate  takeoff, labor plan and estimate totals
//	POST /api/validate  validation report for design inputs
//	GET  /api/catalog   the price catalog in use
//	GET  /api/health    liveness
//
// The server holds read-only configuration; each request computes its
// results independently.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/piwi3910/DeckTakeoff/internal/model"
)

const maxBodyBytes = 1 << 20

// Config is the fixed state a server answers with.
type Config struct {
	Assumptions model.Assumptions
	Estimate    model.EstimateSettings
	Catalog     model.PriceCatalog
	Templates   model.LaborTemplateStore
	Version     string
	Logger      *log.Logger // nil means log.Default()
}

// Server is the HTTP adapter.
type Server struct {
	cfg    Config
	logger *log.Logger
	router chi.Router
}

// New creates a server and registers its routes.
func New(cfg Config) *Server {
	s := &Server{cfg: cfg, logger: cfg.Logger}
	if s.logger == nil {
		s.logger = log.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/takeoff", s.handleTakeoff)
		r.Post("/labor", s.handleLabor)
		r.Post("/estimate", s.handleEstimate)
		r.Post("/validate", s.handleValidate)
		r.Get("/catalog", s.handleCatalog)
		r.Get("/health", s.handleHealth)
	})
	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully, giving in-flight requests up to five seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// requestLogger logs one line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			keyvals := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration", time.Since(start).Round(time.Microsecond),
				"request_id", middleware.GetReqID(r.Context()),
			}
			if status >= http.StatusInternalServerError {
				s.logger.Error("Request", keyvals...)
				return
			}
			s.logger.Info("Request", keyvals...)
		}()
		next.ServeHTTP(ww, r)
	})
}
