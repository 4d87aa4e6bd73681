// Package server implements the groot HTTP API: a read-only catalog of the
// tree documents in one directory, drawn and rendered on demand through the
// cached pipeline.
//
// # Routes
//
//	GET  /healthz                            liveness and build info
//	GET  /metrics                            Prometheus metrics
//	GET  /v1/trees                           catalog listing
//	GET  /v1/trees/{name}                    mapping, roots, levels and labels
//	GET  /v1/trees/{name}/draw               text art
//	GET  /v1/trees/{name}/render/{format}    any pipeline artifact
//	POST /v1/render/{format}                 render a mapping sent in the body
//
// Errors are returned as JSON {"code": ..., "error": ...} with a status
// derived from the error code.
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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/groot/pkg/observability"
	"github.com/matzehuels/groot/pkg/pipeline"
)

// Defaults applied by [New].
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 1 << 20
	shutdownTimeout     = 10 * time.Second
)

// Config configures a [Server].
type Config struct {
	Addr string // Listen address, default ":8080"
	Dir  string // Catalog directory

	// Runner executes the pipeline. Defaults to an uncached runner.
	Runner *pipeline.Runner

	// Logger receives request and catalog logs. Defaults to discarding.
	Logger *log.Logger

	// Registry collects metrics served on /metrics. Defaults to a fresh
	// registry with Go runtime and process collectors.
	Registry *prometheus.Registry

	// MaxBodyBytes bounds POST bodies. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// Server serves the tree catalog over HTTP.
type Server struct {
	cfg     Config
	catalog *Catalog
	runner  *pipeline.Runner
	logger  *log.Logger
	metrics *observability.Metrics
	router  chi.Router
}

// New loads the catalog and builds the router. Pipeline and cache events
// are reported to the server's metrics through the observability hooks.
func New(cfg Config) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
		cfg.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	catalog, err := NewCatalog(cfg.Dir, cfg.Logger)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		catalog: catalog,
		runner:  cfg.Runner,
		logger:  cfg.Logger,
		metrics: observability.NewMetrics(cfg.Registry),
	}
	hooks := observability.Fanout{s.metrics, observability.LogHooks{Logger: cfg.Logger}}
	observability.SetTreeHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(s.metrics)

	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.cfg.Registry, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/trees", s.listTrees)
		r.Route("/trees/{name}", func(r chi.Router) {
			r.Get("/", s.getTree)
			r.Get("/draw", s.drawTree)
			r.Get("/render/{format}", s.renderTree)
		})
		r.Post("/render/{format}", s.renderBody)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Code: "NOT_FOUND", Error: "no route for " + r.URL.Path})
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Catalog returns the served catalog.
func (s *Server) Catalog() *Catalog { return s.catalog }

// Run serves HTTP on the configured address and watches the catalog
// directory until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := s.catalog.Watch(ctx); err != nil {
			s.logger.Error("catalog watch stopped", "err", err)
		}
	}()

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr, "catalog", s.catalog.Dir())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
