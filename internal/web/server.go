// Package web serves the generated subscription artifacts over HTTP: the
// base64 bundle for client import and the raw links page for humans.
package web

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options configure the subscription server.
type Options struct {
	SubscriptionPath string
	LinksPagePath    string
	CacheTTL         time.Duration
	MetricsEnabled   bool
	MetricsNamespace string
	Logger           *slog.Logger
}

// Server hands out the artifacts written by a provisioning run. Artifact
// files are re-read when the cache entry expires, so a re-run is picked up
// without restarting the server.
type Server struct {
	opts    Options
	cache   *gocache.Cache
	logger  *slog.Logger
	fetches *prometheus.CounterVec
}

// New builds the server and registers its metrics on the default registry.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Minute
	}
	s := &Server{
		opts:   opts,
		cache:  gocache.New(opts.CacheTTL, 2*opts.CacheTTL),
		logger: opts.Logger,
	}
	if opts.MetricsEnabled {
		s.fetches = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.MetricsNamespace,
			Name:      "artifact_fetches_total",
			Help:      "Artifact downloads served, by artifact and status.",
		}, []string{"artifact", "status"})
		prometheus.MustRegister(s.fetches)
	}
	return s
}

// Router assembles the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/sub", s.handleArtifact("subscription", s.opts.SubscriptionPath, "text/plain; charset=utf-8"))
	r.Get("/links", s.handleArtifact("links_page", s.opts.LinksPagePath, "text/html; charset=utf-8"))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.opts.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	return r
}

func (s *Server) handleArtifact(name, path, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := s.load(name, path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			s.count(name, "missing")
			http.Error(w, "not provisioned yet", http.StatusNotFound)
			return
		case err != nil:
			s.count(name, "error")
			s.logger.Error("read artifact", "artifact", name, "path", path, "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		s.count(name, "ok")
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(body)
	}
}

func (s *Server) load(name, path string) ([]byte, error) {
	if cached, ok := s.cache.Get(name); ok {
		return cached.([]byte), nil
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(name, body)
	return body, nil
}

func (s *Server) count(artifact, status string) {
	if s.fetches != nil {
		s.fetches.WithLabelValues(artifact, status).Inc()
	}
}
