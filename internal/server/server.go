// Package server exposes the GraphQL endpoint and operational routes.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	gql "github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"address-validator/internal/common/config"
	"address-validator/internal/common/logger"
)

// Pinger is a dependency checked by /ready.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	Schema     gql.Schema
	Logger     logger.Logger
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	// Checks are reported by /ready, keyed by dependency name.
	Checks map[string]Pinger
	// GraphiQL serves the in-browser IDE on GET requests without a query.
	GraphiQL bool
}

type Server struct {
	cfg        config.ServerConfig
	httpServer *http.Server
	handler    http.Handler
	checks     map[string]Pinger
	logger     logger.Logger
}

func New(cfg config.ServerConfig, opts Options) *Server {
	if opts.Registerer == nil {
		opts.Registerer = prometheus.DefaultRegisterer
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	log := opts.Logger.WithFields(map[string]interface{}{"component": "http"})

	s := &Server{
		cfg:    cfg,
		checks: opts.Checks,
		logger: log,
	}

	gqlHandler := handler.New(&handler.Config{
		Schema:   &opts.Schema,
		Pretty:   false,
		GraphiQL: opts.GraphiQL,
	})

	mux := http.NewServeMux()
	mux.Handle(cfg.GraphQLPath, Chain(gqlHandler, CORS(cfg.AllowedOrigins), Identity()))
	mux.HandleFunc("/health", s.health)
	mux.HandleFunc("/ready", s.ready)
	mux.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))

	httpMetrics := NewHTTPMetrics(opts.Registerer, cfg.GraphQLPath, "/health", "/ready", "/metrics")
	s.handler = Chain(mux,
		RequestID(),
		Recovery(log),
		Logger(log),
		httpMetrics.Middleware(),
	)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.WriteTimeout),
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start blocks until the server stops. It returns nil after Shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server listening", map[string]interface{}{
		"addr":    s.httpServer.Addr,
		"graphql": s.cfg.GraphQLPath,
	})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(s.checks))
	for name, p := range s.checks {
		if err := p.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			checks[name] = err.Error()
			s.logger.Warn("readiness check failed", map[string]interface{}{
				"dependency": name,
				"error":      err,
			})
			continue
		}
		checks[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	writeJSON(w, status, map[string]interface{}{
		"status": state,
		"checks": checks,
		"time":   time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
