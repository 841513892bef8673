// internal/server/server.go

// Package server exposes the decision service over HTTP: the JSON API,
// the embedded intake form, and the health/metrics endpoints.
package server

import (
	"context"
	"net/http"
	"net/http/pprof"
	"time"

	"decision-assistant/internal/common/config"
	"decision-assistant/internal/common/errors"
	"decision-assistant/internal/common/logger"
	"decision-assistant/internal/common/observability"
	"decision-assistant/internal/engine"
	"decision-assistant/internal/notify"
	"decision-assistant/internal/store"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wires the engine and stores behind an http.Server.
type Server struct {
	cfg        config.ServerConfig
	engine     *engine.Engine
	store      store.DecisionStore
	cache      *store.ResultCache
	history    *store.HistoryIndex
	notifier   *notify.Notifier
	obs        *observability.Observability
	logger     logger.Logger
	errHandler *errors.ErrorHandler
	readiness  func(ctx context.Context) error

	httpServer *http.Server
}

// Options collects the server dependencies. Cache, history, notifier,
// obs, and readiness may be nil.
type Options struct {
	Config    config.ServerConfig
	Engine    *engine.Engine
	Store     store.DecisionStore
	Cache     *store.ResultCache
	History   *store.HistoryIndex
	Notifier  *notify.Notifier
	Obs       *observability.Observability
	Logger    logger.Logger
	Readiness func(ctx context.Context) error
}

func New(opts Options) *Server {
	s := &Server{
		cfg:        opts.Config,
		engine:     opts.Engine,
		store:      opts.Store,
		cache:      opts.Cache,
		history:    opts.History,
		notifier:   opts.Notifier,
		obs:        opts.Obs,
		logger:     opts.Logger.WithFields(map[string]interface{}{"component": "http-server"}),
		errHandler: errors.NewErrorHandler(opts.Logger),
		readiness:  opts.Readiness,
	}

	s.httpServer = &http.Server{
		Addr:         opts.Config.Address,
		Handler:      s.routes(),
		ReadTimeout:  config.GetDuration(opts.Config.ReadTimeout),
		WriteTimeout: config.GetDuration(opts.Config.WriteTimeout),
	}

	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/decisions", s.instrument("create_decision", s.handleCreateDecision))
	mux.HandleFunc("GET /api/v1/decisions/search", s.instrument("search_decisions", s.handleSearchDecisions))
	mux.HandleFunc("GET /api/v1/decisions/{id}", s.instrument("get_decision", s.handleGetDecision))
	mux.HandleFunc("GET /api/v1/decisions", s.instrument("list_decisions", s.handleListDecisions))

	mux.HandleFunc("GET /{$}", s.handleIndexPage)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /debug/pprof/", pprof.Index)
	mux.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("GET /debug/pprof/trace", pprof.Trace)

	return mux
}

// Handler exposes the routed handler; used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start blocks serving HTTP until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	s.logger.Info("http server listening", map[string]interface{}{
		"address": s.cfg.Address,
	})
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// requestContext applies the configured per-request timeout.
func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := config.GetDuration(s.cfg.RequestTimeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(r.Context(), timeout)
}
