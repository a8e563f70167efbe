// Package server exposes cave generation over WebSocket. Clients send JSON
// generate requests and receive meshes back; generation is serialised so at
// most one pipeline runs at a time.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lawnchairsociety/cavemesh/internal/config"
	"github.com/lawnchairsociety/cavemesh/internal/database"
	"github.com/lawnchairsociety/cavemesh/internal/generator"
	"github.com/lawnchairsociety/cavemesh/internal/logger"
)

// RunStore records completed runs.
type RunStore interface {
	RecordRun(run *database.Run) (int64, error)
}

// Server is the generation service.
type Server struct {
	cfg      config.ServerConfig
	defaults generator.Params
	store    RunStore

	newGenerator func() *generator.Generator
	genMu        sync.Mutex // one generation in flight

	sessions    *SessionLimiter
	rateLimiter *RequestLimiter
	upgrader    websocket.Upgrader

	httpServer   *http.Server
	shutdownOnce sync.Once
}

// Option configures a Server.
type Option func(*Server)

// WithStore records every run in store.
func WithStore(store RunStore) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithGenerator sets the factory for per-request pipeline instances.
func WithGenerator(newGenerator func() *generator.Generator) Option {
	return func(s *Server) {
		s.newGenerator = newGenerator
	}
}

// New creates a server. defaults fill any parameter a request omits.
func New(cfg config.ServerConfig, defaults generator.Params, opts ...Option) *Server {
	s := &Server{
		cfg:          cfg,
		defaults:     defaults,
		newGenerator: func() *generator.Generator { return generator.New() },
		sessions:     NewSessionLimiter(cfg.Connections),
		rateLimiter:  NewRequestLimiter(cfg.RateLimit),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.WebSocket.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("WebSocket connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}
	return s
}

// Handler returns the HTTP routes: /ws and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// ListenAndServe serves until Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Cave server listening", "address", s.cfg.Address)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for handlers up to ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		if s.httpServer != nil {
			err = s.httpServer.Shutdown(ctx)
		}
	})
	return err
}

func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	release, err := s.sessions.Acquire(ip)
	if err != nil {
		logger.Warning("WebSocket connection rejected",
			"remote_addr", r.RemoteAddr,
			"client_ip", ip,
			"reason", err)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", "error", err)
		release()
		return
	}

	go func() {
		defer release()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("session panicked", "client_ip", ip, "panic", r)
			}
		}()
		newSession(s, conn, ip).run()
	}()
}

// runGenerator holds genMu for one pipeline run. A panic inside the pipeline
// is returned as an error so the session can report it.
func (s *Server) runGenerator(p generator.Params) (res *generator.Result, err error) {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("generation panicked: %v", r)
		}
	}()
	return s.newGenerator().Generate(p)
}

// generate validates p, runs one pipeline under the server-wide lock and
// records the run. The returned id is 0 when no store is attached.
func (s *Server) generate(p generator.Params) (*generator.Result, int64, error) {
	if err := p.Validate(); err != nil {
		return nil, 0, err
	}
	if s.cfg.MaxCells > 0 && p.PaddedCells() > s.cfg.MaxCells {
		w, h := p.PaddedSize()
		return nil, 0, fmt.Errorf("%w: padded grid %dx%d exceeds the server limit of %d cells",
			generator.ErrInvalidDimensions, w, h, s.cfg.MaxCells)
	}

	start := time.Now()
	res, err := s.runGenerator(p)
	elapsed := time.Since(start)

	if res == nil {
		return nil, 0, err
	}
	logger.Debug("generation finished", "seed", res.Seed, "elapsed", elapsed)

	var id int64
	if s.store != nil {
		var storeErr error
		id, storeErr = s.store.RecordRun(database.RunFromResult(res))
		if storeErr != nil {
			logger.Error("failed to record run", "seed", res.Seed, "error", storeErr)
		}
	}
	return res, id, err
}
