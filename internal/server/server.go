package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/BCalow/engine-initial-variables/internal/engine"
	"github.com/BCalow/engine-initial-variables/internal/traceid"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":9000"

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 5 * time.Second

// Server accepts WebSocket connections on /ws.
type Server struct {
	addr     string
	upgrader websocket.Upgrader
	engine   *engine.Engine
	ids      traceid.Generator
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithUpgrader replaces the default upgrader, which accepts any origin.
func WithUpgrader(u websocket.Upgrader) Option {
	return func(s *Server) {
		s.upgrader = u
	}
}

// OriginUpgrader returns an upgrader that accepts only the listed origins.
// Requests without an Origin header are not from a browser and pass.
func OriginUpgrader(origins ...string) websocket.Upgrader {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed[origin]
		},
	}
}

// WithTraceIDs sets the trace id generator (tests use a fixed one).
func WithTraceIDs(ids traceid.Generator) Option {
	return func(s *Server) {
		s.ids = ids
	}
}

// WithLogger sets the logger for connection lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Server answering requests with eng.
func New(eng *engine.Engine, opts ...Option) *Server {
	s := &Server{
		addr: DefaultAddr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		engine: eng,
		ids:    traceid.UUIDv7Generator{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Handler returns the HTTP handler serving /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down", "reason", ctx.Err())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// serveWs handles websocket requests from the peer.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		s.logger.Info("upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	s.logger.Info("connection opened", "remote", r.RemoteAddr)
	h := newHub(conn, s.engine, s.ids, s.logger)

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.handleRequests()
	}()
	h.readLoop()
	<-done

	s.logger.Info("connection closed", "remote", r.RemoteAddr)
}
