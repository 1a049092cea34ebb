package transport

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/nao1215/sqlkernel"
	"github.com/nao1215/sqlkernel/internal/logger"
)

// Websocket timeouts
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Outgoing messages buffered per connection
	sendBuffer = 64
)

// Kernel is what the server needs from a kernel.
type Kernel interface {
	Execute(ctx context.Context, req sqlkernel.ExecuteRequest) sqlkernel.ExecuteReply
	KernelInfo() sqlkernel.KernelInfo
	Complete(ctx context.Context, code string, cursor int) sqlkernel.CompleteReply
	IsComplete(code string) string
}

// Options configures a Server.
type Options struct {
	// Path is the websocket endpoint, e.g. "/kernel"
	Path string
	// AllowedOrigins are origin prefixes accepted during the handshake.
	// Requests without an Origin header are always accepted.
	AllowedOrigins []string
	// ReadLimit is the largest accepted message in bytes
	ReadLimit int64
	// PingInterval is how often idle connections are pinged; 0 disables pings
	PingInterval time.Duration
}

// Server accepts websocket connections and routes their messages to a Kernel.
type Server struct {
	kernel   Kernel
	opts     Options
	upgrader websocket.Upgrader
	logger   *zap.SugaredLogger

	shutdownOnce sync.Once
	shutdown     chan struct{}
	wg           sync.WaitGroup

	mu      sync.Mutex
	conns   map[*conn]struct{}
	closing bool
}

// NewServer creates a server for k.
func NewServer(k Kernel, opts Options, log *zap.SugaredLogger) *Server {
	if opts.Path == "" {
		opts.Path = "/"
	}
	s := &Server{
		kernel:   k,
		opts:     opts,
		logger:   logger.OrGlobal(log),
		shutdown: make(chan struct{}),
		conns:    make(map[*conn]struct{}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Handler returns an http.Handler serving the websocket endpoint at
// Options.Path.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.opts.Path, s.serveWS)
	return mux
}

// ShutdownRequested is closed once a client sends shutdown_request.
func (s *Server) ShutdownRequested() <-chan struct{} {
	return s.shutdown
}

func (s *Server) requestShutdown() {
	s.shutdownOnce.Do(func() { close(s.shutdown) })
}

// Run serves on addr until ctx is done or a client requests shutdown.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("kernel server listening", "addr", addr, "path", s.opts.Path)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrapf(err, "failed to serve on %s", addr)
	case <-ctx.Done():
		s.logger.Infow("kernel server stopping", "reason", ctx.Err())
	case <-s.shutdown:
		s.logger.Infow("kernel server stopping", "reason", "shutdown requested")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := httpServer.Shutdown(shutdownCtx)
	// Shutdown does not touch hijacked connections.
	s.closeConnections()
	s.wg.Wait()
	if err != nil {
		return errors.Wrap(err, "failed to shut down server")
	}
	return nil
}

// track registers c and reserves its pumps in wg. It reports false once the
// server is closing, so wg.Add never races wg.Wait.
func (s *Server) track(c *conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.conns[c] = struct{}{}
	s.wg.Add(2)
	return true
}

func (s *Server) untrack(c *conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, c)
}

// closeConnections cancels in-flight executions and closes every open
// connection. Connections upgraded afterwards are closed immediately.
func (s *Server) closeConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closing = true
	for c := range s.conns {
		c.close()
	}
}

// checkOrigin validates the websocket origin against the allowed prefixes
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Allow requests with no origin header (e.g., direct websocket clients, testing)
	if origin == "" {
		return true
	}
	for _, allowed := range s.opts.AllowedOrigins {
		if strings.HasPrefix(origin, allowed) {
			return true
		}
	}
	s.logger.Warnw("rejected websocket origin", "origin", origin)
	return false
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error
		s.logger.Debugw("websocket upgrade failed", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &conn{
		server: s,
		ws:     ws,
		send:   make(chan *Message, sendBuffer),
		id:     uuid.NewString(),
		ctx:    ctx,
		cancel: cancel,
	}
	if !s.track(c) {
		s.logger.Debugw("rejected client during shutdown", "remote", r.RemoteAddr)
		c.close()
		return
	}
	s.logger.Debugw("client connected", "client_id", c.id, "remote", r.RemoteAddr)
	go func() {
		defer s.wg.Done()
		c.writePump()
	}()
	go func() {
		defer s.wg.Done()
		c.readPump()
	}()
}
