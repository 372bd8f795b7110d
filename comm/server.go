package comm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const (
	shutdownSentinel = "shutdown"
	shutdownReply    = "Shutting down"

	// readTimeout bounds how long a connection may sit idle before sending
	// its request.
	readTimeout = 30 * time.Second

	defaultMaxConnections = 4
)

// serverActive guards against a second live server instance in the process.
// It is released when the running instance terminates.
var serverActive atomic.Bool

// Server accepts framed messages on a single TCP listener and delegates each
// one to the injected Handler. Construct instances with StartServer.
type Server struct {
	handler Handler
	log     *zap.Logger

	listener net.Listener
	sem      *semaphore.Weighted

	// handlerMu serializes the Execute+Summary pair: the reply for a
	// request must carry the summary computed for that same request, so
	// only connection admission and I/O run concurrently.
	handlerMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc

	stopOnce sync.Once
	done     chan struct{}
}

type serverConfig struct {
	log      *zap.Logger
	maxConns int64
}

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

// WithLogger sets the logger used for connection-level diagnostics.
func WithLogger(log *zap.Logger) ServerOption {
	return func(cfg *serverConfig) {
		if log == nil {
			panic("nil server logger")
		}
		cfg.log = log
	}
}

// WithMaxConnections bounds how many connections may be served
// concurrently (default 4; must be positive). Handler invocations themselves
// still run one at a time.
func WithMaxConnections(n int) ServerOption {
	return func(cfg *serverConfig) {
		if n < 1 {
			panic("max connections must be positive")
		}
		cfg.maxConns = int64(n)
	}
}

// StartServer begins listening on addr ("host::port"; DefaultAddress when
// empty) and serves until a shutdown message arrives or Stop is called.
// It fails with ErrServerRunning when another instance is live in the
// process, and with ErrMalformedAddress for an invalid address.
func StartServer(addr string, handler Handler, opts ...ServerOption) (*Server, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if addr == "" {
		addr = DefaultAddress
	}
	hostport, err := ParseAddress(addr)
	if err != nil {
		return nil, err
	}

	cfg := serverConfig{log: zap.NewNop(), maxConns: defaultMaxConnections}
	for _, opt := range opts {
		if opt == nil {
			panic("nil server option")
		}
		opt(&cfg)
	}

	if !serverActive.CompareAndSwap(false, true) {
		return nil, ErrServerRunning
	}

	listener, err := net.Listen("tcp", hostport)
	if err != nil {
		serverActive.Store(false)
		return nil, fmt.Errorf(Namespace+": listen on %s: %w", hostport, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		handler:  handler,
		log:      cfg.log,
		listener: listener,
		sem:      semaphore.NewWeighted(cfg.maxConns),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	go s.run()

	s.log.Info("server listening", zap.String("address", listener.Addr().String()))
	return s, nil
}

// Addr returns the listener's bound address. Useful when the configured port
// was 0.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Stop closes the listener so the accept loop unblocks. Best-effort and
// idempotent; in-flight handlers still drain before Wait returns.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		_ = s.listener.Close()
	})
}

// Wait blocks until the server has terminated: the listener is closed and
// every admitted connection has been served.
func (s *Server) Wait() {
	<-s.done
}

// run is the accept loop. I/O errors on accept are logged and absorbed; the
// loop exits only once the listener is closed.
func (s *Server) run() {
	var group errgroup.Group

	defer func() {
		group.Wait()
		serverActive.Store(false)
		s.log.Info("server terminated")
		close(s.done)
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.ctx.Done():
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.log.Warn("accept failed", zap.Error(err))
			continue
		}

		group.Go(func() error {
			s.serve(conn)
			return nil
		})
	}
}

// serve handles one connection: exactly one framed request, exactly one
// framed reply. Receive and reply failures are logged and absorbed.
func (s *Server) serve(conn net.Conn) {
	defer conn.Close()

	id := uuid.NewString()

	if err := s.sem.Acquire(s.ctx, 1); err != nil {
		// Shutting down; the connection is dropped without a reply.
		return
	}
	defer s.sem.Release(1)

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

	msg, err := readMessage(bufio.NewReader(conn))
	if err != nil {
		s.log.Warn("receive failed", zap.String("conn", id), zap.Error(err))
		return
	}

	if strings.TrimSpace(msg) == shutdownSentinel {
		if err := writeMessage(conn, shutdownReply); err != nil {
			s.log.Warn("shutdown reply failed", zap.String("conn", id), zap.Error(err))
		}
		s.log.Info("shutdown requested", zap.String("conn", id))
		s.Stop()
		return
	}

	s.handlerMu.Lock()
	s.handler.Execute(msg)
	reply := s.handler.Summary()
	s.handlerMu.Unlock()

	if err := writeMessage(conn, reply); err != nil {
		s.log.Warn("reply failed", zap.String("conn", id), zap.Error(err))
	}
}
