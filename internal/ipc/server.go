package ipc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/gofrs/flock"

	"github.com/ekimekim/awp/internal/logging"
)

// ErrAlreadyRunning is returned when another player holds the socket lock.
var ErrAlreadyRunning = errors.New("another awp player is already listening")

// Sink receives the byte stream of each accepted connection.
type Sink interface {
	AddSource(ctx context.Context, name string, r io.Reader)
}

// Server accepts control connections on a Unix domain socket.
type Server struct {
	path     string
	sink     Sink
	logger   *slog.Logger
	listener net.Listener
	lock     *flock.Flock

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.Mutex
	conns map[net.Conn]struct{}
	seq   int
}

// NewServer takes the lock at lockPath and listens at path, replacing any
// stale socket left by a previous run.
func NewServer(ctx context.Context, path, lockPath string, sink Sink, logger *slog.Logger) (*Server, error) {
	if sink == nil {
		return nil, errors.New("ipc server requires an input sink")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire socket lock: %w", err)
	}
	if !ok {
		return nil, ErrAlreadyRunning
	}

	if err := os.RemoveAll(path); err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:     path,
		sink:     sink,
		logger:   logger,
		listener: listener,
		lock:     lock,
		ctx:      serverCtx,
		cancel:   cancel,
		conns:    make(map[net.Conn]struct{}),
	}, nil
}

// Path returns the socket path.
func (s *Server) Path() string { return s.path }

// Serve starts accepting connections until the server is closed.
func (s *Server) Serve() {
	s.logger.Debug("control socket listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
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
				logging.WarnWithContext(s.logger, "accept failed", "ipc_accept_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "control clients may fail to connect"),
					logging.String(logging.FieldErrorHint, "check socket permissions"))
				continue
			}
			s.track(conn)
		}
	}()
}

func (s *Server) track(conn net.Conn) {
	s.mu.Lock()
	s.seq++
	name := fmt.Sprintf("control-%d", s.seq)
	s.conns[conn] = struct{}{}
	s.mu.Unlock()

	s.logger.Debug("control client connected", logging.String("source", name))
	s.sink.AddSource(s.ctx, name, &trackedConn{Conn: conn, release: func() { s.forget(conn) }})
}

func (s *Server) forget(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

// Close stops accepting, disconnects clients, removes the socket file and
// releases the lock.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()

	s.mu.Lock()
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.conns = map[net.Conn]struct{}{}
	s.mu.Unlock()

	if err := os.RemoveAll(s.path); err != nil {
		logging.WarnWithContext(s.logger, "failed to remove socket", "ipc_socket_cleanup_failed",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "stale control socket left behind"),
			logging.String(logging.FieldErrorHint, "remove the socket file manually"))
	}
	if err := s.lock.Unlock(); err != nil {
		s.logger.Warn("failed to release socket lock", logging.Error(err))
	}
}

// trackedConn closes itself and drops out of the server's connection set once
// its reader hits EOF or an error.
type trackedConn struct {
	net.Conn
	release func()
	once    sync.Once
}

func (c *trackedConn) Read(p []byte) (int, error) {
	n, err := c.Conn.Read(p)
	if err != nil {
		c.once.Do(func() {
			_ = c.Conn.Close()
			c.release()
		})
	}
	return n, err
}
