package input

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ekimekim/awp/internal/logging"
)

// Escape starts a multi-byte terminal key sequence.
const Escape byte = 0x1b

// DefaultEscapeTimeout is how long Next waits for further bytes of an escape sequence.
const DefaultEscapeTimeout = 100 * time.Millisecond

// ErrTimeout is returned by Get when no byte arrives within the timeout.
var ErrTimeout = errors.New("input timeout")

// Event is one unit of input: a single key or a complete escape sequence.
type Event []byte

// Key returns the single byte of a one-key event, or 0 for sequences.
func (e Event) Key() byte {
	if len(e) != 1 {
		return 0
	}
	return e[0]
}

// Multiplexer fans in bytes from any number of readers.
type Multiplexer struct {
	queue         chan byte
	escapeTimeout time.Duration
	logger        *slog.Logger

	wg sync.WaitGroup
}

// Option configures a Multiplexer.
type Option func(*Multiplexer)

// WithEscapeTimeout sets the escape sequence look-ahead window.
func WithEscapeTimeout(d time.Duration) Option {
	return func(m *Multiplexer) {
		if d > 0 {
			m.escapeTimeout = d
		}
	}
}

// WithLogger attaches a logger for source lifecycle messages.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Multiplexer) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New constructs an empty multiplexer.
func New(opts ...Option) *Multiplexer {
	m := &Multiplexer{
		queue:         make(chan byte, 4096),
		escapeTimeout: DefaultEscapeTimeout,
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddSource starts draining r into the shared queue. The goroutine exits when r
// returns EOF or an error, or when ctx is cancelled while the queue is full.
// Cancelling ctx does not interrupt a blocked Read; close the reader for that.
func (m *Multiplexer) AddSource(ctx context.Context, name string, r io.Reader) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.drain(ctx, name, r)
	}()
}

func (m *Multiplexer) drain(ctx context.Context, name string, r io.Reader) {
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			select {
			case m.queue <- b:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				m.logger.Debug("input source closed", logging.String("source", name))
			} else {
				m.logger.Debug("input source failed",
					logging.String("source", name),
					logging.Error(err),
				)
			}
			return
		}
	}
}

// Wait blocks until every source goroutine has exited.
func (m *Multiplexer) Wait() {
	m.wg.Wait()
}

// Get returns the next queued byte. A non-positive timeout waits until ctx is done.
func (m *Multiplexer) Get(ctx context.Context, timeout time.Duration) (byte, error) {
	select {
	case b := <-m.queue:
		return b, nil
	default:
	}

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}
	select {
	case b := <-m.queue:
		return b, nil
	case <-expired:
		return 0, ErrTimeout
	case <-ctx.Done():
		return 0, context.Cause(ctx)
	}
}

// Next returns the next event, blocking until one is available or ctx is done.
// An escape byte and everything that follows it within the escape timeout are
// returned together.
func (m *Multiplexer) Next(ctx context.Context) (Event, error) {
	b, err := m.Get(ctx, 0)
	if err != nil {
		return nil, err
	}
	if b != Escape {
		return Event{b}, nil
	}
	event := Event{b}
	for {
		next, err := m.Get(ctx, m.escapeTimeout)
		if errors.Is(err, ErrTimeout) {
			return event, nil
		}
		if err != nil {
			return event, err
		}
		event = append(event, next)
	}
}
