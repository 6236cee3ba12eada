// Package watch reports edits made to the playlist file by other programs
// while the player is running.
//
// The playlist is replaced by rename, so the watcher observes the containing
// directory and filters for the playlist's base name. Writes the player makes
// itself are announced with ExpectWrite and suppressed.
package watch

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ekimekim/awp/internal/logging"
)

const (
	// debounce collapses the burst of events one save produces.
	debounce = 100 * time.Millisecond
	// selfWriteWindow is how long after ExpectWrite events are treated as our own.
	selfWriteWindow = time.Second
)

// Event describes an external change to the watched file.
type Event struct {
	Path string
	Op   fsnotify.Op
	At   time.Time
}

// Watcher observes a single file.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	events  chan Event
	closeCh chan struct{}
	done    chan struct{}
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	ignoreTo time.Time
	once     sync.Once
}

// New starts watching path. The file need not exist yet; its directory must.
func New(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve watch path: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:    abs,
		watcher: fw,
		events:  make(chan Event, 16),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
		logger:  logger,
		now:     time.Now,
	}
	go w.run()
	return w, nil
}

// Events delivers external changes. The channel is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// ExpectWrite marks the next changes as self-inflicted.
func (w *Watcher) ExpectWrite() {
	w.mu.Lock()
	w.ignoreTo = w.now().Add(selfWriteWindow)
	w.mu.Unlock()
}

func (w *Watcher) ignoring(at time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return at.Before(w.ignoreTo)
}

// Close stops watching.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.events)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	var last time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			now := w.now()
			if w.ignoring(now) {
				continue
			}
			if now.Sub(last) < debounce {
				continue
			}
			last = now
			select {
			case w.events <- Event{Path: w.path, Op: event.Op, At: now}:
			default:
				w.logger.Debug("playlist change dropped", logging.String("op", event.Op.String()))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("playlist watch error", logging.Error(err))
		case <-w.closeCh:
			return
		}
	}
}
