package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ekimekim/awp/internal/history"
	"github.com/ekimekim/awp/internal/input"
	"github.com/ekimekim/awp/internal/logging"
	"github.com/ekimekim/awp/internal/nowplaying"
	"github.com/ekimekim/awp/internal/playlist"
	"github.com/ekimekim/awp/internal/watch"
)

// ErrChildExited is the cancellation cause set when the player exits on its own.
var ErrChildExited = errors.New("player exited")

// clearScreen homes the cursor and clears the terminal.
const clearScreen = "\x1b[H\x1b[2J"

const (
	skipCommand = "q"
	quitCommand = "q"
)

// Events supplies input events.
type Events interface {
	Next(ctx context.Context) (input.Event, error)
}

// Recorder journals finished plays.
type Recorder interface {
	Record(ctx context.Context, play history.Play) (int64, error)
}

// ChangeNotifier reports external edits to the playlist file.
type ChangeNotifier interface {
	ExpectWrite()
	Events() <-chan watch.Event
}

// Options configures a Supervisor.
type Options struct {
	PlaylistPath string
	VolMax       float64
	VolFudge     float64
	VolumeStep   float64

	Launcher Launcher
	Input    Events
	Display  io.Writer
	Logger   *slog.Logger

	History  Recorder
	Reporter nowplaying.Reporter
	Watcher  ChangeNotifier

	// StoreOptions apply to every load of the playlist.
	StoreOptions []playlist.Option
	SessionID    string
}

// Supervisor runs the play loop.
type Supervisor struct {
	opts    Options
	logger  *slog.Logger
	store   *playlist.Store
	session string
}

// New validates opts and returns a supervisor. The playlist is not read until Run.
func New(opts Options) (*Supervisor, error) {
	if opts.PlaylistPath == "" {
		return nil, playlist.ErrNoPath
	}
	if opts.Launcher == nil {
		return nil, errors.New("player requires a launcher")
	}
	if opts.Input == nil {
		return nil, errors.New("player requires an input source")
	}
	if opts.VolMax <= 0 {
		return nil, fmt.Errorf("vol_max must be positive, got %v", opts.VolMax)
	}
	if opts.VolFudge == 0 {
		opts.VolFudge = 1
	}
	if opts.VolumeStep <= 0 {
		opts.VolumeStep = 0.03
	}
	if opts.Display == nil {
		opts.Display = io.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	session := opts.SessionID
	if session == "" {
		session = uuid.NewString()
	}
	return &Supervisor{
		opts:    opts,
		logger:  logging.NewComponentLogger(logger, "player"),
		session: session,
	}, nil
}

// SessionID identifies this run in logs and history.
func (s *Supervisor) SessionID() string { return s.session }

// Run plays tracks until the operator quits, ctx is cancelled or an error
// occurs. Quitting returns nil; cancellation returns the context's error.
func (s *Supervisor) Run(ctx context.Context) error {
	ctx = logging.WithSession(ctx, s.session)
	store, err := playlist.Load(s.opts.PlaylistPath, s.storeOptions()...)
	if err != nil {
		return fmt.Errorf("load playlist: %w", err)
	}
	s.store = store

	if s.opts.Watcher != nil {
		watchCtx, stopWatch := context.WithCancel(ctx)
		defer stopWatch()
		go s.logChanges(watchCtx)
	}

	logging.WithContext(ctx, s.logger).Info("player session started",
		logging.String("playlist", s.opts.PlaylistPath),
		logging.Int("entries", store.Len()))

	for {
		quit, err := s.playNext(ctx)
		if err != nil {
			return err
		}
		if quit {
			logging.WithContext(ctx, s.logger).Info("player session ended")
			return nil
		}
	}
}

func (s *Supervisor) storeOptions() []playlist.Option {
	opts := append([]playlist.Option(nil), s.opts.StoreOptions...)
	return append(opts, playlist.WithLogger(s.logger))
}

func (s *Supervisor) logChanges(ctx context.Context) {
	events := s.opts.Watcher.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			logging.WithContext(ctx, s.logger).Info("playlist changed on disk",
				logging.String(logging.FieldEventType, "playlist_external_edit"),
				logging.String("op", event.Op.String()))
		}
	}
}

// trackState is everything the play loop tracks for the current track.
type trackState struct {
	entry   playlist.Entry
	factor  float64
	volume  *volumeCell
	outcome history.Outcome
	started time.Time
	ended   time.Time
}

// playNext plays one track and commits its changes. It reports whether the
// operator asked to quit.
func (s *Supervisor) playNext(ctx context.Context) (bool, error) {
	entry, err := s.store.Next(nil)
	if err != nil {
		return false, fmt.Errorf("select track: %w", err)
	}
	track := &trackState{
		entry:   entry,
		factor:  1,
		volume:  newVolumeCell(entry.Volume, s.opts.VolMax),
		outcome: history.OutcomeFinished,
	}
	trackCtx := logging.WithTrack(ctx, entry.Path)
	logger := logging.WithContext(trackCtx, s.logger)

	meta := nowplaying.Lookup(entry.Path)
	s.writeHeader(entry, meta)

	playErr := s.play(trackCtx, track, logger)
	s.recordPlay(ctx, track, logger)

	if err := ctx.Err(); err != nil {
		return false, err
	}
	if track.outcome == history.OutcomeQuit {
		return true, nil
	}
	if playErr != nil {
		return false, playErr
	}
	if err := s.commit(track, logger); err != nil {
		return false, err
	}
	return false, nil
}

func (s *Supervisor) writeHeader(entry playlist.Entry, meta nowplaying.Track) {
	line, err := s.store.FormatEntry(entry.Path)
	if err != nil {
		line = entry.Path
	}
	header := clearScreen + "\n" + line + "\n"
	if meta.Complete() {
		header += meta.String() + "\n"
	}
	_, _ = io.WriteString(s.opts.Display, header+"\n")
}

// play runs Loading through Draining for one track.
func (s *Supervisor) play(ctx context.Context, track *trackState, logger *slog.Logger) error {
	track.started = time.Now()
	defer func() { track.ended = time.Now() }()

	proc, err := s.opts.Launcher.Launch(ctx, track.entry.Path, track.entry.Volume)
	if err != nil {
		track.outcome = history.OutcomeError
		return fmt.Errorf("launch player: %w", err)
	}
	logger.Debug("track started",
		logging.Float64("weight", track.entry.Weight),
		logging.Float64("volume", track.entry.Volume))
	s.announce(ctx, track.entry.Path, logger)

	playCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var g errgroup.Group
	exited := make(chan struct{})
	g.Go(func() error {
		defer close(exited)
		waitErr := proc.Wait()
		cancel(ErrChildExited)
		if waitErr != nil {
			logger.Debug("player exited", logging.Error(waitErr))
		}
		return nil
	})
	scrape := &scraper{display: s.opts.Display, onVolume: func(percent float64) {
		if s.opts.VolFudge == 1 {
			track.volume.observe(percent / 100)
		}
	}}
	g.Go(func() error {
		if err := scrape.run(proc.Stdout()); err != nil {
			return fmt.Errorf("copy player output: %w", err)
		}
		return nil
	})

	loopErr := s.inputLoop(playCtx, proc, track)
	if errors.Is(loopErr, ErrChildExited) {
		loopErr = nil
	}

	// Draining.
	select {
	case <-exited:
	default:
		if err := proc.Terminate(); err != nil && !isProcessGone(err) && loopErr == nil {
			loopErr = fmt.Errorf("terminate player: %w", err)
		}
	}
	if err := g.Wait(); err != nil {
		logger.Warn("player output lost", logging.Error(err))
	}
	if err := proc.Close(); err != nil {
		logger.Debug("close player output", logging.Error(err))
	}

	switch {
	case ctx.Err() != nil:
		track.outcome = history.OutcomeQuit
	case loopErr != nil && track.outcome != history.OutcomeQuit:
		track.outcome = history.OutcomeError
	}
	return loopErr
}

// inputLoop handles events until the player exits, the operator quits or a
// write to the player fails.
func (s *Supervisor) inputLoop(ctx context.Context, proc Process, track *trackState) error {
	for {
		event, err := s.opts.Input.Next(ctx)
		if err != nil {
			if cause := context.Cause(ctx); cause != nil {
				return cause
			}
			return fmt.Errorf("read input: %w", err)
		}

		var forward []byte
		switch event.Key() {
		case 'q':
			track.factor *= 0.5
			track.outcome = history.OutcomeSkipped
			forward = []byte(skipCommand)
		case 'f':
			track.factor *= 2
		case 'd':
			track.factor *= 0.5
		case 'Q':
			track.outcome = history.OutcomeQuit
			if _, err := s.send(proc, []byte(quitCommand)); err != nil {
				return err
			}
			return nil
		case '*':
			track.volume.adjust(s.opts.VolumeStep)
			forward = event
		case '/':
			track.volume.adjust(-s.opts.VolumeStep)
			forward = event
		default:
			forward = event
		}
		if len(forward) == 0 {
			continue
		}
		ended, err := s.send(proc, forward)
		if err != nil {
			return err
		}
		if ended {
			return nil
		}
	}
}

// send writes to the player. A closed pipe means the player already exited,
// which ends the track without error.
func (s *Supervisor) send(proc Process, b []byte) (bool, error) {
	if _, err := proc.Stdin().Write(b); err != nil {
		if isBrokenPipe(err) {
			return true, nil
		}
		return false, fmt.Errorf("write to player: %w", err)
	}
	return false, nil
}

func (s *Supervisor) announce(ctx context.Context, path string, logger *slog.Logger) {
	if s.opts.Reporter == nil {
		return
	}
	meta := nowplaying.Lookup(path)
	if err := s.opts.Reporter.NowPlaying(ctx, meta); err != nil {
		switch {
		case errors.Is(err, nowplaying.ErrCooldown), errors.Is(err, nowplaying.ErrIncomplete):
			logger.Debug("now playing not reported", logging.Error(err))
		default:
			logging.WarnWithContext(logger, "now playing report failed", "nowplaying_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "track not shown as playing"),
				logging.String(logging.FieldErrorHint, "check Last.fm credentials"))
		}
	}
}

func (s *Supervisor) recordPlay(ctx context.Context, track *trackState, logger *slog.Logger) {
	if s.opts.History == nil {
		return
	}
	endVolume := track.entry.Volume
	if v, ok := s.finalVolume(track); ok {
		endVolume = v
	}
	// The journal entry must survive an interrupted session.
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	_, err := s.opts.History.Record(recordCtx, history.Play{
		SessionID:    s.session,
		Path:         track.entry.Path,
		StartedAt:    track.started,
		EndedAt:      track.ended,
		Outcome:      track.outcome,
		WeightFactor: track.factor,
		StartVolume:  track.entry.Volume,
		EndVolume:    endVolume,
	})
	if err != nil {
		logger.Warn("history record failed", logging.Error(err))
	}
}

// finalVolume returns the volume to persist and whether it differs from the
// starting volume. A fudge factor other than 1 disables volume learning.
func (s *Supervisor) finalVolume(track *trackState) (float64, bool) {
	if s.opts.VolFudge != 1 {
		return track.entry.Volume, false
	}
	fraction, touched := track.volume.snapshot()
	if !touched {
		return track.entry.Volume, false
	}
	v := fraction * s.opts.VolMax
	return v, v != track.entry.Volume
}

// commit reloads the playlist and applies this track's pending change.
func (s *Supervisor) commit(track *trackState, logger *slog.Logger) error {
	fresh, err := playlist.Load(s.opts.PlaylistPath, s.storeOptions()...)
	if err != nil {
		return fmt.Errorf("reload playlist: %w", err)
	}
	s.store = fresh

	volume, volumeChanged := s.finalVolume(track)
	if track.factor == 1 && !volumeChanged {
		return nil
	}
	volumeField := playlist.Keep()
	if volumeChanged {
		volumeField = playlist.Set(volume)
	}
	if err := fresh.Update(track.entry.Path, playlist.Scale(track.factor), volumeField); err != nil {
		if errors.Is(err, playlist.ErrNotFound) {
			logging.WarnWithContext(logger, "track removed from playlist during playback", "playlist_update_lost",
				logging.Float64("weight_factor", track.factor),
				logging.String(logging.FieldImpact, "weight and volume change discarded"),
				logging.String(logging.FieldErrorHint, "re-add the track if the removal was unintended"))
			return nil
		}
		return fmt.Errorf("update playlist: %w", err)
	}
	if s.opts.Watcher != nil {
		s.opts.Watcher.ExpectWrite()
	}
	if err := fresh.WriteFile(""); err != nil {
		return fmt.Errorf("save playlist: %w", err)
	}
	logger.Info("playlist updated",
		logging.Float64("weight_factor", track.factor),
		logging.Float64("volume", volume),
		logging.Bool("volume_changed", volumeChanged))
	return nil
}
