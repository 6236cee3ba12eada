package playlist

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/ekimekim/awp/internal/logging"
)

// Entry is a single playlist record.
type Entry struct {
	Path   string
	Weight float64
	Volume float64
}

// Values is the (weight, volume) pair stored for a path.
type Values struct {
	Weight float64
	Volume float64
}

// Store is an insertion-ordered collection of entries keyed by path.
type Store struct {
	order      []string
	entries    map[string]Values
	dirty      bool
	sourcePath string

	rng    *rand.Rand
	logger *slog.Logger
}

// Option customizes a Store.
type Option func(*Store)

// WithRand sets the random source used by Next. Tests pass a seeded source.
func WithRand(rng *rand.Rand) Option {
	return func(s *Store) { s.rng = rng }
}

// WithLogger routes overwrite warnings to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New returns an empty, clean store.
func New(opts ...Option) *Store {
	s := &Store{entries: make(map[string]Values)}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	return s
}

// Len returns the number of entries.
func (s *Store) Len() int { return len(s.order) }

// Dirty reports whether the store holds changes not yet written.
func (s *Store) Dirty() bool { return s.dirty }

// SourcePath returns the file most recently read into the store.
func (s *Store) SourcePath() string { return s.sourcePath }

// Get returns the values stored for path.
func (s *Store) Get(path string) (Values, bool) {
	v, ok := s.entries[path]
	return v, ok
}

// Entries returns an ordered snapshot of every entry.
func (s *Store) Entries() []Entry {
	out := make([]Entry, 0, len(s.order))
	for _, path := range s.order {
		v := s.entries[path]
		out = append(out, Entry{Path: path, Weight: v.Weight, Volume: v.Volume})
	}
	return out
}

// Add inserts or overwrites path and marks the store dirty. It reports whether
// an existing entry was replaced; when warn is set that replacement is also
// logged.
func (s *Store) Add(path string, weight, volume float64, warn bool) bool {
	s.dirty = true
	old, exists := s.entries[path]
	if exists {
		if warn {
			s.logger.Warn("overwriting existing playlist entry",
				logging.String("entry", formatValues(path, old)),
				logging.String(logging.FieldEventType, "playlist_entry_overwritten"),
			)
		}
	} else {
		s.order = append(s.order, path)
	}
	s.entries[path] = Values{Weight: weight, Volume: volume}
	return exists
}

// Remove deletes path if present. It reports whether anything was removed.
func (s *Store) Remove(path string) bool {
	if _, ok := s.entries[path]; !ok {
		return false
	}
	delete(s.entries, path)
	if idx := slices.Index(s.order, path); idx >= 0 {
		s.order = slices.Delete(s.order, idx, idx+1)
	}
	s.dirty = true
	return true
}

// Next draws an entry at random with probability proportional to its weight,
// considering only paths accepted by filter (nil accepts all).
func (s *Store) Next(filter func(path string) bool) (Entry, error) {
	var total float64
	for _, path := range s.order {
		if filter != nil && !filter(path) {
			continue
		}
		total += s.entries[path].Weight
	}
	if total <= 0 {
		return Entry{}, ErrEmptySelection
	}

	x := s.draw() * total
	var last Entry
	for _, path := range s.order {
		v := s.entries[path]
		if v.Weight <= 0 || (filter != nil && !filter(path)) {
			continue
		}
		last = Entry{Path: path, Weight: v.Weight, Volume: v.Volume}
		x -= v.Weight
		if x <= 0 {
			return last, nil
		}
	}
	// Float rounding can leave a sliver of x after the final entry.
	return last, nil
}

func (s *Store) draw() float64 {
	if s.rng != nil {
		return s.rng.Float64()
	}
	return rand.Float64()
}

// Copy returns an independent store with the same entries and a clean dirty
// flag. The random source and logger are shared.
func (s *Store) Copy() *Store {
	out := &Store{
		order:   slices.Clone(s.order),
		entries: make(map[string]Values, len(s.entries)),
		rng:     s.rng,
		logger:  s.logger,
	}
	for k, v := range s.entries {
		out.entries[k] = v
	}
	return out
}

// Verify returns the paths whose files are not readable by this process.
func (s *Store) Verify() []string {
	var bad []string
	for _, path := range s.order {
		if err := unix.Access(path, unix.R_OK); err != nil {
			bad = append(bad, path)
		}
	}
	return bad
}

// FormatEntry renders path in the canonical human form: 16x "/a.mp3" @0.5.
func (s *Store) FormatEntry(path string) (string, error) {
	v, ok := s.entries[path]
	if !ok {
		return "", fmt.Errorf("format %q: %w", path, ErrNotFound)
	}
	return formatValues(path, v), nil
}

// MeanVolume returns the average volume across all entries, or zero for an
// empty store.
func (s *Store) MeanVolume() float64 {
	if len(s.order) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s.entries {
		sum += v.Volume
	}
	return sum / float64(len(s.entries))
}

// TotalWeight sums every entry's weight.
func (s *Store) TotalWeight() float64 {
	var sum float64
	for _, v := range s.entries {
		sum += v.Weight
	}
	return sum
}

func formatValues(path string, v Values) string {
	return fmt.Sprintf("%sx %q @%s", FormatNumber(v.Weight), path, FormatNumber(v.Volume))
}

// FormatNumber renders a weight or volume in the shortest form that parses
// back to the same value.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
