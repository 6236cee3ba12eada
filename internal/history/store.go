package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Outcome describes how a track's playback ended.
type Outcome string

const (
	// OutcomeFinished means the player exited on its own.
	OutcomeFinished Outcome = "finished"
	// OutcomeSkipped means the operator skipped the track.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeQuit means the operator quit the player during the track.
	OutcomeQuit Outcome = "quit"
	// OutcomeError means playback was aborted by an error.
	OutcomeError Outcome = "error"
)

// Play is one journal row.
type Play struct {
	ID           int64
	SessionID    string
	Path         string
	StartedAt    time.Time
	EndedAt      time.Time
	Outcome      Outcome
	WeightFactor float64
	StartVolume  float64
	EndVolume    float64
}

// Duration returns how long the track played.
func (p Play) Duration() time.Duration {
	if p.EndedAt.Before(p.StartedAt) {
		return 0
	}
	return p.EndedAt.Sub(p.StartedAt)
}

// Summary aggregates the journal.
type Summary struct {
	Plays    int
	Sessions int
	Outcomes map[Outcome]int
	Tracks   int
}

// Store manages the play journal backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends a play and returns its row ID.
func (s *Store) Record(ctx context.Context, play Play) (int64, error) {
	if play.Path == "" {
		return 0, errors.New("record play: path is empty")
	}
	if play.Outcome == "" {
		play.Outcome = OutcomeFinished
	}
	if play.WeightFactor == 0 {
		play.WeightFactor = 1
	}
	var id int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO plays (session_id, path, started_at, ended_at, outcome, weight_factor, start_volume, end_volume)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			play.SessionID,
			play.Path,
			formatTime(play.StartedAt),
			formatTime(play.EndedAt),
			string(play.Outcome),
			play.WeightFactor,
			play.StartVolume,
			play.EndVolume,
		)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("record play: %w", err)
	}
	return id, nil
}

// Recent returns up to limit plays, newest first. A non-positive limit returns all plays.
func (s *Store) Recent(ctx context.Context, limit int) ([]Play, error) {
	query := `SELECT id, session_id, path, started_at, ended_at, outcome, weight_factor, start_volume, end_volume
		FROM plays ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query plays: %w", err)
	}
	defer rows.Close()

	var plays []Play
	for rows.Next() {
		var (
			play           Play
			started, ended string
			outcome        string
		)
		if err := rows.Scan(&play.ID, &play.SessionID, &play.Path, &started, &ended, &outcome,
			&play.WeightFactor, &play.StartVolume, &play.EndVolume); err != nil {
			return nil, fmt.Errorf("scan play: %w", err)
		}
		play.Outcome = Outcome(outcome)
		if play.StartedAt, err = parseTime(started); err != nil {
			return nil, err
		}
		if play.EndedAt, err = parseTime(ended); err != nil {
			return nil, err
		}
		plays = append(plays, play)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plays: %w", err)
	}
	return plays, nil
}

// Summarize aggregates the whole journal.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	summary := Summary{Outcomes: make(map[Outcome]int)}
	row := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1), COUNT(DISTINCT session_id), COUNT(DISTINCT path) FROM plays")
	if err := row.Scan(&summary.Plays, &summary.Sessions, &summary.Tracks); err != nil {
		return summary, fmt.Errorf("count plays: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT outcome, COUNT(1) FROM plays GROUP BY outcome")
	if err != nil {
		return summary, fmt.Errorf("count outcomes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			outcome string
			count   int
		)
		if err := rows.Scan(&outcome, &count); err != nil {
			return summary, fmt.Errorf("scan outcome: %w", err)
		}
		summary.Outcomes[Outcome(outcome)] = count
	}
	if err := rows.Err(); err != nil {
		return summary, fmt.Errorf("iterate outcomes: %w", err)
	}
	return summary, nil
}

// timeLayout is fixed width so stored timestamps sort chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return t, nil
}
