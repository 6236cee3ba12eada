package nowplaying

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ekimekim/awp/internal/config"
)

// ErrCooldown is returned when a report is suppressed because the previous
// one was too recent.
var ErrCooldown = errors.New("now playing report suppressed by cooldown")

// ErrIncomplete is returned when the track lacks an artist or title.
var ErrIncomplete = errors.New("track metadata incomplete")

// Reporter announces the track that just started.
type Reporter interface {
	NowPlaying(ctx context.Context, track Track) error
}

// NewReporter builds a Last.fm reporter when enabled in cfg; otherwise a
// reporter that does nothing.
func NewReporter(cfg *config.Config) Reporter {
	if cfg == nil || !cfg.LastFM.Enabled {
		return noopReporter{}
	}
	timeout := time.Duration(cfg.LastFM.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return NewLastFM(LastFMOptions{
		Endpoint:   cfg.LastFM.BaseURL,
		SessionKey: cfg.LastFM.SessionKey,
		APIKey:     cfg.LastFM.APIKey,
		APISecret:  cfg.LastFM.APISecret,
		Cooldown:   cfg.LastFMCooldown(),
		Client:     &http.Client{Timeout: timeout},
	})
}

type noopReporter struct{}

func (noopReporter) NowPlaying(context.Context, Track) error { return nil }
