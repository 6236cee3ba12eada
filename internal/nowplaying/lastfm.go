package nowplaying

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

const userAgent = "awp/0.1.0"

// LastFMOptions configures a Last.fm client.
type LastFMOptions struct {
	Endpoint   string
	SessionKey string
	APIKey     string
	APISecret  string
	Cooldown   time.Duration
	Client     *http.Client
	Now        func() time.Time
}

// LastFM reports now-playing tracks to the Last.fm scrobbling API.
type LastFM struct {
	opts LastFMOptions

	mu       sync.Mutex
	lastCall time.Time
}

// NewLastFM constructs a Last.fm client.
func NewLastFM(opts LastFMOptions) *LastFM {
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &LastFM{opts: opts}
}

// NowPlaying calls track.updateNowPlaying for track.
func (l *LastFM) NowPlaying(ctx context.Context, track Track) error {
	if !track.Complete() {
		return ErrIncomplete
	}
	return l.call(ctx, "track.updateNowPlaying", map[string]string{
		"artist": track.Artist,
		"track":  track.Title,
	})
}

type apiError struct {
	Code    int    `json:"error"`
	Message string `json:"message"`
}

func (l *LastFM) call(ctx context.Context, method string, args map[string]string) error {
	if !l.acquire() {
		return ErrCooldown
	}

	params := make(map[string]string, len(args)+3)
	for k, v := range args {
		params[k] = v
	}
	params["method"] = method
	params["sk"] = l.opts.SessionKey
	params["api_key"] = l.opts.APIKey

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set("api_sig", Sign(params, l.opts.APISecret))
	form.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.opts.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build lastfm request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := l.opts.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send lastfm request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if resp.StatusCode >= 300 {
		return fmt.Errorf("lastfm returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var apiErr apiError
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Code != 0 {
		return fmt.Errorf("lastfm %s failed with code %d: %s", method, apiErr.Code, apiErr.Message)
	}
	return nil
}

// acquire reports whether a call may go out now and, if so, starts a new cooldown.
func (l *LastFM) acquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.opts.Now()
	if !l.lastCall.IsZero() && now.Sub(l.lastCall) <= l.opts.Cooldown {
		return false
	}
	l.lastCall = now
	return true
}

// Sign computes the Last.fm api_sig: the MD5 of every key and value
// concatenated in key order, followed by the shared secret.
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(params[k])
	}
	b.WriteString(secret)
	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
