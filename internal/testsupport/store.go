package testsupport

import (
	"context"
	"testing"

	"github.com/ekimekim/awp/internal/config"
	"github.com/ekimekim/awp/internal/history"
)

// MustOpenHistory opens the play journal for tests and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(context.Background(), cfg.History.Path)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
