package main

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ekimekim/awp/internal/deps"
	"github.com/ekimekim/awp/internal/testsupport"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Player", statusError, "Not found", false)
	want := "  Player:" + strings.Repeat(" ", statusLabelWidth-len("Player:")) + " [ERROR] Not found"
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Player", statusOK, "Ready", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestRenderStatusLineColorsByKind(t *testing.T) {
	for kind, style := range statusStyles {
		got := renderStatusLine("Check", kind, "", true)
		if !strings.HasPrefix(got, style.color) || !strings.Contains(got, "["+style.tag+"]") {
			t.Fatalf("kind %d rendered as %q", kind, got)
		}
	}
}

func TestRenderSectionHeader(t *testing.T) {
	got := renderSectionHeader(" Setup ", false)
	if len(got) != 2 || got[0] != "== Setup ==" || got[1] != "-----------" {
		t.Fatalf("unexpected header %q", got)
	}
}

func TestDependencyLines(t *testing.T) {
	statuses := []deps.Status{
		{Name: "Player", Command: "mplayer", Description: "plays tracks", Available: true},
		{Name: "Ambient", Command: "rainymood", Optional: true, Detail: `binary "rainymood" not found`},
		{Name: "Other"},
	}
	lines := dependencyLines(statuses, false)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "[OK] mplayer (plays tracks)") {
		t.Fatalf("unexpected ready line %q", lines[0])
	}
	if !strings.Contains(lines[1], `[WARN] binary "rainymood" not found`) {
		t.Fatalf("unexpected optional line %q", lines[1])
	}
	if !strings.Contains(lines[2], "[ERROR] not available") {
		t.Fatalf("unexpected missing line %q", lines[2])
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestStatusReportsDependenciesAndPlaylist(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())
	testsupport.WritePlaylist(t, env.cfg.Paths.Playlist, "16\t/a.mp3", "8\t/b.mp3")

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{
		"== Player ==",
		"No player listening",
		"== Dependencies ==",
		"[OK] mplayer",
		"(2 entries, total weight 24)",
		"Now-playing updates disabled",
	} {
		requireContains(t, out, want)
	}
}

func TestStatusFailsWithoutPlayer(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithPlayerBinary("awp-test-missing-player"))

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	var exit exitError
	if !errors.As(err, &exit) || exit.code != 1 {
		t.Fatalf("expected exit status 1, got %v", err)
	}
	requireContains(t, out, "[ERROR]")
	requireContains(t, out, "does not exist")
}
