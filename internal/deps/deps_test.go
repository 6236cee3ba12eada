package deps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ekimekim/awp/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
}

func TestForConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Player.Binary = "mpv"
	if reqs := ForConfig(&cfg); len(reqs) != 1 || reqs[0].Command != "mpv" || reqs[0].Optional {
		t.Fatalf("unexpected requirements: %#v", reqs)
	}

	cfg.Ambient.Command = []string{"rainymood", "--quiet"}
	reqs := ForConfig(&cfg)
	if len(reqs) != 2 || reqs[1].Command != "rainymood" || !reqs[1].Optional {
		t.Fatalf("unexpected requirements: %#v", reqs)
	}
}

func TestFirstMissing(t *testing.T) {
	statuses := []Status{
		{Name: "Ambient", Optional: true, Detail: "binary \"rainymood\" not found"},
		{Name: "Player", Available: true},
	}
	if err := FirstMissing(statuses); err != nil {
		t.Fatalf("optional dependency should not fail: %v", err)
	}
	statuses[1] = Status{Name: "Player", Detail: "binary \"mplayer\" not found"}
	if err := FirstMissing(statuses); err == nil {
		t.Fatal("expected error for missing player")
	}
}
