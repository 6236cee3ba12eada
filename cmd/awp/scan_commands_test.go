package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ekimekim/awp/internal/testsupport"
)

func TestScanPrintsPlaylist(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := filepath.Join(env.baseDir, "music")
	testsupport.WriteFile(t, filepath.Join(dir, "a.mp3"), 8)
	testsupport.WriteFile(t, filepath.Join(dir, "notes.txt"), 8)
	testsupport.WriteFile(t, filepath.Join(dir, "sub", "b.ogg"), 8)

	out, _, err := runCLI(t, []string{"scan", "--no-sniff", "--weight", "4", dir}, env.configPath)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "4\t0.5\t"+filepath.Join(dir, "a.mp3")+"\n")
	requireContains(t, out, "4\t0.5\t"+filepath.Join(dir, "sub", "b.ogg")+"\n")
	if strings.Contains(out, "notes.txt") {
		t.Fatalf("non-audio file listed: %q", out)
	}

	out, _, err = runCLI(t, []string{"scan", "--no-sniff", "--no-recurse", "--extensions", "ogg,mp3", dir}, env.configPath)
	if err != nil {
		t.Fatalf("scan --no-recurse: %v", err)
	}
	if out != "16\t0.5\t"+filepath.Join(dir, "a.mp3")+"\n" {
		t.Fatalf("unexpected non-recursive output %q", out)
	}
}

func TestScanWritesOutputFile(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := filepath.Join(env.baseDir, "music")
	testsupport.WriteFile(t, filepath.Join(dir, "a.flac"), 8)
	output := filepath.Join(env.baseDir, "scanned.awp")

	out, _, err := runCLI(t, []string{"scan", "--no-sniff", "-o", output, dir}, env.configPath)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if out != "" {
		t.Fatalf("expected no stdout with --output, got %q", out)
	}
	if got := testsupport.ReadFile(t, output); got != "16\t0.5\t"+filepath.Join(dir, "a.flac")+"\n" {
		t.Fatalf("unexpected playlist %q", got)
	}
}

func TestMissingListsUnlistedFiles(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := filepath.Join(env.baseDir, "music")
	listed := filepath.Join(dir, "listed.mp3")
	unlisted := filepath.Join(dir, "unlisted.mp3")
	testsupport.WriteFile(t, listed, 8)
	testsupport.WriteFile(t, unlisted, 8)
	path := testsupport.WritePlaylist(t, filepath.Join(env.baseDir, "a.awp"),
		"32\t1\t"+listed,
		"16\t0.5\t/gone/track.mp3")

	out, errOut, err := runCLI(t, []string{"missing", "--no-sniff", path, dir}, env.configPath)
	if err != nil {
		t.Fatalf("missing: %v", err)
	}
	if out != unlisted+"\n" {
		t.Fatalf("unexpected output %q", out)
	}
	if strings.Contains(errOut, "warning:") {
		t.Fatalf("warnings printed without --verbose: %q", errOut)
	}

	out, errOut, err = runCLI(t, []string{"missing", "-v", "--no-sniff", path, dir + "/"}, env.configPath)
	if err != nil {
		t.Fatalf("missing -v: %v", err)
	}
	if out != unlisted+"\n" {
		t.Fatalf("unexpected verbose output %q", out)
	}
	requireContains(t, errOut, path+" contains 2 entries")
	requireContains(t, errOut, dir+"/ contains 2 entries")
	requireContains(t, errOut, "warning: /gone/track.mp3 not found")
}
