package player_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ekimekim/awp/internal/config"
	"github.com/ekimekim/awp/internal/player"
)

func TestExecLauncherArgs(t *testing.T) {
	cfg := config.Default()
	cfg.Player.VolMax = 2
	cfg.Player.VolFudge = 1
	cfg.Player.ExtraArgs = []string{"-really-quiet"}
	launcher := player.NewExecLauncher(&cfg)

	got := strings.Join(launcher.Args("/music/a b.mp3", 0.5), " ")
	want := "-vo none -softvol -softvol-max 200 -volume 25 -really-quiet /music/a b.mp3"
	if got != want {
		t.Fatalf("args %q, want %q", got, want)
	}

	launcher.VolFudge = 2
	got = strings.Join(launcher.Args("/x.ogg", 0.5), " ")
	if !strings.Contains(got, "-volume 50 ") {
		t.Fatalf("fudge not applied: %q", got)
	}
}

func TestExecLauncherRunsPlayer(t *testing.T) {
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args")
	stub := filepath.Join(dir, "fakeplayer")
	script := "#!/bin/sh\necho \"$@\" > " + argsFile + "\nprintf 'Volume: 50 %%\\n'\nexec cat >/dev/null\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	launcher := &player.ExecLauncher{Binary: stub, VolMax: 2, VolFudge: 1}
	proc, err := launcher.Launch(context.Background(), "/music/a.mp3", 1)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}

	buf := make([]byte, len("Volume: 50 %\n"))
	if _, err := io.ReadFull(proc.Stdout(), buf); err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(buf) != "Volume: 50 %\n" {
		t.Fatalf("unexpected output %q", buf)
	}

	if err := proc.Terminate(); err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	_ = proc.Wait()
	if _, err := io.ReadAll(proc.Stdout()); err != nil {
		t.Fatalf("drain output: %v", err)
	}
	if err := proc.Terminate(); err != nil {
		t.Fatalf("Terminate after exit: %v", err)
	}
	if _, err := proc.Stdin().Write([]byte("q")); err == nil {
		t.Fatal("expected write to exited player to fail")
	}
	_ = proc.Close()

	args, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	if strings.TrimSpace(string(args)) != "-vo none -softvol -softvol-max 200 -volume 50 /music/a.mp3" {
		t.Fatalf("unexpected args %q", args)
	}
}
