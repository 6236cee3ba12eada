package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/ekimekim/awp/internal/config"
	"github.com/ekimekim/awp/internal/playlist"
)

// Process is a running media player.
type Process interface {
	// Stdin carries key commands to the player.
	Stdin() io.Writer
	// Stdout is the player's status output. It reaches EOF once the player
	// and everything sharing its output have exited.
	Stdout() io.Reader
	// Wait blocks until the player exits. It is called exactly once.
	Wait() error
	// Terminate asks the player to stop. It may be called after exit.
	Terminate() error
	// Close releases the output stream once it has been drained.
	Close() error
}

// Launcher starts a media player for one track.
type Launcher interface {
	Launch(ctx context.Context, path string, volume float64) (Process, error)
}

// ExecLauncher runs an mplayer-compatible binary.
type ExecLauncher struct {
	Binary    string
	ExtraArgs []string
	VolMax    float64
	VolFudge  float64
}

// NewExecLauncher builds a launcher from the [player] config section.
func NewExecLauncher(cfg *config.Config) *ExecLauncher {
	return &ExecLauncher{
		Binary:    cfg.Player.Binary,
		ExtraArgs: append([]string(nil), cfg.Player.ExtraArgs...),
		VolMax:    cfg.Player.VolMax,
		VolFudge:  cfg.Player.VolFudge,
	}
}

// Args returns the command line arguments used to play path at volume.
// Software volume is scaled so the player's 100% equals VolMax.
func (l *ExecLauncher) Args(path string, volume float64) []string {
	args := []string{
		"-vo", "none",
		"-softvol",
		"-softvol-max", playlist.FormatNumber(l.VolMax * 100),
		"-volume", playlist.FormatNumber(l.VolFudge * volume * 100 / l.VolMax),
	}
	args = append(args, l.ExtraArgs...)
	return append(args, path)
}

// Launch starts the player. Its stderr is discarded.
func (l *ExecLauncher) Launch(_ context.Context, path string, volume float64) (Process, error) {
	cmd := exec.Command(l.Binary, l.Args(path, volume)...) //nolint:gosec
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("player stdin: %w", err)
	}
	// os.Pipe rather than StdoutPipe: Wait must not close the reader while the
	// scraper is still draining it.
	outR, outW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("player stdout: %w", err)
	}
	cmd.Stdout = outW
	if err := cmd.Start(); err != nil {
		_ = outR.Close()
		_ = outW.Close()
		return nil, fmt.Errorf("start %s: %w", l.Binary, err)
	}
	_ = outW.Close()
	return &execProcess{cmd: cmd, stdin: stdin, stdout: outR}, nil
}

type execProcess struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *os.File
}

func (p *execProcess) Stdin() io.Writer  { return p.stdin }
func (p *execProcess) Stdout() io.Reader { return p.stdout }
func (p *execProcess) Wait() error       { return p.cmd.Wait() }
func (p *execProcess) Close() error      { return p.stdout.Close() }

func (p *execProcess) Terminate() error {
	if err := p.cmd.Process.Signal(syscall.SIGTERM); err != nil && !isProcessGone(err) {
		return err
	}
	return nil
}

func isProcessGone(err error) bool {
	return errors.Is(err, os.ErrProcessDone) || errors.Is(err, syscall.ESRCH)
}

// isBrokenPipe reports write errors caused by the player having already exited.
func isBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe)
}
