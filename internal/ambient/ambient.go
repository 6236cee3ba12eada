// Package ambient runs a background sound program alongside the player for
// the length of a session.
package ambient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/ekimekim/awp/internal/logging"
)

const stopGrace = 2 * time.Second

// Process is a running ambient program.
type Process struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	logger *slog.Logger
	done   chan struct{}

	once sync.Once
	err  error
}

// Start launches command with a held-open stdin and discarded output. An
// empty command returns a nil Process, which Stop accepts.
func Start(ctx context.Context, command []string, logger *slog.Logger) (*Process, error) {
	if len(command) == 0 {
		return nil, nil
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...) //nolint:gosec
	cmd.Cancel = func() error { return cmd.Process.Signal(syscall.SIGTERM) }
	cmd.WaitDelay = stopGrace
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("ambient stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ambient %s: %w", command[0], err)
	}

	p := &Process{cmd: cmd, stdin: stdin, logger: logger, done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.err = cmd.Wait()
	}()
	logger.Info("ambient started",
		logging.String("command", command[0]),
		logging.Int("pid", cmd.Process.Pid))
	return p, nil
}

// Done is closed when the program exits.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Stop terminates the program and waits for it to exit.
func (p *Process) Stop() error {
	if p == nil {
		return nil
	}
	p.once.Do(func() {
		_ = p.stdin.Close()
		select {
		case <-p.done:
		default:
			if err := p.cmd.Process.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
				p.logger.Debug("ambient terminate failed", logging.Error(err))
			}
			select {
			case <-p.done:
			case <-time.After(stopGrace):
				_ = p.cmd.Process.Kill()
				<-p.done
			}
		}
		p.logger.Info("ambient stopped")
	})
	var exitErr *exec.ExitError
	if errors.As(p.err, &exitErr) {
		// Exits caused by our SIGTERM are expected.
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return nil
		}
	}
	return p.err
}
