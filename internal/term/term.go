// Package term switches the controlling terminal into per-keystroke input for
// the duration of a player run.
package term

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
)

// ErrNotTerminal is returned when the file is not a terminal.
var ErrNotTerminal = errors.New("not a terminal")

// IsTerminal reports whether f refers to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

// Raw disables echo and line buffering on f so every key press is readable
// immediately. Output processing and signal keys are left alone. The returned
// function restores the previous settings and is safe to call more than once.
func Raw(f *os.File) (func() error, error) {
	if !IsTerminal(f) {
		return nil, ErrNotTerminal
	}
	fd := int(f.Fd())
	saved, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return nil, fmt.Errorf("get terminal attributes: %w", err)
	}

	raw := *saved
	raw.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, &raw); err != nil {
		return nil, fmt.Errorf("set terminal attributes: %w", err)
	}

	restored := false
	return func() error {
		if restored {
			return nil
		}
		restored = true
		if err := unix.IoctlSetTermios(fd, unix.TCSETS, saved); err != nil {
			return fmt.Errorf("restore terminal attributes: %w", err)
		}
		return nil
	}, nil
}
