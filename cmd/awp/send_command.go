package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ekimekim/awp/internal/ipc"
)

const sendTimeout = 5 * time.Second

func newSendCommand(ctx *commandContext) *cobra.Command {
	var escapes bool

	cmd := &cobra.Command{
		Use:   "send KEYS",
		Short: "Send key presses to the running player",
		Long: `Send key presses to the running player as if typed at its terminal.

With --escapes, backslash sequences such as \n or \x1b are decoded first.`,
		Example: "  awp send f\n  awp send -e '\\x1b[C'",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := decodeKeys(args[0], escapes)
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				return errors.New("no keys to send")
			}
			socket := ctx.configValue().Control.Socket
			sendCtx, cancel := context.WithTimeout(cmd.Context(), sendTimeout)
			defer cancel()
			if err := ipc.Send(sendCtx, socket, keys); err != nil {
				return wrapSendError(err, socket)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&escapes, "escapes", "e", false, "Decode backslash escape sequences")
	return cmd
}

func decodeKeys(arg string, escapes bool) ([]byte, error) {
	if !escapes {
		return []byte(arg), nil
	}
	decoded, err := strconv.Unquote(`"` + strings.ReplaceAll(arg, `"`, `\"`) + `"`)
	if err != nil {
		return nil, fmt.Errorf("decode keys %q: %w", arg, err)
	}
	return []byte(decoded), nil
}

func wrapSendError(err error, socket string) error {
	switch {
	case errors.Is(err, syscall.ENOENT) || errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("socket %s not found; start a player with `awp play`", socket)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("socket %s refused the connection; verify the player is running", socket)
	default:
		return err
	}
}
