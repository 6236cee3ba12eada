package ipc

import (
	"context"
	"fmt"
	"net"
	"time"
)

const dialTimeout = 2 * time.Second

// Send writes keys to the player listening at path.
func Send(ctx context.Context, path string, keys []byte) error {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "unix", path)
	if err != nil {
		return fmt.Errorf("connect to player: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	}
	if _, err := conn.Write(keys); err != nil {
		return fmt.Errorf("send keys: %w", err)
	}
	return nil
}

// Ping reports whether a player is accepting connections at path.
func Ping(ctx context.Context, path string) error {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "unix", path)
	if err != nil {
		return fmt.Errorf("connect to player: %w", err)
	}
	return conn.Close()
}
