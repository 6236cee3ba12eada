// Package ipc exposes a running player over a Unix domain socket and ships the
// matching client used by `awp send`.
//
// The protocol has no framing: every byte written by any connected client is
// handed to the player's input multiplexer exactly as if it had been typed on
// the terminal. The server guards its socket with a flock so a second player
// refuses to start instead of stealing the socket from the first.
package ipc
