// Package main hosts the awp CLI entrypoint and command graph.
//
// `awp play` runs the interactive player against a playlist file. The other
// commands are playlist tools: merging, scanning directories, listing missing
// files, sampling, statistics, verification, m3u export, and reading the play
// history. `awp send` forwards key presses to a running player over its
// control socket.
//
// Commands share configuration resolution and logger setup through
// commandContext. Keep playlist logic in internal/playlist and surface it here.
package main
