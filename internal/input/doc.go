// Package input merges keystroke sources into a single ordered event stream.
//
// Each source (the terminal, a control socket connection) is drained by its own
// goroutine into a shared FIFO. The consumer pulls events with Next, which
// treats an escape byte as the start of a multi-byte key sequence and gathers
// the bytes that follow it within a short look-ahead window so arrow keys and
// similar sequences reach the player as a single write.
package input
