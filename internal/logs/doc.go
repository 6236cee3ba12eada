// Package logs reads the player's log file for `awp logs`.
//
// The player owns the terminal while it runs, so its log records go to a file.
// Last returns the final lines of that file with bounded memory and Follow
// streams lines appended afterwards, starting over when the file is truncated.
package logs
