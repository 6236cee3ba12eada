// Package history keeps a SQLite journal of every track the player starts.
//
// Each row records the session that played the track, when it started and
// ended, how the operator left it (finished, skipped, quit or failed), the
// weight factor applied and the volume before and after. The journal is
// append-only; `awp history` reads it back for review.
//
// The schema is versioned. A database with an unexpected version is refused
// rather than migrated; delete the file to start a fresh journal.
package history
