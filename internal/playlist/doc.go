// Package playlist implements the weighted playlist engine.
//
// A Store is an insertion-ordered set of entries, each carrying a selection
// weight and a playback volume. Next draws an entry with probability
// proportional to its weight; zero-weight entries are kept but never drawn.
// Stores load from and persist to a line-oriented text format (tab separated
// weight, volume and path) and are always replaced atomically on disk, so a
// crash mid-write leaves either the old or the new file.
//
// Diff and Merge reconcile two playlists entry by entry using pluggable
// Strategy functions, one for weights and one for volumes. Merge never writes;
// callers persist the result explicitly.
//
// Stores are not safe for concurrent use. The player reloads a fresh Store
// from disk before every write to keep the window for lost updates small.
package playlist
