// Package player runs the play loop: pick a track by weight, hand it to an
// external media player, translate key presses into weight and volume changes
// while it plays, and write those changes back to the playlist afterwards.
//
// The external player is a black box that accepts single-key commands on stdin
// and prints status text on stdout. Its output is copied to the display
// unchanged except that "Volume: N %" reports are also recorded, so volume
// adjustments made with the player's own keys are learned.
//
// Each track runs through the same phases. Loading picks the entry and starts
// the child. Playing forwards input until the child exits or the operator
// quits. Draining terminates the child if needed and waits for the output
// scraper. Committing reloads the playlist from disk, applies the pending
// change for this track only, and replaces the file atomically. Reloading
// immediately before the write keeps the window in which a concurrent edit by
// another program can be lost as short as possible; there is no file lock.
//
// Key bindings:
//
//	q    halve weight and skip
//	f    double weight
//	d    halve weight
//	Q    quit without saving this track's changes
//	* /  raise or lower volume by one step; also forwarded to the child
//
// Anything else, including whole escape sequences, is forwarded verbatim.
package player
