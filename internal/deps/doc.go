// Package deps checks that the external programs awp launches can be found on
// PATH before a player session starts.
package deps
