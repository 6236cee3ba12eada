// Package preflight provides readiness checks for the filesystem paths and
// services awp depends on.
//
// `awp status` runs RunAll and prints one line per result. Checks for optional
// features are skipped when the feature is disabled.
package preflight
