// Package config loads, normalizes, and validates awp configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// VOL_MAX and VOL_FUDGE for the player's volume scale. The Config type
// centralizes every knob the player and the playlist tools need, so the state
// directory, control socket, history database and log file are all derived in
// one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
