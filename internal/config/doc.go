// Package config loads, normalizes, and validates the save manager's
// configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI needs: the game's save directory, the backup storage directory,
// logging, and optional Steam discovery overrides.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
