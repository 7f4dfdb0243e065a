// Package config loads, normalizes, and validates subspeak configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// ELEVENLABS_API_KEY. The Config type centralizes every knob the CLI and the
// synchronization engine need so a run can be described in one place.
//
// Voice and engine identifiers are deliberately not validated here; the
// synthesis service is the authority on which combinations exist.
package config
