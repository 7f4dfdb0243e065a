// Package main hosts the subspeak CLI entrypoint and command graph.
//
// The Cobra-based command tree turns a subtitle file into a synchronized
// speech track (synth), and offers inspection helpers for cues and encoded
// audio, readiness checks, cache maintenance and configuration scaffolding.
// It centralizes configuration resolution and logger setup so subcommands
// can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
