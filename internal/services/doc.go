// Package services defines shared utilities consumed by the synchronization
// driver, the synthesis clients and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp run correlation IDs and cue indexes for
//     logging.
//   - Structured error markers (io, format, synthesis, decode, configuration)
//     plus the Wrap helper that attaches the failing operation and its context.
//
// Every failure in a run is fatal; the markers exist so callers and the CLI can
// report which step failed without parsing message text.
package services
