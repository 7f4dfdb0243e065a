// Package preflight provides readiness checks for the filesystem paths,
// credentials and binaries that subspeak depends on.
//
// These checks run in two contexts:
//   - The synth command calls RunAll before reading any cue. If a check
//     fails the run stops before a single provider request is made.
//   - The CLI "subspeak check" command renders every result as a table.
//
// Each check is gated by its config toggle; disabled features are skipped.
package preflight
