// Package syncdrive places synthesized speech on the subtitle timeline.
//
// A Driver owns the playhead for one run: the next second of output not yet
// written. For every cue it emits leading silence up to the cue start,
// synthesizes and probes the speech, writes it, and pads the remainder of
// the cue with trailing silence. Speech that runs past its cue end is not
// truncated; the overrun is absorbed by the next cue's leading silence.
//
// With Options.Lookahead above zero a single producer goroutine synthesizes
// upcoming cues into a bounded ordered buffer while the driver writes. The
// output is byte-identical to the sequential mode.
package syncdrive
