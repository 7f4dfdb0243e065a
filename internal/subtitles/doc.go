// Package subtitles turns subtitle files into ordered, timed cues.
//
// SRT input is read as a repeating four line block (index, timing, text,
// blank separator) by default, with an opt-in block mode that accepts
// multi-line cue text. Plain text files are also accepted: every line
// becomes a cue occupying a fixed slot on the timeline. Cues are produced
// lazily so the synchronization driver can start work before the whole file
// has been read.
package subtitles
