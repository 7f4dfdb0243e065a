// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Input: explicit demuxer settings for headerless audio such as raw PCM
//   - DurationProber: stages an in-memory buffer and reports its duration
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns parsed Result
package ffprobe
