// Package synthcache persists synthesized speech in SQLite so repeated runs
// over the same subtitles do not pay for the same synthesis twice.
//
// Entries are keyed by a SHA-256 digest of every parameter that affects the
// audio: provider, voice, engine, codec, sample rate and text.
package synthcache
