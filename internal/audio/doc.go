// Package audio holds the codec knowledge the synchronization engine needs:
// how long an encoded buffer plays for, and what a codec-valid run of
// silence looks like.
//
// Segments are never decoded or re-encoded. Silence is built by repeating a
// constant frame so it can be concatenated with synthesized speech frames
// byte for byte.
package audio
