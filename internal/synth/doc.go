// Package synth talks to speech synthesis services.
//
// Every provider implements Synthesizer: text plus the run-wide voice,
// engine and codec go in, encoded audio bytes come out. Failures are tagged
// with services.ErrSynthesis and are never retried; the caller aborts the
// run instead.
//
// Providers:
//   - PollyClient: AWS Polly through aws-sdk-go-v2
//   - ElevenLabsClient: the ElevenLabs text-to-speech HTTP API
//   - StubSynthesizer: deterministic silence for dry runs and tests
//
// Cached wraps any provider with the SQLite synthesis cache.
package synth
