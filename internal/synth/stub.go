package synth

import (
	"context"
	"log/slog"
	"sync/atomic"
	"unicode/utf8"

	"subspeak/internal/audio"
	"subspeak/internal/logging"
	"subspeak/internal/services"
)

const (
	providerStub = "stub"

	// DefaultStubSecondsPerRune approximates a brisk speaking rate.
	DefaultStubSecondsPerRune = 0.06
)

// StubSynthesizer returns codec-valid silence whose length is proportional
// to the text. It needs no credentials or network access.
type StubSynthesizer struct {
	SecondsPerRune float64

	calls  atomic.Int64
	logger *slog.Logger
}

// NewStubSynthesizer returns a stub using DefaultStubSecondsPerRune.
func NewStubSynthesizer(logger *slog.Logger) *StubSynthesizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StubSynthesizer{
		SecondsPerRune: DefaultStubSecondsPerRune,
		logger:         logging.NewComponentLogger(logger, "stub"),
	}
}

// Calls reports how many times Synthesize has been invoked.
func (s *StubSynthesizer) Calls() int64 {
	return s.calls.Load()
}

// Synthesize builds silence for the request's codec.
func (s *StubSynthesizer) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	s.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, synthesisError(providerStub, req, err)
	}
	codec, err := audio.For(req.Codec, req.SampleRate)
	if err != nil {
		return nil, services.Wrap(services.ErrSynthesis, "stub synthesize", req.describe(), err)
	}
	perRune := s.SecondsPerRune
	if perRune <= 0 {
		perRune = DefaultStubSecondsPerRune
	}
	seconds := float64(utf8.RuneCountInString(req.Text)) * perRune
	segment := audio.Silence(codec, seconds)
	if len(segment.Data) == 0 {
		return nil, emptyAudioError(providerStub, req)
	}
	s.logger.Debug("stub synthesis",
		logging.Int("text_length", len(req.Text)),
		logging.String("voice", req.Voice),
		logging.Int("bytes", len(segment.Data)),
	)
	return segment.Data, nil
}
