package synth

import (
	"context"
	"fmt"
	"strings"

	"subspeak/internal/services"
)

// Request describes one synthesis call.
type Request struct {
	Text       string
	Voice      string
	Engine     string
	Codec      string
	SampleRate int
}

// WithText returns a copy of r carrying text.
func (r Request) WithText(text string) Request {
	r.Text = text
	return r
}

func (r Request) describe() string {
	parts := []string{"voice=" + r.Voice, "codec=" + r.Codec}
	if r.Engine != "" {
		parts = append(parts, "engine="+r.Engine)
	}
	return strings.Join(parts, " ")
}

// Synthesizer converts text into encoded audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) ([]byte, error)
}

// Func adapts a function to Synthesizer.
type Func func(ctx context.Context, req Request) ([]byte, error)

// Synthesize calls f.
func (f Func) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	return f(ctx, req)
}

func synthesisError(provider string, req Request, err error) error {
	return services.Wrap(services.ErrSynthesis, provider+" synthesize", req.describe(), err)
}

func emptyAudioError(provider string, req Request) error {
	return services.Wrap(services.ErrSynthesis, provider+" synthesize", fmt.Sprintf("%s: empty audio for %d characters", req.describe(), len(req.Text)), nil)
}
