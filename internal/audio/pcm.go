package audio

import (
	"context"
	"fmt"

	"subspeak/internal/services"
)

// DefaultPCMSampleRate is used when no rate is configured.
const DefaultPCMSampleRate = 16000

const pcmFrameSeconds = 0.01

// PCM is signed 16-bit little-endian mono audio.
type PCM struct {
	SampleRate int
}

// NewPCM returns a PCM codec, defaulting the sample rate when rate <= 0.
func NewPCM(rate int) PCM {
	if rate <= 0 {
		rate = DefaultPCMSampleRate
	}
	return PCM{SampleRate: rate}
}

func (p PCM) Name() string { return CodecPCM }

func (p PCM) FrameDuration() float64 { return pcmFrameSeconds }

// SilentFrame is 10 ms of zero samples.
func (p PCM) SilentFrame() []byte {
	return make([]byte, 2*p.rate()/100)
}

func (p PCM) Duration(_ context.Context, data []byte) (float64, error) {
	switch {
	case len(data) == 0:
		return 0, services.Wrap(services.ErrDecode, "probe pcm", "empty audio", nil)
	case len(data)%2 != 0:
		return 0, services.Wrap(services.ErrDecode, "probe pcm", fmt.Sprintf("odd length %d for 16-bit samples", len(data)), nil)
	}
	return float64(len(data)) / float64(2*p.rate()), nil
}

func (p PCM) rate() int {
	if p.SampleRate <= 0 {
		return DefaultPCMSampleRate
	}
	return p.SampleRate
}
