package audio

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"subspeak/internal/services"
)

// Prober measures the playback duration of an encoded buffer.
type Prober interface {
	Duration(ctx context.Context, data []byte) (float64, error)
}

// Codec describes a frame-oriented encoding the engine can emit silence for.
type Codec interface {
	Prober
	Name() string
	// FrameDuration is the nominal playback length of one silent frame in seconds.
	FrameDuration() float64
	// SilentFrame returns one encoded frame of silence.
	SilentFrame() []byte
}

// SegmentKind distinguishes speech from generated silence.
type SegmentKind int

const (
	KindSpeech SegmentKind = iota
	KindSilence
)

func (k SegmentKind) String() string {
	switch k {
	case KindSpeech:
		return "speech"
	case KindSilence:
		return "silence"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Segment is a run of encoded bytes in the run-wide codec.
type Segment struct {
	Kind     SegmentKind
	Data     []byte
	Duration float64
	// Frames counts silent frames; zero for speech.
	Frames int
}

// Speech wraps synthesized bytes whose duration has already been probed.
func Speech(data []byte, duration float64) Segment {
	return Segment{Kind: KindSpeech, Data: data, Duration: duration}
}

// Silence returns ceil(seconds / frame) silent frames of codec. The emitted
// duration is never shorter than requested. Non-positive durations yield an
// empty segment.
func Silence(codec Codec, seconds float64) Segment {
	if seconds <= 0 || math.IsNaN(seconds) {
		return Segment{Kind: KindSilence}
	}
	frameDuration := codec.FrameDuration()
	frames := int(math.Ceil(seconds / frameDuration))
	return Segment{
		Kind:     KindSilence,
		Data:     bytes.Repeat(codec.SilentFrame(), frames),
		Duration: float64(frames) * frameDuration,
		Frames:   frames,
	}
}

// For returns the codec registered under name. sampleRate only applies to pcm.
func For(name string, sampleRate int) (Codec, error) {
	switch name {
	case CodecMP3:
		return MP3{}, nil
	case CodecPCM:
		return NewPCM(sampleRate), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "select codec", fmt.Sprintf("unsupported codec %q", name), nil)
	}
}

// Codec names.
const (
	CodecMP3 = "mp3"
	CodecPCM = "pcm"
)
