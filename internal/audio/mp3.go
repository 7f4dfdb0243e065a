package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/tcolgate/mp3"

	"subspeak/internal/services"
)

// Silent frames are MPEG-1 Layer III, 32 kbit/s, 44.1 kHz, mono, no CRC.
// 144 * 32000 / 44100 rounds down to 104 bytes without padding.
const (
	mp3SampleRate      = 44100
	mp3SamplesPerFrame = 1152
	mp3FrameBytes      = 104
)

var mp3SilentFrame = func() []byte {
	frame := make([]byte, mp3FrameBytes)
	copy(frame, []byte{0xFF, 0xFB, 0x10, 0xC4})
	return frame
}()

// MP3 is the MPEG audio codec.
type MP3 struct{}

func (MP3) Name() string { return CodecMP3 }

func (MP3) FrameDuration() float64 {
	return float64(mp3SamplesPerFrame) / mp3SampleRate
}

func (MP3) SilentFrame() []byte {
	return slices.Clone(mp3SilentFrame)
}

// Duration walks the frame headers and sums samples / sample rate per frame.
// A truncated trailing frame is ignored; a buffer without a single complete
// frame is a decode error.
func (MP3) Duration(_ context.Context, data []byte) (float64, error) {
	if len(data) == 0 {
		return 0, services.Wrap(services.ErrDecode, "probe mp3", "empty audio", nil)
	}
	decoder := mp3.NewDecoder(bytes.NewReader(data))
	var (
		frame   mp3.Frame
		skipped int
		total   float64
		frames  int
	)
	for {
		err := decoder.Decode(&frame, &skipped)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return 0, services.Wrap(services.ErrDecode, "probe mp3", fmt.Sprintf("frame %d", frames+1), err)
		}
		rate := frame.Header().SampleRate()
		if rate <= 0 {
			return 0, services.Wrap(services.ErrDecode, "probe mp3", fmt.Sprintf("frame %d: invalid sample rate", frames+1), nil)
		}
		total += float64(frame.Samples()) / float64(rate)
		frames++
	}
	if frames == 0 {
		return 0, services.Wrap(services.ErrDecode, "probe mp3", fmt.Sprintf("no frames in %d bytes", len(data)), nil)
	}
	return total, nil
}
