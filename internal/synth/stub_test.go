package synth

import (
	"context"
	"errors"
	"math"
	"testing"

	"subspeak/internal/audio"
	"subspeak/internal/services"
)

func TestStubProducesDecodableAudio(t *testing.T) {
	stub := NewStubSynthesizer(nil)
	ctx := context.Background()

	data, err := stub.Synthesize(ctx, Request{Text: "Hello world", Codec: audio.CodecMP3})
	if err != nil {
		t.Fatalf("Synthesize mp3: %v", err)
	}
	seconds, err := audio.MP3{}.Duration(ctx, data)
	if err != nil {
		t.Fatalf("probe mp3: %v", err)
	}
	want := 11 * DefaultStubSecondsPerRune
	frame := audio.MP3{}.FrameDuration()
	if seconds < want || seconds-want > frame {
		t.Fatalf("stub mp3 duration %v, want about %v", seconds, want)
	}

	data, err = stub.Synthesize(ctx, Request{Text: "Hi", Codec: audio.CodecPCM, SampleRate: 16000})
	if err != nil {
		t.Fatalf("Synthesize pcm: %v", err)
	}
	seconds, err = audio.NewPCM(16000).Duration(ctx, data)
	if err != nil {
		t.Fatalf("probe pcm: %v", err)
	}
	if math.Abs(seconds-0.12) > 1e-9 {
		t.Fatalf("stub pcm duration %v, want 0.12", seconds)
	}
	if stub.Calls() != 2 {
		t.Fatalf("expected 2 calls, got %d", stub.Calls())
	}
}

func TestStubFailures(t *testing.T) {
	stub := NewStubSynthesizer(nil)
	if _, err := stub.Synthesize(context.Background(), Request{Text: "x", Codec: "flac"}); !errors.Is(err, services.ErrSynthesis) {
		t.Fatalf("expected ErrSynthesis for unknown codec, got %v", err)
	}
	if _, err := stub.Synthesize(context.Background(), Request{Text: "", Codec: audio.CodecMP3}); !errors.Is(err, services.ErrSynthesis) {
		t.Fatalf("expected ErrSynthesis for empty text, got %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := stub.Synthesize(ctx, Request{Text: "x", Codec: audio.CodecMP3}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
