package synth

import (
	"context"
	"errors"
	"testing"

	"subspeak/internal/config"
	"subspeak/internal/services"
)

func TestNewSelectsProvider(t *testing.T) {
	cfg := config.Default()
	cfg.Synthesis.Provider = config.ProviderStub
	client, err := New(context.Background(), &cfg, nil)
	if err != nil {
		t.Fatalf("New stub: %v", err)
	}
	if _, ok := client.(*StubSynthesizer); !ok {
		t.Fatalf("expected stub synthesizer, got %T", client)
	}

	cfg.Synthesis.Provider = config.ProviderElevenLabs
	cfg.ElevenLabs.APIKey = "key"
	client, err = New(context.Background(), &cfg, nil)
	if err != nil {
		t.Fatalf("New elevenlabs: %v", err)
	}
	if _, ok := client.(*ElevenLabsClient); !ok {
		t.Fatalf("expected elevenlabs client, got %T", client)
	}
}

func TestNewRejectsBadConfiguration(t *testing.T) {
	cfg := config.Default()
	cfg.Synthesis.Provider = config.ProviderElevenLabs
	cfg.ElevenLabs.APIKey = ""
	if _, err := New(context.Background(), &cfg, nil); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for missing key, got %v", err)
	}

	cfg.Synthesis.Provider = "acme"
	if _, err := New(context.Background(), &cfg, nil); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for unknown provider, got %v", err)
	}

	if _, err := New(context.Background(), nil, nil); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for nil config, got %v", err)
	}
}

func TestRequestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Synthesis.Codec = config.CodecPCM
	cfg.Synthesis.SampleRate = 8000
	req := RequestFromConfig(&cfg).WithText("hello")
	if req.Voice != "Matthew" || req.Engine != "generative" || req.Codec != "pcm" || req.SampleRate != 8000 || req.Text != "hello" {
		t.Fatalf("unexpected request %+v", req)
	}
}
