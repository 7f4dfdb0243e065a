package synth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"subspeak/internal/config"
	"subspeak/internal/services"
)

// New builds the provider selected by synthesis.provider.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Synthesizer, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "select provider", "missing configuration", nil)
	}
	timeout := time.Duration(cfg.Synthesis.TimeoutSeconds) * time.Second

	switch cfg.Synthesis.Provider {
	case config.ProviderPolly:
		client, err := NewPollyClient(ctx, PollyOptions{
			Region:  cfg.Synthesis.Region,
			Timeout: timeout,
			Logger:  logger,
		})
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "select provider", "polly", err)
		}
		return client, nil
	case config.ProviderElevenLabs:
		if cfg.ElevenLabs.APIKey == "" {
			return nil, services.Wrap(services.ErrConfiguration, "select provider", "elevenlabs api key missing", nil)
		}
		return NewElevenLabsClient(cfg.ElevenLabs.APIKey, ElevenLabsOptions{
			BaseURL: cfg.ElevenLabs.BaseURL,
			Model:   cfg.ElevenLabs.Model,
			Timeout: timeout,
			Logger:  logger,
		}), nil
	case config.ProviderStub:
		return NewStubSynthesizer(logger), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "select provider", fmt.Sprintf("unsupported provider %q", cfg.Synthesis.Provider), nil)
	}
}

// RequestFromConfig returns the run-wide request template.
func RequestFromConfig(cfg *config.Config) Request {
	return Request{
		Voice:      cfg.Synthesis.Voice,
		Engine:     cfg.Synthesis.Engine,
		Codec:      cfg.Synthesis.Codec,
		SampleRate: cfg.Synthesis.SampleRate,
	}
}
