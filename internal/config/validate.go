package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSynthesis(); err != nil {
		return err
	}
	if err := c.validateElevenLabs(); err != nil {
		return err
	}
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSynthesis() error {
	switch c.Synthesis.Provider {
	case ProviderPolly, ProviderElevenLabs, ProviderStub:
	default:
		return fmt.Errorf("synthesis.provider: unsupported value %q (want polly, elevenlabs or stub)", c.Synthesis.Provider)
	}
	switch c.Synthesis.Codec {
	case CodecMP3:
		if c.Synthesis.SampleRate != 0 {
			return errors.New("synthesis.sample_rate applies to the pcm codec only")
		}
	case CodecPCM:
		if c.Synthesis.SampleRate != 8000 && c.Synthesis.SampleRate != 16000 {
			return fmt.Errorf("synthesis.sample_rate must be 8000 or 16000 for pcm, got %d", c.Synthesis.SampleRate)
		}
	default:
		return fmt.Errorf("synthesis.codec: unsupported value %q (want mp3 or pcm)", c.Synthesis.Codec)
	}
	switch c.Synthesis.Prober {
	case ProberFrames, ProberFFprobe:
	default:
		return fmt.Errorf("synthesis.prober: unsupported value %q (want frames or ffprobe)", c.Synthesis.Prober)
	}
	if c.Synthesis.Lookahead < 0 || c.Synthesis.Lookahead > maxLookahead {
		return fmt.Errorf("synthesis.lookahead must be between 0 and %d, got %d", maxLookahead, c.Synthesis.Lookahead)
	}
	if c.Synthesis.TimeoutSeconds < 0 {
		return errors.New("synthesis.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateElevenLabs() error {
	if c.Synthesis.Provider != ProviderElevenLabs {
		return nil
	}
	if c.ElevenLabs.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("elevenlabs.api_key is required for the elevenlabs provider. Set ELEVENLABS_API_KEY or edit %s (create with 'subspeak config init')", defaultPath)
	}
	if c.Synthesis.Voice == "" {
		return errors.New("synthesis.voice must be set for the elevenlabs provider")
	}
	return nil
}

func (c *Config) validateSubtitles() error {
	switch c.Subtitles.Format {
	case FormatAuto, FormatSRT, FormatText:
	default:
		return fmt.Errorf("subtitles.format: unsupported value %q (want auto, srt or txt)", c.Subtitles.Format)
	}
	if c.Subtitles.TextCueSeconds <= 0 {
		return errors.New("subtitles.text_cue_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
