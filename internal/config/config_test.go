package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"subspeak/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantStaging := filepath.Join(tempHome, ".local", "share", "subspeak", "staging")
	if cfg.Paths.StagingDir != wantStaging {
		t.Fatalf("unexpected staging dir: got %q want %q", cfg.Paths.StagingDir, wantStaging)
	}
	if cfg.Cache.Path != filepath.Join(tempHome, ".cache", "subspeak", "synthesis.db") {
		t.Fatalf("unexpected cache path: %q", cfg.Cache.Path)
	}
	if cfg.Synthesis.Provider != config.ProviderPolly {
		t.Fatalf("expected polly provider by default, got %q", cfg.Synthesis.Provider)
	}
	if cfg.Synthesis.Codec != config.CodecMP3 {
		t.Fatalf("expected mp3 codec by default, got %q", cfg.Synthesis.Codec)
	}
	if cfg.Synthesis.Voice != "Matthew" || cfg.Synthesis.Engine != "generative" {
		t.Fatalf("unexpected voice/engine defaults: %q/%q", cfg.Synthesis.Voice, cfg.Synthesis.Engine)
	}
	if cfg.Synthesis.Lookahead != 0 {
		t.Fatalf("expected prefetch disabled by default, got %d", cfg.Synthesis.Lookahead)
	}
	if !cfg.Output.Staged {
		t.Fatal("expected staged output by default")
	}
	if cfg.Cache.Enabled {
		t.Fatal("expected cache disabled by default")
	}
	if cfg.Subtitles.MultiLine {
		t.Fatal("expected strict single-line parsing by default")
	}
	if cfg.Subtitles.TextCueSeconds != 5 {
		t.Fatalf("unexpected text cue seconds: %v", cfg.Subtitles.TextCueSeconds)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomConfigOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	payload := map[string]any{
		"synthesis": map[string]any{
			"provider":  " STUB ",
			"voice":     " Ruth ",
			"codec":     "PCM",
			"lookahead": 2,
		},
		"subtitles": map[string]any{
			"format":    "TXT",
			"multiline": true,
		},
		"output": map[string]any{"staged": false},
		"paths":  map[string]any{"staging_dir": "~/stage"},
		"cache":  map[string]any{"enabled": true, "path": "~/cache/db.sqlite"},
		"logging": map[string]any{
			"format": "JSON",
			"level":  "Debug",
		},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config at %s to be used, got %s (exists=%v)", configPath, resolved, exists)
	}
	if cfg.Synthesis.Provider != config.ProviderStub {
		t.Fatalf("provider = %q, want stub", cfg.Synthesis.Provider)
	}
	if cfg.Synthesis.Voice != "Ruth" {
		t.Fatalf("voice = %q, want Ruth", cfg.Synthesis.Voice)
	}
	if cfg.Synthesis.Codec != config.CodecPCM || cfg.Synthesis.SampleRate != 16000 {
		t.Fatalf("expected pcm at 16000 Hz, got %q at %d", cfg.Synthesis.Codec, cfg.Synthesis.SampleRate)
	}
	if cfg.Synthesis.Lookahead != 2 {
		t.Fatalf("lookahead = %d, want 2", cfg.Synthesis.Lookahead)
	}
	if cfg.Subtitles.Format != config.FormatText || !cfg.Subtitles.MultiLine {
		t.Fatalf("unexpected subtitles section: %+v", cfg.Subtitles)
	}
	if cfg.Output.Staged {
		t.Fatal("expected direct output")
	}
	if cfg.Paths.StagingDir != filepath.Join(tempHome, "stage") {
		t.Fatalf("unexpected staging dir: %q", cfg.Paths.StagingDir)
	}
	if cfg.Cache.Path != filepath.Join(tempHome, "cache", "db.sqlite") {
		t.Fatalf("unexpected cache path: %q", cfg.Cache.Path)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging section: %+v", cfg.Logging)
	}
	if cfg.OutputExtension() != ".pcm" {
		t.Fatalf("unexpected output extension %q", cfg.OutputExtension())
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[synthesis]\nvoices = \"x\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestElevenLabsKeyFromEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ELEVENLABS_API_KEY", " env-key ")
	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := "[synthesis]\nprovider = \"elevenlabs\"\nvoice = \"v1\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ElevenLabs.APIKey != "env-key" {
		t.Fatalf("expected key from env, got %q", cfg.ElevenLabs.APIKey)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"provider", func(c *config.Config) { c.Synthesis.Provider = "acme" }, "synthesis.provider"},
		{"codec", func(c *config.Config) { c.Synthesis.Codec = "ogg_vorbis" }, "synthesis.codec"},
		{"mp3 sample rate", func(c *config.Config) { c.Synthesis.SampleRate = 22050 }, "sample_rate"},
		{"pcm sample rate", func(c *config.Config) {
			c.Synthesis.Codec = config.CodecPCM
			c.Synthesis.SampleRate = 44100
		}, "sample_rate"},
		{"prober", func(c *config.Config) { c.Synthesis.Prober = "guess" }, "synthesis.prober"},
		{"lookahead", func(c *config.Config) { c.Synthesis.Lookahead = -1 }, "synthesis.lookahead"},
		{"lookahead max", func(c *config.Config) { c.Synthesis.Lookahead = 99 }, "synthesis.lookahead"},
		{"elevenlabs key", func(c *config.Config) { c.Synthesis.Provider = config.ProviderElevenLabs }, "elevenlabs.api_key"},
		{"elevenlabs voice", func(c *config.Config) {
			c.Synthesis.Provider = config.ProviderElevenLabs
			c.ElevenLabs.APIKey = "k"
			c.Synthesis.Voice = ""
		}, "synthesis.voice"},
		{"format", func(c *config.Config) { c.Subtitles.Format = "vtt" }, "subtitles.format"},
		{"text cue", func(c *config.Config) { c.Subtitles.TextCueSeconds = -1 }, "text_cue_seconds"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestVoiceAndEngineAreNotValidated(t *testing.T) {
	cfg := config.Default()
	cfg.Synthesis.Voice = "NoSuchVoice"
	cfg.Synthesis.Engine = "no-such-engine"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected opaque voice/engine to pass validation, got %v", err)
	}
}

func TestSampleConfigLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.Synthesis.Provider != config.ProviderPolly {
		t.Fatalf("unexpected sample provider %q", cfg.Synthesis.Provider)
	}
}

func TestEncodeRendersSections(t *testing.T) {
	cfg := config.Default()
	text, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for _, fragment := range []string{"[synthesis]", "polly", "[logging]"} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("expected %q in encoded config:\n%s", fragment, text)
		}
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Cache.Enabled = true
	cfg.Cache.Path = filepath.Join(base, "cache", "synthesis.db")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StagingDir, filepath.Dir(cfg.Cache.Path)} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}
