package config

const (
	defaultConfigPath        = "~/.config/subspeak/config.toml"
	defaultProvider          = ProviderPolly
	defaultVoice             = "Matthew"
	defaultEngine            = "generative"
	defaultCodec             = CodecMP3
	defaultPCMSampleRate     = 16000
	defaultTimeoutSeconds    = 30
	defaultProber            = ProberFrames
	defaultElevenLabsBaseURL = "https://api.elevenlabs.io/v1"
	defaultSubtitleFormat    = FormatAuto
	defaultTextCueSeconds    = 5.0
	defaultStagingDir        = "~/.local/share/subspeak/staging"
	defaultCachePath         = "~/.cache/subspeak/synthesis.db"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	maxLookahead             = 8
)

// Provider names accepted by synthesis.provider.
const (
	ProviderPolly      = "polly"
	ProviderElevenLabs = "elevenlabs"
	ProviderStub       = "stub"
)

// Codec names accepted by synthesis.codec.
const (
	CodecMP3 = "mp3"
	CodecPCM = "pcm"
)

// Prober names accepted by synthesis.prober.
const (
	ProberFrames  = "frames"
	ProberFFprobe = "ffprobe"
)

// Subtitle formats accepted by subtitles.format.
const (
	FormatAuto = "auto"
	FormatSRT  = "srt"
	FormatText = "txt"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Synthesis: Synthesis{
			Provider:       defaultProvider,
			Voice:          defaultVoice,
			Engine:         defaultEngine,
			Codec:          defaultCodec,
			TimeoutSeconds: defaultTimeoutSeconds,
			Prober:         defaultProber,
		},
		ElevenLabs: ElevenLabs{
			BaseURL: defaultElevenLabsBaseURL,
		},
		Subtitles: Subtitles{
			Format:         defaultSubtitleFormat,
			TextCueSeconds: defaultTextCueSeconds,
		},
		Output: Output{
			Staged: true,
		},
		Paths: Paths{
			StagingDir: defaultStagingDir,
		},
		Cache: Cache{
			Path: defaultCachePath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
