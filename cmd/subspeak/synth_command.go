package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"subspeak/internal/assemble"
	"subspeak/internal/audio"
	"subspeak/internal/config"
	"subspeak/internal/logging"
	"subspeak/internal/media/ffprobe"
	"subspeak/internal/preflight"
	"subspeak/internal/services"
	"subspeak/internal/staging"
	"subspeak/internal/subtitles"
	"subspeak/internal/syncdrive"
	"subspeak/internal/synth"
	"subspeak/internal/synthcache"
)

type synthFlags struct {
	output    string
	provider  string
	voice     string
	engine    string
	codec     string
	prober    string
	format    string
	lookahead int
	multiline bool
	direct    bool
	noCache   bool
	quiet     bool
}

func newSynthCommand(ctx *commandContext) *cobra.Command {
	var flags synthFlags

	cmd := &cobra.Command{
		Use:   "synth <subtitles>",
		Short: "Synthesize a speech track aligned to a subtitle file",
		Long: `Synthesize every cue of an SRT or plain-text file and write a single audio
file in which each line starts at its cue time. Gaps are filled with silence;
speech that runs long pushes the following cues back.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			overrides := config.Overrides{
				Provider:  flags.provider,
				Voice:     flags.voice,
				Engine:    flags.engine,
				Codec:     flags.codec,
				Prober:    flags.prober,
				Format:    flags.format,
				MultiLine: flags.multiline,
				Direct:    flags.direct,
				NoCache:   flags.noCache,
			}
			if cmd.Flags().Changed("lookahead") {
				overrides.Lookahead = &flags.lookahead
			}
			if err := cfg.Apply(overrides); err != nil {
				return services.Wrap(services.ErrConfiguration, "apply flags", "", err)
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			return runSynth(cmd, cfg, logger, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output audio file (default <input>_synced.<codec>)")
	cmd.Flags().StringVar(&flags.provider, "provider", "", "Synthesis provider: polly, elevenlabs or stub")
	cmd.Flags().StringVar(&flags.voice, "voice", "", "Voice identifier passed to the provider")
	cmd.Flags().StringVar(&flags.engine, "engine", "", "Engine or model passed to the provider")
	cmd.Flags().StringVar(&flags.codec, "codec", "", "Output codec: mp3 or pcm")
	cmd.Flags().StringVar(&flags.prober, "prober", "", "Duration prober: frames or ffprobe")
	cmd.Flags().StringVar(&flags.format, "format", "", "Input format: auto, srt or txt")
	cmd.Flags().IntVar(&flags.lookahead, "lookahead", 0, "Cues synthesized ahead of the writer (0 disables prefetch)")
	cmd.Flags().BoolVar(&flags.multiline, "multiline", false, "Accept cue text spanning several lines")
	cmd.Flags().BoolVar(&flags.direct, "direct", false, "Write straight to the output instead of staging")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "Bypass the synthesis cache for this run")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "Suppress the progress bar and summary")

	return cmd
}

func runSynth(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, inputArg string, flags synthFlags) error {
	input, err := config.ExpandPath(inputArg)
	if err != nil {
		return services.Wrap(services.ErrIO, "resolve input", inputArg, err)
	}
	output := strings.TrimSpace(flags.output)
	if output == "" {
		output = defaultOutputPath(input, cfg.OutputExtension())
	} else if output, err = config.ExpandPath(output); err != nil {
		return services.Wrap(services.ErrIO, "resolve output", flags.output, err)
	}
	if output == input {
		return services.Wrap(services.ErrConfiguration, "resolve output", "output would overwrite the input", nil)
	}

	runID := uuid.NewString()
	runCtx := services.WithRunID(cmd.Context(), runID)
	logger = logging.WithContext(runCtx, logger)

	if failed := preflight.Failed(preflight.RunAll(runCtx, cfg)); len(failed) > 0 {
		parts := make([]string, 0, len(failed))
		for _, f := range failed {
			parts = append(parts, f.Name+": "+f.Detail)
		}
		return services.Wrap(services.ErrConfiguration, "preflight", strings.Join(parts, "; "), nil)
	}

	staging.CleanStale(runCtx, cfg.Paths.StagingDir, staging.DefaultMaxAge, logger)

	parseOpts := subtitles.Options{
		Name:       filepath.Base(input),
		MultiLine:  cfg.Subtitles.MultiLine,
		CueSeconds: cfg.Subtitles.TextCueSeconds,
	}
	total, err := subtitles.Count(input, cfg.Subtitles.Format, parseOpts)
	if err != nil {
		return err
	}

	codec, err := audio.For(cfg.Synthesis.Codec, cfg.Synthesis.SampleRate)
	if err != nil {
		return err
	}

	synthesizer, err := synth.New(runCtx, cfg, logger)
	if err != nil {
		return err
	}
	var cached *synth.Cached
	if cfg.Cache.Enabled {
		store, err := synthcache.Open(cfg.Cache.Path)
		if err != nil {
			return services.Wrap(services.ErrIO, "open synthesis cache", cfg.Cache.Path, err)
		}
		defer store.Close()
		cached = synth.NewCached(synthesizer, store, cfg.Synthesis.Provider, logger)
		synthesizer = cached
	}

	logger.Info("run started",
		logging.String(logging.FieldEventType, "synth_start"),
		logging.String("input", input),
		logging.String("output", output),
		logging.String("provider", cfg.Synthesis.Provider),
		logging.Int("cues", total),
		logging.Bool("staged", cfg.Output.Staged),
	)

	sink, err := assemble.Open(output, assemble.Options{
		Staged:     cfg.Output.Staged,
		StagingDir: cfg.Paths.StagingDir,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer sink.Close()

	progress := newCueProgress(cmd.ErrOrStderr(), total, !flags.quiet)
	driver, err := syncdrive.New(syncdrive.Options{
		Synthesizer: synthesizer,
		Codec:       codec,
		Prober:      newProber(cfg, codec),
		Sink:        sink,
		Request:     synth.RequestFromConfig(cfg),
		Lookahead:   cfg.Synthesis.Lookahead,
		Logger:      logger,
		Observer:    progress.observe,
	})
	if err != nil {
		return err
	}

	file, err := subtitles.Open(input, cfg.Subtitles.Format, parseOpts)
	if err != nil {
		return err
	}
	defer file.Close()

	summary, runErr := driver.Run(runCtx, file.Cues())
	if runErr != nil {
		progress.abandon()
		if err := sink.Abort(); err != nil {
			logger.Warn("failed to discard output", logging.Error(err))
		}
		if errors.Is(runErr, context.Canceled) {
			return context.Canceled
		}
		return runErr
	}
	if err := sink.Commit(); err != nil {
		progress.abandon()
		return err
	}
	progress.finish()

	logger.Info("run finished",
		logging.String(logging.FieldEventType, "synth_complete"),
		logging.String("output", output),
		logging.Int64("bytes", summary.BytesWritten),
	)

	if flags.quiet {
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary, output, cached))
	return nil
}

// newProber returns the configured duration prober. The ffprobe prober
// stages bytes in the staging directory and needs demuxer hints for raw pcm.
func newProber(cfg *config.Config, codec audio.Codec) audio.Prober {
	if cfg.Synthesis.Prober != config.ProberFFprobe {
		return codec
	}
	prober := ffprobe.DurationProber{
		Binary:  cfg.FFprobeBinary(),
		TempDir: cfg.Paths.StagingDir,
		Ext:     cfg.OutputExtension(),
	}
	if cfg.Synthesis.Codec == config.CodecPCM {
		prober.Input = ffprobe.Input{Format: "s16le", SampleRate: cfg.Synthesis.SampleRate, Channels: 1}
	}
	return prober
}

// defaultOutputPath places <name>_synced<ext> next to the input.
func defaultOutputPath(input, ext string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "_synced" + ext
}

func renderSummary(summary syncdrive.Summary, output string, cached *synth.Cached) string {
	fields := [][2]string{
		{"Cues", fmt.Sprintf("%d", summary.Cues)},
		{"Skipped (empty)", fmt.Sprintf("%d", summary.Skipped)},
		{"Speech", formatSeconds(summary.SpeechSeconds)},
		{"Silence", fmt.Sprintf("%s (%d frames)", formatSeconds(summary.SilenceSeconds), summary.SilenceFrames)},
		{"Timeline end", subtitles.FormatTimestamp(summary.Playhead)},
		{"Total overrun", formatSeconds(summary.TotalOverrun)},
		{"Longest overrun", formatSeconds(summary.MaxOverrun)},
		{"Bytes written", fmt.Sprintf("%d", summary.BytesWritten)},
	}
	if cached != nil {
		fields = append(fields, [2]string{"Cache hits", fmt.Sprintf("%d of %d", cached.Hits(), cached.Hits()+cached.Misses())})
	}
	fields = append(fields, [2]string{"Output", output})
	return renderFields(fields)
}

func formatSeconds(seconds float64) string {
	return fmt.Sprintf("%.3fs", seconds)
}
