package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"subspeak/internal/audio"
	"subspeak/internal/config"
	"subspeak/internal/media/ffprobe"
	"subspeak/internal/services"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var codecName string
	var useFFprobe bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "probe <audio>",
		Short: "Report the playback duration of an encoded audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.Apply(config.Overrides{Codec: codecName}); err != nil {
				return services.Wrap(services.ErrConfiguration, "apply flags", "", err)
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return services.Wrap(services.ErrIO, "resolve input", args[0], err)
			}

			if useFFprobe {
				return probeWithFFprobe(cmd, cfg, path, jsonOutput)
			}

			codec, err := audio.For(cfg.Synthesis.Codec, cfg.Synthesis.SampleRate)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return services.Wrap(services.ErrIO, "read audio", path, err)
			}
			seconds, err := codec.Duration(cmd.Context(), data)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, map[string]any{
					"path":             path,
					"codec":            codec.Name(),
					"duration_seconds": seconds,
					"size_bytes":       len(data),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderFields([][2]string{
				{"Path", path},
				{"Codec", codec.Name()},
				{"Duration", formatSeconds(seconds)},
				{"Size", strconv.Itoa(len(data)) + " bytes"},
			}))
			return nil
		},
	}

	cmd.Flags().StringVar(&codecName, "codec", "", "Codec of the file: mp3 or pcm")
	cmd.Flags().BoolVar(&useFFprobe, "ffprobe", false, "Measure with ffprobe instead of the built-in frame parser")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func probeWithFFprobe(cmd *cobra.Command, cfg *config.Config, path string, jsonOutput bool) error {
	var input ffprobe.Input
	if cfg.Synthesis.Codec == config.CodecPCM {
		input = ffprobe.Input{Format: "s16le", SampleRate: cfg.Synthesis.SampleRate, Channels: 1}
	}
	result, err := ffprobe.Inspect(cmd.Context(), cfg.FFprobeBinary(), path, input)
	if err != nil {
		return services.Wrap(services.ErrDecode, "ffprobe", path, err)
	}
	if jsonOutput {
		_, err := cmd.OutOrStdout().Write(result.RawJSON())
		return err
	}
	if result.AudioStreamCount() == 0 {
		return services.Wrap(services.ErrDecode, "ffprobe", path, errors.New("no audio stream"))
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderFields([][2]string{
		{"Path", path},
		{"Codec", result.CodecName()},
		{"Duration", formatSeconds(result.DurationSeconds())},
		{"Bit rate", strconv.FormatInt(result.BitRate(), 10) + " bit/s"},
		{"Size", strconv.FormatInt(result.SizeBytes(), 10) + " bytes"},
	}))
	return nil
}
