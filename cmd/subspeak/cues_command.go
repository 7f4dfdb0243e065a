package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"subspeak/internal/config"
	"subspeak/internal/services"
	"subspeak/internal/subtitles"
	"subspeak/internal/textutil"
)

const cueTextWidth = 60

type cueView struct {
	Index    int     `json:"index"`
	Start    string  `json:"start"`
	End      string  `json:"end"`
	Duration float64 `json:"duration_seconds"`
	Text     string  `json:"text"`
}

func newCuesCommand(ctx *commandContext) *cobra.Command {
	var format string
	var multiline bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "cues <subtitles>",
		Short: "Parse a subtitle file and list its cues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.Apply(config.Overrides{Format: format, MultiLine: multiline}); err != nil {
				return services.Wrap(services.ErrConfiguration, "apply flags", "", err)
			}
			input, err := config.ExpandPath(args[0])
			if err != nil {
				return services.Wrap(services.ErrIO, "resolve input", args[0], err)
			}

			file, err := subtitles.Open(input, cfg.Subtitles.Format, subtitles.Options{
				Name:       filepath.Base(input),
				MultiLine:  cfg.Subtitles.MultiLine,
				CueSeconds: cfg.Subtitles.TextCueSeconds,
			})
			if err != nil {
				return err
			}
			defer file.Close()

			var views []cueView
			for cue, err := range file.Cues() {
				if err != nil {
					return err
				}
				views = append(views, cueView{
					Index:    cue.Index,
					Start:    subtitles.FormatTimestamp(cue.Start),
					End:      subtitles.FormatTimestamp(cue.End),
					Duration: cue.Duration(),
					Text:     cue.Text,
				})
			}

			if jsonOutput {
				if views == nil {
					views = []cueView{}
				}
				return writeJSON(cmd, views)
			}

			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintln(out, "No cues found")
				return nil
			}
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				rows = append(rows, []string{
					strconv.Itoa(v.Index),
					v.Start,
					v.End,
					fmt.Sprintf("%.3f", v.Duration),
					textutil.Truncate(textutil.Fold(v.Text), cueTextWidth),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Start", "End", "Seconds", "Text"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
			))
			fmt.Fprintf(out, "%d cues (%s)\n", len(views), file.Format)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Input format: auto, srt or txt")
	cmd.Flags().BoolVar(&multiline, "multiline", false, "Accept cue text spanning several lines")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
