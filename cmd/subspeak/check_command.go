package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"subspeak/internal/preflight"
	"subspeak/internal/services"
	"subspeak/internal/staging"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify directories, credentials, cache and external tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := isTerminal(out)

			fmt.Fprintf(out, "Provider: %s (voice %q, codec %s)\n", cfg.Synthesis.Provider, cfg.Synthesis.Voice, cfg.Synthesis.Codec)
			if ctx.configPath != "" {
				fmt.Fprintf(out, "Config:   %s\n", ctx.configPath)
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			for _, r := range results {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
			}
			for _, status := range preflight.CheckSystemDeps(cfg) {
				if status.Optional && !status.Available {
					fmt.Fprintln(out, renderStatusLine(status.Name, statusWarn, status.Detail+" (optional)", colorize))
				}
			}

			if leftovers, err := staging.List(cfg.Paths.StagingDir); err == nil && len(leftovers) > 0 {
				var size int64
				for _, f := range leftovers {
					size += f.Size
				}
				message := fmt.Sprintf("%d leftover files (%d bytes), removed by the next synth run once older than %s", len(leftovers), size, staging.DefaultMaxAge)
				fmt.Fprintln(out, renderStatusLine("Staging leftovers", statusWarn, message, colorize))
			}

			failed := preflight.Failed(results)
			if len(failed) == 0 {
				fmt.Fprintln(out, "All checks passed")
				return nil
			}
			names := make([]string, 0, len(failed))
			for _, f := range failed {
				names = append(names, f.Name)
			}
			return services.Wrap(services.ErrConfiguration, "check", fmt.Sprintf("%d failed: %s", len(failed), strings.Join(names, ", ")), nil)
		},
	}
}
