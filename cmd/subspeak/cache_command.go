package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"subspeak/internal/synthcache"
	"subspeak/internal/textutil"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the synthesis cache",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func withCacheStore(ctx *commandContext, fn func(*synthcache.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := synthcache.Open(cfg.Cache.Path)
	if err != nil {
		return fmt.Errorf("open synthesis cache: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show synthesis cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return withCacheStore(ctx, func(store *synthcache.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, stats)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderFields([][2]string{
					{"Path", stats.Path},
					{"Enabled", textutil.Ternary(cfg.Cache.Enabled, "yes", "no")},
					{"Entries", strconv.FormatInt(stats.Entries, 10)},
					{"Audio bytes", strconv.FormatInt(stats.Bytes, 10)},
					{"Hits", strconv.FormatInt(stats.Hits, 10)},
					{"Oldest", formatCacheTime(stats.Oldest)},
					{"Newest", formatCacheTime(stats.Newest)},
				}))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached synthesis result",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCacheStore(ctx, func(store *synthcache.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached entries from %s\n", removed, store.Path())
				return nil
			})
		},
	}
}

func formatCacheTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}
