package preflight

import (
	"context"
	"strings"

	"subspeak/internal/config"
	"subspeak/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	if cfg.Output.Staged {
		results = append(results, CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir))
	}

	if cfg.Cache.Enabled {
		results = append(results, CheckCache(ctx, cfg.Cache.Path))
	}

	results = append(results, CheckCredentials(ctx, cfg))

	for _, status := range CheckSystemDeps(cfg) {
		if status.Optional && !status.Available {
			continue
		}
		results = append(results, depResult(status))
	}

	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

func depResult(status deps.Status) Result {
	if status.Available {
		return Result{Name: status.Name, Passed: true, Detail: status.Command}
	}
	detail := status.Detail
	if status.Description != "" {
		detail = strings.TrimSpace(detail + " (" + status.Description + ")")
	}
	return Result{Name: status.Name, Detail: detail}
}
