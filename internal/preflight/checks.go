package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"golang.org/x/sys/unix"

	"subspeak/internal/config"
	"subspeak/internal/deps"
	"subspeak/internal/synthcache"
)

const credentialTimeout = 10 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCache opens the synthesis cache, which also verifies its schema version.
func CheckCache(ctx context.Context, path string) Result {
	const name = "Synthesis cache"

	store, err := synthcache.Open(path)
	if err != nil {
		if errors.Is(err, synthcache.ErrSchemaMismatch) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (schema mismatch: delete the file to rebuild the cache)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	defer store.Close()

	stats, err := store.Stats(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d entries)", path, stats.Entries)}
}

// CheckCredentials verifies the configured provider has usable credentials.
// It never issues a synthesis request.
func CheckCredentials(ctx context.Context, cfg *config.Config) Result {
	switch cfg.Synthesis.Provider {
	case config.ProviderStub:
		return Result{Name: "Stub provider", Passed: true, Detail: "no credentials required"}
	case config.ProviderElevenLabs:
		const name = "ElevenLabs credentials"
		if strings.TrimSpace(cfg.ElevenLabs.APIKey) == "" {
			return Result{Name: name, Detail: "api key missing (set ELEVENLABS_API_KEY)"}
		}
		return Result{Name: name, Passed: true, Detail: "api key configured"}
	case config.ProviderPolly:
		return checkPollyCredentials(ctx, cfg.Synthesis.Region)
	default:
		return Result{Name: "Provider", Detail: fmt.Sprintf("unsupported provider %q", cfg.Synthesis.Provider)}
	}
}

func checkPollyCredentials(ctx context.Context, region string) Result {
	const name = "AWS credentials"

	checkCtx, cancel := context.WithTimeout(ctx, credentialTimeout)
	defer cancel()

	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(checkCtx, loadOpts...)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("load config failed (%v)", err)}
	}
	if awsCfg.Region == "" {
		return Result{Name: name, Detail: "no region configured (set synthesis.region or AWS_REGION)"}
	}
	if awsCfg.Credentials == nil {
		return Result{Name: name, Detail: "no credential provider resolved"}
	}
	creds, err := awsCfg.Credentials.Retrieve(checkCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{Name: name, Detail: "credential lookup timed out"}
		}
		return Result{Name: name, Detail: fmt.Sprintf("no credentials (%v)", err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s via %s", awsCfg.Region, creds.Source)}
}

// CheckSystemDeps evaluates the external binaries for the given config.
// Both the synth and check commands use this to avoid duplicating the
// requirements list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		deps.FFprobe(cfg.FFprobeBinary(), cfg.Synthesis.Prober == config.ProberFFprobe),
	}
	return deps.CheckBinaries(requirements)
}
