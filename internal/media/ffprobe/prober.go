package ffprobe

import (
	"context"
	"fmt"
	"math"
	"os"

	"subspeak/internal/services"
	"subspeak/internal/staging"
)

// DurationProber measures encoded audio by staging it to a temporary file
// and asking ffprobe for the duration.
type DurationProber struct {
	Binary  string
	TempDir string
	// Ext is appended to the staged file name so ffprobe can pick a demuxer.
	Ext   string
	Input Input
}

// Duration implements audio.Prober.
func (p DurationProber) Duration(ctx context.Context, data []byte) (float64, error) {
	if len(data) == 0 {
		return 0, services.Wrap(services.ErrDecode, "ffprobe duration", "empty audio", nil)
	}
	tmp, err := os.CreateTemp(p.TempDir, staging.ProbePattern+p.Ext)
	if err != nil {
		return 0, services.Wrap(services.ErrIO, "ffprobe duration", "create staging file", err)
	}
	name := tmp.Name()
	defer os.Remove(name)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return 0, services.Wrap(services.ErrIO, "ffprobe duration", "write staging file", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, services.Wrap(services.ErrIO, "ffprobe duration", "close staging file", err)
	}

	result, err := Inspect(ctx, p.Binary, name, p.Input)
	if err != nil {
		return 0, services.Wrap(services.ErrDecode, "ffprobe duration", fmt.Sprintf("%d bytes", len(data)), err)
	}
	seconds := result.DurationSeconds()
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0, services.Wrap(services.ErrDecode, "ffprobe duration", fmt.Sprintf("no duration reported for %d bytes", len(data)), nil)
	}
	return seconds, nil
}
