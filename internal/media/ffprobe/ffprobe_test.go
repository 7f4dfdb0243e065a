package ffprobe

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subspeak/internal/services"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "audio", CodecName: "mp3"},
			{CodecType: "data"},
		},
		Format: Format{
			Duration: "123.45",
			Size:     "1000",
			BitRate:  "32000",
		},
	}
	if result.AudioStreamCount() != 1 {
		t.Fatalf("expected 1 audio stream, got %d", result.AudioStreamCount())
	}
	if result.CodecName() != "mp3" {
		t.Fatalf("unexpected codec %q", result.CodecName())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
	if result.BitRate() != 32000 {
		t.Fatalf("unexpected bitrate: %d", result.BitRate())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
			Size:     "-1",
			BitRate:  "nope",
		},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
	if result.BitRate() != 0 {
		t.Fatalf("expected bitrate 0, got %d", result.BitRate())
	}
}

func TestDurationFallsBackToAudioStream(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "audio", Duration: "2.5"}}}
	if result.DurationSeconds() != 2.5 {
		t.Fatalf("unexpected duration %v", result.DurationSeconds())
	}
}

func TestInputArgs(t *testing.T) {
	if args := (Input{}).args(); len(args) != 0 {
		t.Fatalf("expected no args for autodetect, got %v", args)
	}
	got := strings.Join(Input{Format: "s16le", SampleRate: 16000, Channels: 1}.args(), " ")
	if got != "-f s16le -ar 16000 -ac 1" {
		t.Fatalf("unexpected args %q", got)
	}
}

// writeFakeFFprobe installs a script that records its arguments and prints
// a fixed JSON document when the probed file is non-empty.
func writeFakeFFprobe(t *testing.T, payload string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	script := "#!/bin/sh\n" +
		"echo \"$@\" > " + argsFile + "\n" +
		"for last; do :; done\n" +
		"test -s \"$last\" || { echo missing input >&2; exit 1; }\n" +
		"cat <<'JSON'\n" + payload + "\nJSON\n"
	path := filepath.Join(dir, "ffprobe")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake ffprobe: %v", err)
	}
	return path, argsFile
}

func TestDurationProberUsesFFprobe(t *testing.T) {
	binary, argsFile := writeFakeFFprobe(t, `{"streams":[{"codec_type":"audio","codec_name":"pcm_s16le"}],"format":{"duration":"1.250000"}}`)
	stage := t.TempDir()
	prober := DurationProber{
		Binary:  binary,
		TempDir: stage,
		Ext:     ".pcm",
		Input:   Input{Format: "s16le", SampleRate: 16000, Channels: 1},
	}
	got, err := prober.Duration(context.Background(), []byte{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if got != 1.25 {
		t.Fatalf("Duration = %v, want 1.25", got)
	}
	args, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	if !strings.Contains(string(args), "-f s16le -ar 16000 -ac 1") {
		t.Fatalf("expected raw input args, got %q", args)
	}
	entries, err := os.ReadDir(stage)
	if err != nil {
		t.Fatalf("read staging dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected staged probe file to be removed, found %d entries", len(entries))
	}
}

func TestDurationProberFailuresAreDecodeErrors(t *testing.T) {
	missing := DurationProber{Binary: filepath.Join(t.TempDir(), "no-ffprobe"), TempDir: t.TempDir()}
	if _, err := missing.Duration(context.Background(), []byte{0xFF}); !errors.Is(err, services.ErrDecode) {
		t.Fatalf("expected ErrDecode for missing binary, got %v", err)
	}

	binary, _ := writeFakeFFprobe(t, `{"streams":[],"format":{}}`)
	noDuration := DurationProber{Binary: binary, TempDir: t.TempDir()}
	if _, err := noDuration.Duration(context.Background(), []byte{0xFF}); !errors.Is(err, services.ErrDecode) {
		t.Fatalf("expected ErrDecode without duration, got %v", err)
	}

	if _, err := noDuration.Duration(context.Background(), nil); !errors.Is(err, services.ErrDecode) {
		t.Fatalf("expected ErrDecode for empty input, got %v", err)
	}
}
