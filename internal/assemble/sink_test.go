package assemble

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"subspeak/internal/audio"
	"subspeak/internal/services"
)

func testSegments() []audio.Segment {
	codec := audio.MP3{}
	return []audio.Segment{
		audio.Silence(codec, 1.0),
		audio.Speech([]byte("speech-one"), 1.2),
		audio.Silence(codec, 0.8),
		audio.Silence(codec, 0),
		audio.Speech([]byte("speech-two"), 2.5),
	}
}

func writeAll(t *testing.T, output string, opts Options) []byte {
	t.Helper()
	sink, err := Open(output, opts)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer sink.Close()
	for _, seg := range testSegments() {
		if err := sink.WriteSegment(seg); err != nil {
			t.Fatalf("WriteSegment: %v", err)
		}
	}
	if err := sink.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if int64(len(data)) != sink.Written() {
		t.Fatalf("output has %d bytes, sink reported %d", len(data), sink.Written())
	}
	return data
}

func TestDirectAndStagedProduceIdenticalOutput(t *testing.T) {
	dir := t.TempDir()
	staging := filepath.Join(dir, "staging")

	direct := writeAll(t, filepath.Join(dir, "direct.mp3"), Options{})
	staged := writeAll(t, filepath.Join(dir, "staged.mp3"), Options{Staged: true, StagingDir: staging})

	if !bytes.Equal(direct, staged) {
		t.Fatalf("direct (%d bytes) and staged (%d bytes) outputs differ", len(direct), len(staged))
	}
	var want []byte
	for _, seg := range testSegments() {
		want = append(want, seg.Data...)
	}
	if !bytes.Equal(direct, want) {
		t.Fatal("output is not the in-order concatenation of segments")
	}

	entries, err := os.ReadDir(staging)
	if err != nil {
		t.Fatalf("read staging dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected staging file to be removed, found %d entries", len(entries))
	}
}

func TestStagedAbortLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.mp3")
	staging := filepath.Join(dir, "staging")

	sink, err := Open(output, Options{Staged: true, StagingDir: staging})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := sink.WriteSegment(audio.Speech([]byte("partial"), 1)); err != nil {
		t.Fatalf("WriteSegment: %v", err)
	}
	if err := sink.Abort(); err != nil {
		t.Fatalf("Abort: %v", err)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Fatalf("expected no output after abort, stat err=%v", err)
	}
	entries, _ := os.ReadDir(staging)
	if len(entries) != 0 {
		t.Fatalf("expected staging dir to be empty, found %d entries", len(entries))
	}
	if err := sink.WriteSegment(audio.Speech([]byte("late"), 1)); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after abort, got %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close after Abort: %v", err)
	}
}

func TestDirectAbortLeavesPartialOutput(t *testing.T) {
	output := filepath.Join(t.TempDir(), "out.pcm")
	sink, err := Open(output, Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := sink.WriteSegment(audio.Speech([]byte("partial"), 1)); err != nil {
		t.Fatalf("WriteSegment: %v", err)
	}
	if err := sink.Abort(); err != nil {
		t.Fatalf("Abort: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "partial" {
		t.Fatalf("unexpected partial output %q", data)
	}
}

func TestOutputLockPreventsConcurrentRuns(t *testing.T) {
	output := filepath.Join(t.TempDir(), "out.mp3")
	first, err := Open(output, Options{})
	if err != nil {
		t.Fatalf("Open first: %v", err)
	}

	_, err = Open(output, Options{Staged: true, StagingDir: t.TempDir()})
	if !errors.Is(err, ErrLocked) || !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected locked IO error, got %v", err)
	}

	if err := first.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	second, err := Open(output, Options{})
	if err != nil {
		t.Fatalf("expected lock to be released after commit, got %v", err)
	}
	_ = second.Close()
}

func TestCommitTwiceFails(t *testing.T) {
	sink, err := Open(filepath.Join(t.TempDir(), "out.mp3"), Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := sink.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := sink.Commit(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed on second commit, got %v", err)
	}
}
