package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unset", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected status for unset command: %#v", results[2])
	}
}

func TestFFprobeRequirement(t *testing.T) {
	optional := FFprobe("", false)
	if optional.Command != "ffprobe" || !optional.Optional {
		t.Fatalf("unexpected optional requirement %#v", optional)
	}
	required := FFprobe("/opt/ffprobe", true)
	if required.Command != "/opt/ffprobe" || required.Optional {
		t.Fatalf("unexpected required requirement %#v", required)
	}

	status := CheckBinaries([]Requirement{FFprobe("clearly-not-present-ffprobe", false)})[0]
	if status.Available || !status.Satisfied() {
		t.Fatalf("missing optional binary should be unavailable but satisfied: %#v", status)
	}
}
