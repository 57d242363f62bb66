package deps

import (
	"context"
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
		{Name: "Blank", Command: "  "},
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
		t.Fatalf("unexpected blank command status: %#v", results[2])
	}
}

func TestExifToolRequirementIsOptional(t *testing.T) {
	req := ExifTool("/opt/exiftool")
	if !req.Optional || req.Command != "/opt/exiftool" {
		t.Fatalf("unexpected requirement: %#v", req)
	}
}

func TestExifToolVersion(t *testing.T) {
	binDir := t.TempDir()
	stub := filepath.Join(binDir, "exiftool")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\necho 12.76\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	version, err := ExifToolVersion(context.Background(), stub)
	if err != nil {
		t.Fatalf("ExifToolVersion: %v", err)
	}
	if version != "12.76" {
		t.Fatalf("version = %q, want 12.76", version)
	}

	if _, err := ExifToolVersion(context.Background(), filepath.Join(binDir, "missing")); err == nil {
		t.Fatal("expected error for missing binary")
	}
}
