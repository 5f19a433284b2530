package deps

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"aur/internal/aurerr"
)

func writeStub(t *testing.T, dir, name string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), mode); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestFindProbesInOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeStub(t, second, "lame", 0o755)
	want := writeStub(t, first, "lame", 0o755)

	got, err := Finder{Dirs: []string{first, second}}.Find("lame")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFindSkipsNonExecutable(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeStub(t, first, "flac", 0o644)
	want := writeStub(t, second, "flac", 0o755)

	got, err := Finder{Dirs: []string{first, second}}.Find("flac")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFindMissingIsExternalError(t *testing.T) {
	_, err := Finder{Dirs: []string{t.TempDir()}}.Find("shnsplit")
	if !errors.Is(err, aurerr.ErrExternal) {
		t.Fatalf("expected external error, got %v", err)
	}
}

func TestNewFinderHonoursEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(SearchPathEnv, dir)
	finder := NewFinder()
	if finder.Dirs[0] != dir {
		t.Fatalf("expected %q first, got %v", dir, finder.Dirs)
	}
	if finder.Dirs[len(finder.Dirs)-1] != "/usr/bin" {
		t.Fatalf("expected default dirs last, got %v", finder.Dirs)
	}
}

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := writeStub(t, binDir, "present", 0o755)
	reqs := []Requirement{
		{Name: "Present", Command: "present"},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Empty"},
	}

	results := Finder{Dirs: []string{binDir}}.CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Path != present {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for empty command: %q", results[2].Detail)
	}
}

func TestRequirementsCoverEncoders(t *testing.T) {
	seen := map[string]bool{}
	for _, req := range Requirements() {
		seen[req.Command] = true
	}
	for _, cmd := range []string{"flac", "lame", "ffmpeg", "shnsplit"} {
		if !seen[cmd] {
			t.Errorf("expected requirement for %s", cmd)
		}
	}
}
