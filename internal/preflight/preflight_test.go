package preflight

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"aur/internal/aurerr"
)

type fakeFinder map[string]string

func (f fakeFinder) Find(name string) (string, error) {
	if path, ok := f[name]; ok {
		return path, nil
	}
	return "", aurerr.New(aurerr.ErrExternal, "cannot find %s", name)
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryReadable("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestForSync(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "flac"), 0o755); err != nil {
		t.Fatal(err)
	}
	finder := fakeFinder{"flac": "/bin/flac", "lame": "/bin/lame"}

	results := ForSync(root, finder)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if err := Failures(results); err != nil {
		t.Fatalf("expected all checks to pass: %v", err)
	}

	delete(finder, "lame")
	err := Failures(ForSync(root, finder))
	if !errors.Is(err, aurerr.ErrPolicy) {
		t.Fatalf("expected policy error, got %v", err)
	}
	if !strings.Contains(err.Error(), "lame: cannot find lame") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestForSyncMissingFlacTree(t *testing.T) {
	results := ForSync(t.TempDir(), fakeFinder{"flac": "f", "lame": "l"})
	if results[1].Passed {
		t.Fatal("absent flac tree should fail")
	}
}
