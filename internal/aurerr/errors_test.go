package aurerr_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"aur/internal/aurerr"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := aurerr.Wrap(aurerr.ErrExternal, "lame", "exit status 1", base)
	if !errors.Is(err, aurerr.ErrExternal) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"lame", "exit status 1", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestMissingFileRendersStableMessage(t *testing.T) {
	_, err := os.Open(filepath.Join(t.TempDir(), "missing.flac"))
	if err == nil {
		t.Fatal("expected open error")
	}
	wrapped := aurerr.Wrap(aurerr.ErrIO, "", "", err)
	if got := wrapped.Error(); got != "No such file or directory (os error 2)" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := aurerr.Render(wrapped); got != "ERROR: (I/O) No such file or directory (os error 2)" {
		t.Fatalf("unexpected render %q", got)
	}
	if got := aurerr.Render(err); got != "ERROR: (I/O) No such file or directory (os error 2)" {
		t.Fatalf("bare os errors should render as I/O, got %q", got)
	}
}

func TestRenderLabels(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{aurerr.New(aurerr.ErrParse, "cannot parse %q", "x"), `ERROR: (Parsing) cannot parse "x"`},
		{aurerr.New(aurerr.ErrPolicy, "target must be FLAC"), "ERROR: target must be FLAC"},
		{aurerr.New(aurerr.ErrFormat, "unsupported file type"), "ERROR: unsupported file type"},
		{errors.New("plain"), "ERROR: plain"},
		{aurerr.ErrReported, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := aurerr.Render(tt.err); got != tt.want {
			t.Errorf("Render(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestKind(t *testing.T) {
	if aurerr.Kind(aurerr.New(aurerr.ErrPolicy, "x")) != aurerr.ErrPolicy {
		t.Fatal("expected policy kind")
	}
	if aurerr.Kind(errors.New("x")) != nil {
		t.Fatal("expected no kind for plain error")
	}
}
