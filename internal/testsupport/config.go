package testsupport

import (
	"path/filepath"
	"testing"

	"aur/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a default config whose media root is a unique temp
// directory. It applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Sync.Root = filepath.Join(base, "media")
	cfgVal.Sync.Jobs = 1

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithGenres sets the genres accepted verbatim.
func WithGenres(genres ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Genres = append([]string(nil), genres...)
	}
}

// WithIgnore edits the ignore lists in place.
func WithIgnore(edit func(*config.Ignore)) ConfigOption {
	return func(b *configBuilder) {
		edit(&b.cfg.Ignore)
	}
}

// WithWords edits the dictionary additions in place.
func WithWords(edit func(*config.Words)) ConfigOption {
	return func(b *configBuilder) {
		edit(&b.cfg.Words)
	}
}
