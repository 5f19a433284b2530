package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"aur/internal/aurerr"
	"aur/internal/config"
)

func TestLoadDefaultConfigAbsentIsEmpty(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if resolved != filepath.Join(tempHome, ".aur.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if len(cfg.Genres) != 0 || len(cfg.Words.AllCaps) != 0 || len(cfg.Ignore.Syncflac) != 0 {
		t.Fatalf("expected empty overrides, got %+v", cfg)
	}
	if cfg.Sync.Preset != "128" {
		t.Fatalf("unexpected default preset %q", cfg.Sync.Preset)
	}
	if cfg.Workers() != runtime.NumCPU() {
		t.Fatalf("expected one worker per CPU, got %d", cfg.Workers())
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults %+v", cfg.Logging)
	}
}

func TestLoadExplicitMissingPathIsIOError(t *testing.T) {
	_, _, _, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for explicit missing config")
	}
	if !errors.Is(err, aurerr.ErrIO) {
		t.Fatalf("expected I/O error, got %v", err)
	}
	if got := aurerr.Render(err); got != "ERROR: (I/O) No such file or directory (os error 2)" {
		t.Fatalf("unexpected render %q", got)
	}
}

func TestLoadReadsAllSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aur.toml")
	content := `genres = [" Noise ", "Alternative"]

[ignore]
syncflac = ["/storage/flac/eps"]

[ignore.lint]
invalid_artist_tag = ["slint.spiderland"]
invalid_year_tag = ["bootlegs"]

[ignore.lintdir]
bad_file_count = ["boxset"]
inconsistent_tags = ["various"]

[ignore.wantflac]
albums = ["abba.gold"]
top_level = ["tracks"]
tracks = ["01.abba.sos.mp3"]

[words]
all_caps = [" ABBA "]
no_caps = ["von"]
ignore_case = ["iPod"]

[words.expand]
"Abba" = "ABBA"

[sync]
preset = "320"
jobs = 3

[log]
level = "DEBUG"
format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution %q exists=%v", resolved, exists)
	}
	if got := strings.Join(cfg.Genres, ","); got != "Noise,Alternative" {
		t.Fatalf("unexpected genres %q", got)
	}
	if cfg.Ignore.Syncflac[0] != "/storage/flac/eps" {
		t.Fatalf("unexpected syncflac ignore %v", cfg.Ignore.Syncflac)
	}
	if cfg.Ignore.Lint.InvalidArtistTag[0] != "slint.spiderland" || cfg.Ignore.Lint.InvalidYearTag[0] != "bootlegs" {
		t.Fatalf("unexpected lint ignore %+v", cfg.Ignore.Lint)
	}
	if cfg.Ignore.Lintdir.BadFileCount[0] != "boxset" || cfg.Ignore.Lintdir.InconsistentTags[0] != "various" {
		t.Fatalf("unexpected lintdir ignore %+v", cfg.Ignore.Lintdir)
	}
	if cfg.Ignore.Wantflac.Albums[0] != "abba.gold" || cfg.Ignore.Wantflac.Tracks[0] != "01.abba.sos.mp3" {
		t.Fatalf("unexpected wantflac ignore %+v", cfg.Ignore.Wantflac)
	}
	if cfg.Words.AllCaps[0] != "abba" || cfg.Words.IgnoreCase[0] != "ipod" {
		t.Fatalf("expected trimmed lowercase word lists, got %+v", cfg.Words)
	}
	if cfg.Words.Expand["abba"] != "ABBA" {
		t.Fatalf("expected lowercased expand keys, got %v", cfg.Words.Expand)
	}
	if cfg.Sync.Preset != "320" || cfg.Workers() != 3 {
		t.Fatalf("unexpected sync section %+v", cfg.Sync)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("unexpected logging %+v", cfg.Logging)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aur.toml")
	if err := os.WriteFile(path, []byte("[ignore.lint]\ninvalid_artst_tag = [\"x\"]\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(path)
	if err == nil {
		t.Fatal("expected unknown key to fail")
	}
	if !errors.Is(err, aurerr.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantSub string
	}{
		{"negative jobs", func(c *config.Config) { c.Sync.Jobs = -1 }, "sync.jobs"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "log.format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }, "log.level"},
		{"empty expand key", func(c *config.Config) { c.Words.Expand = map[string]string{"": "x"} }, "words.expand"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantSub) {
				t.Fatalf("expected error mentioning %q, got %v", tt.wantSub, err)
			}
		})
	}
}

func TestSampleConfigParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "aur.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if err := config.CreateSample(path); err == nil {
		t.Fatal("expected CreateSample to refuse to overwrite")
	}
}

func TestEncodeRoundTripsThroughTOML(t *testing.T) {
	cfg := config.Default()
	cfg.Genres = []string{"Noise"}
	text, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal([]byte(text), &decoded); err != nil {
		t.Fatalf("decode encoded config: %v", err)
	}
	if len(decoded.Genres) != 1 || decoded.Genres[0] != "Noise" {
		t.Fatalf("unexpected genres after encode: %v", decoded.Genres)
	}
}
