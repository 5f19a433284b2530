package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"aur/internal/aurerr"
)

// LintIgnore lists path substrings that suppress individual file lint
// violations.
type LintIgnore struct {
	InvalidAlbumTag  []string `toml:"invalid_album_tag"`
	InvalidArtistTag []string `toml:"invalid_artist_tag"`
	InvalidTitleTag  []string `toml:"invalid_title_tag"`
	InvalidYearTag   []string `toml:"invalid_year_tag"`
}

// LintdirIgnore lists directory path substrings that suppress directory lint
// violations.
type LintdirIgnore struct {
	BadFileCount     []string `toml:"bad_file_count"`
	InconsistentTags []string `toml:"inconsistent_tags"`
}

// WantflacIgnore lists entries that wantflac should not report.
type WantflacIgnore struct {
	Albums   []string `toml:"albums"`
	TopLevel []string `toml:"top_level"`
	Tracks   []string `toml:"tracks"`
}

// Ignore groups every user-supplied suppression list.
type Ignore struct {
	Lint     LintIgnore     `toml:"lint"`
	Lintdir  LintdirIgnore  `toml:"lintdir"`
	Syncflac []string       `toml:"syncflac"`
	Wantflac WantflacIgnore `toml:"wantflac"`
}

// Words extends the built-in title-casing dictionary. Entries add to the
// defaults; nothing can be removed.
type Words struct {
	AllCaps    []string          `toml:"all_caps"`
	NoCaps     []string          `toml:"no_caps"`
	IgnoreCase []string          `toml:"ignore_case"`
	Expand     map[string]string `toml:"expand"`
}

// Sync holds defaults for the transcoding commands.
type Sync struct {
	Root   string `toml:"root"`
	Preset string `toml:"preset"`
	Jobs   int    `toml:"jobs"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for aur.
//
// Configuration sections:
//   - Ignore: per-rule suppressions for lint, lintdir, syncflac and wantflac
//   - Words: additions to the title-casing dictionary
//   - Genres: genre names accepted verbatim by the genre validator
//   - Sync: media root, lame preset and parallelism for transcodes
//   - Logging: log format and level
type Config struct {
	Ignore  Ignore   `toml:"ignore"`
	Words   Words    `toml:"words"`
	Genres  []string `toml:"genres"`
	Sync    Sync     `toml:"sync"`
	Logging Logging  `toml:"log"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. An empty path
// means the default location, which may be absent. An explicit path must
// exist.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		data, err := os.ReadFile(resolvedPath)
		if err != nil {
			return nil, "", false, aurerr.Wrap(aurerr.ErrIO, "read config", resolvedPath, err)
		}
		if err := Parse(data, &cfg); err != nil {
			return nil, "", false, err
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// Parse decodes TOML into cfg. Unknown keys are rejected so that misspelt
// sections do not silently disable a suppression.
func Parse(data []byte, cfg *Config) error {
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return aurerr.Wrap(aurerr.ErrParse, "parse config", "unknown key", errors.New(strings.TrimSpace(strict.String())))
		}
		return aurerr.Wrap(aurerr.ErrParse, "parse config", "", err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			return "", false, aurerr.Wrap(aurerr.ErrIO, "", "", err)
		}
		if info.IsDir() {
			return "", false, aurerr.Wrap(aurerr.ErrIO, "config", expanded, errors.New("is a directory"))
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(defaultPath)
	switch {
	case err == nil && !info.IsDir():
		return defaultPath, true, nil
	case err == nil, errors.Is(err, fs.ErrNotExist):
		return defaultPath, false, nil
	default:
		return "", false, aurerr.Wrap(aurerr.ErrIO, "stat config", defaultPath, err)
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// Encode renders cfg as TOML. Used by `config show`.
func (c *Config) Encode() (string, error) {
	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	encoder.SetIndentTables(true)
	if err := encoder.Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return buf.String(), nil
}

// CreateSample writes a commented sample configuration file to path.
func CreateSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return aurerr.Wrap(aurerr.ErrIO, "create config", path, fs.ErrExist)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return aurerr.Wrap(aurerr.ErrIO, "create config directory", "", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return aurerr.Wrap(aurerr.ErrIO, "write sample config", "", err)
	}
	return nil
}
