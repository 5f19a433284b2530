package config

import (
	"runtime"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeWords()
	c.normalizeIgnore()
	c.Genres = trimList(c.Genres)
	if err := c.normalizeSync(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeWords() {
	c.Words.AllCaps = lowerList(c.Words.AllCaps)
	c.Words.NoCaps = lowerList(c.Words.NoCaps)
	c.Words.IgnoreCase = lowerList(c.Words.IgnoreCase)
	if len(c.Words.Expand) > 0 {
		expand := make(map[string]string, len(c.Words.Expand))
		for key, value := range c.Words.Expand {
			expand[strings.ToLower(strings.TrimSpace(key))] = value
		}
		c.Words.Expand = expand
	}
}

func (c *Config) normalizeIgnore() {
	c.Ignore.Lint.InvalidAlbumTag = trimList(c.Ignore.Lint.InvalidAlbumTag)
	c.Ignore.Lint.InvalidArtistTag = trimList(c.Ignore.Lint.InvalidArtistTag)
	c.Ignore.Lint.InvalidTitleTag = trimList(c.Ignore.Lint.InvalidTitleTag)
	c.Ignore.Lint.InvalidYearTag = trimList(c.Ignore.Lint.InvalidYearTag)
	c.Ignore.Lintdir.BadFileCount = trimList(c.Ignore.Lintdir.BadFileCount)
	c.Ignore.Lintdir.InconsistentTags = trimList(c.Ignore.Lintdir.InconsistentTags)
	c.Ignore.Syncflac = trimList(c.Ignore.Syncflac)
	c.Ignore.Wantflac.Albums = trimList(c.Ignore.Wantflac.Albums)
	c.Ignore.Wantflac.TopLevel = trimList(c.Ignore.Wantflac.TopLevel)
	c.Ignore.Wantflac.Tracks = trimList(c.Ignore.Wantflac.Tracks)
}

func (c *Config) normalizeSync() error {
	c.Sync.Preset = strings.TrimSpace(c.Sync.Preset)
	if c.Sync.Preset == "" {
		c.Sync.Preset = defaultPreset
	}
	root, err := expandPath(strings.TrimSpace(c.Sync.Root))
	if err != nil {
		return err
	}
	c.Sync.Root = root
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// Workers returns the transcode parallelism, one per CPU unless configured.
func (c *Config) Workers() int {
	if c.Sync.Jobs > 0 {
		return c.Sync.Jobs
	}
	return runtime.NumCPU()
}

func trimList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func lowerList(values []string) []string {
	out := trimList(values)
	for i := range out {
		out[i] = strings.ToLower(out[i])
	}
	return out
}
