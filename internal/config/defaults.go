package config

const (
	defaultConfigPath = "~/.aur.toml"
	defaultPreset     = "128"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
)

// Default returns a Config populated with built-in defaults. Jobs stays zero,
// which callers read as one worker per CPU.
func Default() Config {
	return Config{
		Sync: Sync{
			Preset: defaultPreset,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

const sampleConfig = `# aur configuration

# Genres accepted as-is by lint.
genres = []

[ignore]
# Directory prefixes syncflac leaves alone.
syncflac = []

[ignore.lint]
# Path substrings for which tag violations are not reported.
invalid_artist_tag = []
invalid_album_tag = []
invalid_title_tag = []
invalid_year_tag = []

[ignore.lintdir]
bad_file_count = []
inconsistent_tags = []

[ignore.wantflac]
albums = []
top_level = []
tracks = []

[words]
all_caps = []
no_caps = []
ignore_case = []

[words.expand]
# "abba" = "ABBA"

[sync]
root = ""
preset = "128"
jobs = 0

[log]
format = "console"
level = "info"
`
