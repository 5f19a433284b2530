// Package deps locates the external programs aur drives.
package deps

import (
	"os"
	"path/filepath"
	"strings"

	"aur/internal/aurerr"
)

// DefaultSearchDirs is the fixed probe order for external binaries.
var DefaultSearchDirs = []string{"/opt/ooce/bin", "/usr/bin"}

// SearchPathEnv names an optional colon-separated list of directories probed
// before DefaultSearchDirs.
const SearchPathEnv = "AUR_BIN_PATH"

// Requirement defines an external dependency aur relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Path        string
	Detail      string
}

// Finder probes an ordered list of directories.
type Finder struct {
	Dirs []string
}

// NewFinder returns a Finder over the environment override, if any, followed
// by DefaultSearchDirs.
func NewFinder() Finder {
	var dirs []string
	if extra := strings.TrimSpace(os.Getenv(SearchPathEnv)); extra != "" {
		for _, dir := range filepath.SplitList(extra) {
			if dir = strings.TrimSpace(dir); dir != "" {
				dirs = append(dirs, dir)
			}
		}
	}
	return Finder{Dirs: append(dirs, DefaultSearchDirs...)}
}

// Find returns the first executable called name in the probe list.
func (f Finder) Find(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", aurerr.New(aurerr.ErrExternal, "empty binary name")
	}
	for _, dir := range f.Dirs {
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		if err != nil {
			continue
		}
		if isExecutable(info) {
			return candidate, nil
		}
	}
	return "", aurerr.New(aurerr.ErrExternal, "cannot find %s in %s", name, strings.Join(f.Dirs, ":"))
}

// FindBinary locates name with the default Finder.
func FindBinary(name string) (string, error) {
	return NewFinder().Find(name)
}

// Requirements lists the programs the transcoding and verification commands
// call.
func Requirements() []Requirement {
	return []Requirement{
		{Name: "FLAC", Command: "flac", Description: "Decodes FLAC for MP3 transcodes and verifies FLAC files"},
		{Name: "LAME", Command: "lame", Description: "Encodes MP3"},
		{Name: "FFmpeg", Command: "ffmpeg", Description: "Re-encodes, transcodes and verifies MP3"},
		{Name: "FFprobe", Command: "ffprobe", Description: "Reads MP3 duration", Optional: true},
		{Name: "shnsplit", Command: "shnsplit", Description: "Splits FLAC files with a cue sheet", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func (f Finder) CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := f.Find(cmd)
		if err != nil {
			status.Detail = aurerr.Message(err)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = path
		results = append(results, status)
	}
	return results
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}
