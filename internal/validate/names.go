package validate

import (
	"path/filepath"
	"regexp"
	"strings"
)

var dirNamePattern = regexp.MustCompile(`^[a-z0-9][a-z\-_0-9]+\.[a-z0-9][a-z\-_0-9]*[a-z0-9]?$`)

// TracksDir is the loose-tracks directory, exempt from album naming.
const TracksDir = "tracks"

// Filename reports whether name has the form NN.artist.title.ext.
func Filename(name string) bool {
	chunks := strings.Split(name, ".")
	if len(chunks) != 4 {
		return false
	}
	num, artist, title, ext := chunks[0], chunks[1], chunks[2], chunks[3]
	for _, chunk := range chunks {
		if !IsSafe(chunk) {
			return false
		}
	}
	if len(num) != 2 || num == "00" || !isDigits(num) {
		return false
	}
	if strings.HasPrefix(artist, "the_") {
		return false
	}
	return title != "" && ext != ""
}

// IsSafe reports whether chunk could have come out of textutil.ToSafe.
func IsSafe(chunk string) bool {
	if chunk == "" {
		return false
	}
	if strings.HasPrefix(chunk, "-") || strings.HasPrefix(chunk, "_") ||
		strings.HasSuffix(chunk, "-") || strings.HasSuffix(chunk, "_") {
		return false
	}
	if strings.Contains(chunk, "__") {
		return false
	}
	for _, c := range chunk {
		if !(c == '_' || c == '-' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z')) {
			return false
		}
	}
	return true
}

// DirName checks a single directory basename.
func DirName(name string) bool {
	if name == TracksDir {
		return true
	}
	return dirNamePattern.MatchString(name) && !strings.HasPrefix(name, "the_")
}

// Directory checks dir's basename, retrying once on its parent so disc_N
// subdirectories inherit the album directory's validity.
func Directory(dir string) bool {
	return directoryAt(filepath.Clean(dir), 2)
}

func directoryAt(dir string, depth int) bool {
	if depth == 0 {
		return false
	}
	if DirName(filepath.Base(dir)) {
		return true
	}
	return directoryAt(filepath.Dir(dir), depth-1)
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
