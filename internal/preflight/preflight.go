package preflight

import (
	"path/filepath"
	"strings"

	"aur/internal/aurerr"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// BinaryFinder locates external programs.
type BinaryFinder interface {
	Find(name string) (string, error)
}

// syncPrograms are needed by every FLAC to MP3 transcode.
var syncPrograms = []string{"flac", "lame"}

// ForSync checks the media root, its flac tree and the transcoding programs.
// The mp3 tree may be absent; it is created on demand.
func ForSync(root string, finder BinaryFinder) []Result {
	results := []Result{
		CheckDirectoryAccess("Media root", root),
		CheckDirectoryReadable("FLAC tree", filepath.Join(root, "flac")),
	}
	for _, name := range syncPrograms {
		results = append(results, CheckBinary(finder, name))
	}
	return results
}

// Failures turns failed results into one Policy error, or nil when every
// check passed.
func Failures(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r.Name+": "+r.Detail)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return aurerr.New(aurerr.ErrPolicy, "preflight failed: %s", strings.Join(failed, "; "))
}
