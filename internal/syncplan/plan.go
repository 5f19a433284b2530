package syncplan

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"aur/internal/aurerr"
)

// TranscodeAction is one FLAC file that needs an MP3 rendition.
type TranscodeAction struct {
	FlacSrc   string
	Mp3Target string
}

// Listing is the regular file names found in one directory.
type Listing struct {
	Dir   string
	Names []string
}

// ReadListing lists the regular files in dir. A directory that does not
// exist yet lists as empty.
func ReadListing(dir string) (Listing, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Listing{Dir: dir}, nil
		}
		return Listing{}, aurerr.Wrap(aurerr.ErrIO, "", "", err)
	}
	listing := Listing{Dir: dir}
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			listing.Names = append(listing.Names, entry.Name())
		}
	}
	sort.Strings(listing.Names)
	return listing, nil
}

// stems returns the sorted stems of names ending in ext.
func (l Listing) stems(ext string) []string {
	var out []string
	for _, name := range l.Names {
		if strings.HasSuffix(name, ext) {
			out = append(out, strings.TrimSuffix(name, ext))
		}
	}
	sort.Strings(out)
	return out
}

func (l Listing) has(name string) bool {
	for _, n := range l.Names {
		if n == name {
			return true
		}
	}
	return false
}

// MakeTranscodeList pairs every FLAC in flac with its MP3 target in mp3,
// keeping only those whose target is missing unless overwrite is set.
func MakeTranscodeList(flac, mp3 Listing, overwrite bool) []TranscodeAction {
	var out []TranscodeAction
	for _, stem := range flac.stems(".flac") {
		target := stem + ".mp3"
		if !overwrite && mp3.has(target) {
			continue
		}
		out = append(out, TranscodeAction{
			FlacSrc:   filepath.Join(flac.Dir, stem+".flac"),
			Mp3Target: filepath.Join(mp3.Dir, target),
		})
	}
	return out
}

// MakeCleanUpList returns the MP3 files in mp3 with no FLAC source in flac.
func MakeCleanUpList(flac, mp3 Listing) []string {
	var out []string
	for _, stem := range mp3.stems(".mp3") {
		if !flac.has(stem + ".flac") {
			out = append(out, filepath.Join(mp3.Dir, stem+".mp3"))
		}
	}
	return out
}

// Options controls where the MP3 mirror lives.
type Options struct {
	Preset string
	// Suffix appends "-<preset>" to the mirrored directory.
	Suffix bool
}

// Mp3DirFrom mirrors flacDir into the mp3 hierarchy by replacing its "flac"
// path component.
func Mp3DirFrom(flacDir string, opts Options) string {
	dir := filepath.ToSlash(filepath.Clean(flacDir))
	parts := strings.Split(dir, "/")
	for i, part := range parts {
		if part == "flac" {
			parts[i] = "mp3"
			break
		}
	}
	out := filepath.FromSlash(strings.Join(parts, "/"))
	if opts.Suffix && opts.Preset != "" {
		out += "-" + opts.Preset
	}
	return out
}

// Plan is the work for one directory pair.
type Plan struct {
	FlacDir    string
	Mp3Dir     string
	Transcodes []TranscodeAction
	CleanUps   []string
}

// Empty reports a plan with nothing to do.
func (p Plan) Empty() bool {
	return len(p.Transcodes) == 0 && len(p.CleanUps) == 0
}

// PlanDir lists both directories and plans them. Clean up is not planned for
// tracks directories.
func PlanDir(flacDir, mp3Dir string, overwrite bool) (Plan, error) {
	if filepath.Clean(flacDir) == filepath.Clean(mp3Dir) {
		return Plan{}, aurerr.New(aurerr.ErrPolicy, "FLAC and MP3 directories are the same: %s", flacDir)
	}
	flac, err := ReadListing(flacDir)
	if err != nil {
		return Plan{}, err
	}
	mp3, err := ReadListing(mp3Dir)
	if err != nil {
		return Plan{}, err
	}
	plan := Plan{
		FlacDir:    flacDir,
		Mp3Dir:     mp3Dir,
		Transcodes: MakeTranscodeList(flac, mp3, overwrite),
	}
	if filepath.Base(flacDir) != "tracks" {
		plan.CleanUps = MakeCleanUpList(flac, mp3)
	}
	return plan, nil
}
