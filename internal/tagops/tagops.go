package tagops

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"aur/internal/aurerr"
	"aur/internal/metadata"
	"aur/internal/title"
)

var (
	discDirPattern    = regexp.MustCompile(`^disc_(\d+)$`)
	discSuffixPattern = regexp.MustCompile(` \(Disc \d+\)$`)
)

// AlbumDisc returns the album tag for a file in a disc_N directory: the album
// with any existing disc suffix replaced by " (Disc N)".
func AlbumDisc(m *metadata.Metadata) (string, bool, error) {
	dir := filepath.Base(filepath.Dir(m.Path))
	match := discDirPattern.FindStringSubmatch(dir)
	if match == nil {
		return "", false, aurerr.New(aurerr.ErrPolicy, "%s is not in a disc directory", m.Filename)
	}
	n, _ := strconv.Atoi(match[1])
	album := discSuffixPattern.ReplaceAllString(m.Tags.Album, "")
	want := fmt.Sprintf("%s (Disc %d)", album, n)
	return want, want != m.Tags.Album, nil
}

// Direction is the way renumber shifts track numbers.
type Direction int

const (
	Up Direction = iota
	Down
)

// ParseDirection accepts "up" or "down".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	default:
		return Up, aurerr.New(aurerr.ErrParse, "direction must be 'up' or 'down', not %q", s)
	}
}

// ParseDelta parses a renumber step, which must lie in 1..99.
func ParseDelta(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, aurerr.Wrap(aurerr.ErrParse, "", "invalid number "+strconv.Quote(s), err)
	}
	if n < 1 || n > 99 {
		return 0, aurerr.New(aurerr.ErrParse, "delta must be between 1 and 99, not %d", n)
	}
	return uint32(n), nil
}

// Renumber shifts current by delta. A result outside 1..99 is a Policy error.
func Renumber(current uint32, dir Direction, delta uint32) (uint32, error) {
	next := int64(current) + int64(delta)
	if dir == Down {
		next = int64(current) - int64(delta)
	}
	if next < 1 || next > 99 {
		return 0, aurerr.New(aurerr.ErrPolicy, "track number %d would become %d", current, next)
	}
	return uint32(next), nil
}

// Thes prefixes "The " to an artist, trimming surrounding space first.
func Thes(artist string) (string, bool) {
	want := strings.TrimSpace(artist)
	if !strings.HasPrefix(want, "The ") {
		want = "The " + want
	}
	return want, want != artist
}

// CompilePattern compiles a tagsub expression. Failures are Parse errors.
func CompilePattern(expr string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, aurerr.Wrap(aurerr.ErrParse, "", "", err)
	}
	return re, nil
}

// TagSub replaces every match of re in value.
func TagSub(value string, re *regexp.Regexp, replacement string) (string, bool) {
	want := re.ReplaceAllString(value, replacement)
	return want, want != value
}

// Retitle normalizes a title tag.
func Retitle(r *title.Retitler, value string) (string, bool) {
	want := r.Retitle(value)
	return want, want != value
}

// CopyTags decides whether an MP3 should take the FLAC's tags. Without force,
// only an MP3 newer than its source is touched. Equal tags never are.
func CopyTags(flac, mp3 metadata.Tags, flacMod, mp3Mod time.Time, force bool) bool {
	if flac == mp3 {
		return false
	}
	return force || mp3Mod.After(flacMod)
}

// Name2Num returns the track number at the start of a filename.
func Name2Num(filename string) (uint32, error) {
	end := 0
	for end < len(filename) && filename[end] >= '0' && filename[end] <= '9' {
		end++
	}
	n, err := strconv.ParseUint(filename[:end], 10, 32)
	if end == 0 || err != nil || n == 0 || n > 99 {
		return 0, aurerr.New(aurerr.ErrParse, "%s has no track number", filename)
	}
	return uint32(n), nil
}

// NameTags is what a conventional filename says about a track.
type NameTags struct {
	TNum   uint32
	Artist string
	Title  string
}

// Name2Tag reads NN.artist.title.ext into tag values.
func Name2Tag(maker *title.TagMaker, filename string) (NameTags, error) {
	chunks := strings.Split(filename, ".")
	if len(chunks) != 4 {
		return NameTags{}, aurerr.New(aurerr.ErrParse, "%s is not NN.artist.title.ext", filename)
	}
	num, err := Name2Num(chunks[0])
	if err != nil {
		return NameTags{}, err
	}
	return NameTags{
		TNum:   num,
		Artist: maker.ArtistFrom(chunks[1]),
		Title:  maker.TitleFrom(chunks[2]),
	}, nil
}
