package lint

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"aur/internal/artwork"
	"aur/internal/aurerr"
	"aur/internal/config"
	"aur/internal/metadata"
	"aur/internal/validate"
)

const (
	KindBadFile           Kind = "bad_file"
	KindBadFileCount      Kind = "bad_file_count"
	KindCoverArtInvalid   Kind = "cover_art_invalid"
	KindCoverArtNotSquare Kind = "cover_art_not_square"
	KindCoverArtTooBig    Kind = "cover_art_too_big"
	KindCoverArtTooSmall  Kind = "cover_art_too_small"
	KindInconsistentTags  Kind = "inconsistent_tags"
	KindInvalidDirName    Kind = "invalid_dir_name"
	KindMixedFileTypes    Kind = "mixed_file_types"
	KindUnsequencedFile   Kind = "unsequenced_file"
)

// DirViolation is one finding against an album directory.
type DirViolation interface {
	Kind() Kind
	String() string
	dirViolation()
}

// BadFile lists files that do not belong in the directory, sorted.
type BadFile struct{ Paths []string }

// BadFileCount flags a highest track number that differs from the number of
// media files.
type BadFileCount struct {
	Highest int
	Count   int
}

type CoverArtInvalid struct{ Reason string }
type CoverArtNotSquare struct{ Width, Height int }
type CoverArtTooBig struct{ Width int }
type CoverArtTooSmall struct{ Width int }

// InconsistentTags names the tags, sorted, on which the files disagree.
type InconsistentTags struct{ Tags []string }

type InvalidDirName struct{ Name string }
type MixedFileTypes struct{}

// UnsequencedFile lists the missing track numbers.
type UnsequencedFile struct{ Missing []int }

func (BadFile) Kind() Kind           { return KindBadFile }
func (BadFileCount) Kind() Kind      { return KindBadFileCount }
func (CoverArtInvalid) Kind() Kind   { return KindCoverArtInvalid }
func (CoverArtNotSquare) Kind() Kind { return KindCoverArtNotSquare }
func (CoverArtTooBig) Kind() Kind    { return KindCoverArtTooBig }
func (CoverArtTooSmall) Kind() Kind  { return KindCoverArtTooSmall }
func (InconsistentTags) Kind() Kind  { return KindInconsistentTags }
func (InvalidDirName) Kind() Kind    { return KindInvalidDirName }
func (MixedFileTypes) Kind() Kind    { return KindMixedFileTypes }
func (UnsequencedFile) Kind() Kind   { return KindUnsequencedFile }

func (v BadFile) String() string { return "Unexpected files: " + strings.Join(v.Paths, ", ") }
func (v BadFileCount) String() string {
	return fmt.Sprintf("Highest track number is %d but there are %d files", v.Highest, v.Count)
}
func (v CoverArtInvalid) String() string { return "Cover art is invalid: " + v.Reason }
func (v CoverArtNotSquare) String() string {
	return fmt.Sprintf("Cover art is not square: %dx%d", v.Width, v.Height)
}
func (v CoverArtTooBig) String() string {
	return fmt.Sprintf("Cover art is too big: %d > %d", v.Width, artwork.MaxSize)
}
func (v CoverArtTooSmall) String() string {
	return fmt.Sprintf("Cover art is too small: %d < %d", v.Width, artwork.MinSize)
}
func (v InconsistentTags) String() string { return "Inconsistent tags: " + strings.Join(v.Tags, ", ") }
func (v InvalidDirName) String() string   { return "Invalid directory name: " + v.Name }
func (MixedFileTypes) String() string     { return "Mixed file types" }
func (v UnsequencedFile) String() string {
	missing := make([]string, len(v.Missing))
	for i, n := range v.Missing {
		missing[i] = strconv.Itoa(n)
	}
	return "Missing track numbers: " + strings.Join(missing, ", ")
}

func (BadFile) dirViolation()           {}
func (BadFileCount) dirViolation()      {}
func (CoverArtInvalid) dirViolation()   {}
func (CoverArtNotSquare) dirViolation() {}
func (CoverArtTooBig) dirViolation()    {}
func (CoverArtTooSmall) dirViolation()  {}
func (InconsistentTags) dirViolation()  {}
func (InvalidDirName) dirViolation()    {}
func (MixedFileTypes) dirViolation()    {}
func (UnsequencedFile) dirViolation()   {}

// Hierarchy is the tree a path belongs to.
type Hierarchy int

const (
	HierarchyNone Hierarchy = iota
	HierarchyFLAC
	HierarchyMP3
)

// HierarchyOf inspects the path components of dir. A path under both trees
// is a Policy error.
func HierarchyOf(dir string) (Hierarchy, error) {
	var flac, mp3 bool
	for _, part := range strings.Split(filepath.ToSlash(dir), "/") {
		switch part {
		case "flac":
			flac = true
		case "mp3":
			mp3 = true
		}
	}
	switch {
	case flac && mp3:
		return HierarchyNone, aurerr.New(aurerr.ErrPolicy, "%s is under both flac and mp3 hierarchies", dir)
	case flac:
		return HierarchyFLAC, nil
	case mp3:
		return HierarchyMP3, nil
	default:
		return HierarchyNone, nil
	}
}

// DirInput carries the two views of one directory: every regular file in it,
// and the metadata of the media files among them.
type DirInput struct {
	Dir      string
	Files    []string
	Metadata []*metadata.Metadata
}

// CheckDir applies every directory rule. The tracks directory and
// directories without media files yield nothing.
func CheckDir(in DirInput, images artwork.Decoder) ([]DirViolation, error) {
	if filepath.Base(in.Dir) == "tracks" || len(in.Metadata) == 0 {
		return nil, nil
	}
	hierarchy, err := HierarchyOf(in.Dir)
	if err != nil {
		return nil, err
	}

	var out []DirViolation

	if !validate.Directory(in.Dir) {
		out = append(out, InvalidDirName{Name: filepath.Base(in.Dir)})
	}

	if bad := badFiles(in, hierarchy); len(bad) > 0 {
		out = append(out, BadFile{Paths: bad})
	}

	out = append(out, sequencing(in.Metadata)...)

	if tags := inconsistentTags(in.Dir, in.Metadata); len(tags) > 0 {
		out = append(out, InconsistentTags{Tags: tags})
	}

	if hierarchy == HierarchyFLAC {
		out = append(out, CoverArt(filepath.Join(in.Dir, artwork.CoverName), images)...)
	}

	types := make(map[metadata.FileType]struct{})
	for _, m := range in.Metadata {
		types[m.FileType] = struct{}{}
	}
	if len(types) > 1 {
		out = append(out, MixedFileTypes{})
	}

	return out, nil
}

func badFiles(in DirInput, hierarchy Hierarchy) []string {
	media := make(map[string]struct{}, len(in.Metadata))
	for _, m := range in.Metadata {
		media[m.Filename] = struct{}{}
	}
	var bad []string
	for _, f := range in.Files {
		name := filepath.Base(f)
		if _, ok := media[name]; ok {
			continue
		}
		if hierarchy == HierarchyFLAC && name == artwork.CoverName {
			continue
		}
		bad = append(bad, f)
	}
	sort.Strings(bad)
	return bad
}

func sequencing(files []*metadata.Metadata) []DirViolation {
	seen := make(map[int]struct{}, len(files))
	highest := 0
	for _, m := range files {
		n, ok := leadingInt(m.Filename)
		if !ok {
			continue
		}
		seen[n] = struct{}{}
		if n > highest {
			highest = n
		}
	}

	var out []DirViolation
	if highest != len(files) {
		out = append(out, BadFileCount{Highest: highest, Count: len(files)})
	}
	var missing []int
	for i := 1; i <= len(files); i++ {
		if _, ok := seen[i]; !ok {
			missing = append(missing, i)
		}
	}
	if len(missing) > 0 {
		out = append(out, UnsequencedFile{Missing: missing})
	}
	return out
}

func leadingInt(name string) (int, bool) {
	end := 0
	for end < len(name) && name[end] >= '0' && name[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(name[:end])
	return n, err == nil
}

func inconsistentTags(dir string, files []*metadata.Metadata) []string {
	first := files[0].Tags
	var artist, album, year, genre bool
	for _, m := range files[1:] {
		artist = artist || m.Tags.Artist != first.Artist
		album = album || m.Tags.Album != first.Album
		year = year || m.Tags.Year != first.Year
		genre = genre || m.Tags.Genre != first.Genre
	}
	if artist && (IsCompilation(dir) || samePrimaryArtist(files)) {
		artist = false
	}

	var out []string
	if album {
		out = append(out, "album")
	}
	if artist {
		out = append(out, "artist")
	}
	if genre {
		out = append(out, "genre")
	}
	if year {
		out = append(out, "year")
	}
	return out
}

// IsCompilation reports a various-artists or split directory. Disc
// subdirectories, which have no dot, defer to their parent.
func IsCompilation(dir string) bool {
	name := filepath.Base(dir)
	if !strings.Contains(name, ".") {
		name = filepath.Base(filepath.Dir(dir))
	}
	return strings.HasPrefix(name, "various.") || strings.Contains(name, "--")
}

var featuringSeparators = []string{"feat", "feat.", "featuring", "and", "with", "/"}

// PrimaryArtist strips a featured or collaborating artist.
func PrimaryArtist(artist string) string {
	primary := artist
	for _, sep := range featuringSeparators {
		head, _, _ := strings.Cut(artist, " "+sep+" ")
		head = strings.TrimSpace(head)
		if len(head) < len(primary) {
			primary = head
		}
	}
	return primary
}

func samePrimaryArtist(files []*metadata.Metadata) bool {
	want := PrimaryArtist(files[0].Tags.Artist)
	for _, m := range files[1:] {
		if PrimaryArtist(m.Tags.Artist) != want {
			return false
		}
	}
	return true
}

// CoverArt checks the image at path against the cover rules.
func CoverArt(path string, images artwork.Decoder) []DirViolation {
	dims, err := images.Decode(path)
	if err != nil {
		return []DirViolation{CoverArtInvalid{Reason: aurerr.Message(err)}}
	}
	var out []DirViolation
	if !dims.Square() {
		out = append(out, CoverArtNotSquare{Width: dims.Width, Height: dims.Height})
	}
	switch {
	case dims.Width > artwork.MaxSize:
		out = append(out, CoverArtTooBig{Width: dims.Width})
	case dims.Width < artwork.MinSize:
		out = append(out, CoverArtTooSmall{Width: dims.Width})
	}
	return out
}

// FilterDir drops violations suppressed by ignore for dir.
func FilterDir(dir string, violations []DirViolation, ignore config.LintdirIgnore) []DirViolation {
	suppress := map[Kind][]string{
		KindBadFileCount:     ignore.BadFileCount,
		KindInconsistentTags: ignore.InconsistentTags,
	}
	out := violations[:0:0]
	for _, v := range violations {
		if containsAny(dir, suppress[v.Kind()]) {
			continue
		}
		out = append(out, v)
	}
	return out
}
