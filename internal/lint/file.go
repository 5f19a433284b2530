package lint

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"aur/internal/config"
	"aur/internal/metadata"
	"aur/internal/validate"
)

// Kind names a violation variant.
type Kind string

const (
	KindBomInArtist          Kind = "bom_in_artist"
	KindBomInTitle           Kind = "bom_in_title"
	KindBomInAlbum           Kind = "bom_in_album"
	KindBomInGenre           Kind = "bom_in_genre"
	KindEmbeddedArtwork      Kind = "embedded_artwork"
	KindInvalidName          Kind = "invalid_name"
	KindUnexpectedTags       Kind = "unexpected_tags"
	KindInvalidArtist        Kind = "invalid_artist_tag"
	KindInvalidTitle         Kind = "invalid_title_tag"
	KindInvalidAlbum         Kind = "invalid_album_tag"
	KindInvalidGenre         Kind = "invalid_genre_tag"
	KindInvalidTNum          Kind = "invalid_t_num_tag"
	KindInvalidYear          Kind = "invalid_year_tag"
	KindInDiscDirButNoDiscN  Kind = "in_disc_dir_but_no_disc_n"
	KindNotInDiscDirButDiscN Kind = "not_in_disc_dir_but_disc_n"
)

// FileViolation is one finding against a single file.
type FileViolation interface {
	Kind() Kind
	String() string
	fileViolation()
}

// BomIn flags a tag value that starts with a UTF-8 byte order mark.
type BomIn struct {
	Tag string
}

// EmbeddedArtwork flags a picture stored inside the file.
type EmbeddedArtwork struct{}

// InvalidName flags a filename that is not NN.artist.title.ext.
type InvalidName struct {
	Name string
}

// UnexpectedTags lists raw tag keys that are neither expected nor
// irrelevant, sorted.
type UnexpectedTags struct {
	Keys []string
}

type InvalidArtist struct{ Value string }
type InvalidTitle struct{ Value string }
type InvalidAlbum struct{ Value string }
type InvalidGenre struct{ Value string }
type InvalidTNum struct{ Value uint32 }
type InvalidYear struct{ Value int32 }

// InDiscDirButNoDiscN flags a file in disc_N whose album lacks "(Disc N)".
type InDiscDirButNoDiscN struct{}

// NotInDiscDirButDiscN flags an album tag naming a disc outside disc_N.
type NotInDiscDirButDiscN struct{}

func (v BomIn) Kind() Kind {
	switch v.Tag {
	case "artist":
		return KindBomInArtist
	case "title":
		return KindBomInTitle
	case "album":
		return KindBomInAlbum
	default:
		return KindBomInGenre
	}
}

func (EmbeddedArtwork) Kind() Kind      { return KindEmbeddedArtwork }
func (InvalidName) Kind() Kind          { return KindInvalidName }
func (UnexpectedTags) Kind() Kind       { return KindUnexpectedTags }
func (InvalidArtist) Kind() Kind        { return KindInvalidArtist }
func (InvalidTitle) Kind() Kind         { return KindInvalidTitle }
func (InvalidAlbum) Kind() Kind         { return KindInvalidAlbum }
func (InvalidGenre) Kind() Kind         { return KindInvalidGenre }
func (InvalidTNum) Kind() Kind          { return KindInvalidTNum }
func (InvalidYear) Kind() Kind          { return KindInvalidYear }
func (InDiscDirButNoDiscN) Kind() Kind  { return KindInDiscDirButNoDiscN }
func (NotInDiscDirButDiscN) Kind() Kind { return KindNotInDiscDirButDiscN }

func (v BomIn) String() string          { return fmt.Sprintf("BOM in %s tag", v.Tag) }
func (EmbeddedArtwork) String() string  { return "Has embedded artwork" }
func (v InvalidName) String() string    { return "Invalid file name: " + v.Name }
func (v UnexpectedTags) String() string { return "Unexpected tags: " + strings.Join(v.Keys, ", ") }
func (v InvalidArtist) String() string  { return "Invalid artist tag: " + v.Value }
func (v InvalidTitle) String() string   { return "Invalid title tag: " + v.Value }
func (v InvalidAlbum) String() string   { return "Invalid album tag: " + v.Value }
func (v InvalidGenre) String() string   { return "Invalid genre tag: " + v.Value }
func (v InvalidTNum) String() string    { return fmt.Sprintf("Invalid track number tag: %d", v.Value) }
func (v InvalidYear) String() string    { return fmt.Sprintf("Invalid year tag: %d", v.Value) }
func (InDiscDirButNoDiscN) String() string {
	return "File is in disc directory but album tag has no disc number"
}
func (NotInDiscDirButDiscN) String() string {
	return "Album tag has disc number but file is not in disc directory"
}

func (BomIn) fileViolation()                {}
func (EmbeddedArtwork) fileViolation()      {}
func (InvalidName) fileViolation()          {}
func (UnexpectedTags) fileViolation()       {}
func (InvalidArtist) fileViolation()        {}
func (InvalidTitle) fileViolation()         {}
func (InvalidAlbum) fileViolation()         {}
func (InvalidGenre) fileViolation()         {}
func (InvalidTNum) fileViolation()          {}
func (InvalidYear) fileViolation()          {}
func (InDiscDirButNoDiscN) fileViolation()  {}
func (NotInDiscDirButDiscN) fileViolation() {}

const bom = "\xef\xbb\xbf"

// CheckFile applies every file rule to m.
func CheckFile(m *metadata.Metadata, v *validate.TagValidator) []FileViolation {
	var out []FileViolation

	if !validate.Filename(m.Filename) {
		out = append(out, InvalidName{Name: m.Filename})
	}

	var unexpected []string
	for _, raw := range m.RawTags {
		if !metadata.PermittedTag(m.FileType, raw.Key) {
			unexpected = append(unexpected, raw.Key)
		}
	}
	if len(unexpected) > 0 {
		sort.Strings(unexpected)
		out = append(out, UnexpectedTags{Keys: unexpected})
	}

	if m.HasPicture {
		out = append(out, EmbeddedArtwork{})
	}

	for _, tag := range []struct{ name, value string }{
		{"artist", m.Tags.Artist},
		{"title", m.Tags.Title},
		{"album", m.Tags.Album},
		{"genre", m.Tags.Genre},
	} {
		if strings.HasPrefix(tag.value, bom) {
			out = append(out, BomIn{Tag: tag.name})
		}
	}

	discInName := strings.Contains(m.Tags.Album, " (Disc ")
	inDiscDir := strings.HasPrefix(filepath.Base(filepath.Dir(m.Path)), "disc_")
	switch {
	case discInName && !inDiscDir:
		out = append(out, NotInDiscDirButDiscN{})
	case inDiscDir && !discInName:
		out = append(out, InDiscDirButNoDiscN{})
	}

	if !v.Artist(m.Tags.Artist) {
		out = append(out, InvalidArtist{Value: m.Tags.Artist})
	}
	if !v.Title(m.Tags.Title) {
		out = append(out, InvalidTitle{Value: m.Tags.Title})
	}
	if !v.Album(m.Tags.Album) {
		out = append(out, InvalidAlbum{Value: m.Tags.Album})
	}
	if !v.Genre(m.Tags.Genre) {
		out = append(out, InvalidGenre{Value: m.Tags.Genre})
	}
	if !v.TNum(strconv.FormatUint(uint64(m.Tags.TNum), 10)) {
		out = append(out, InvalidTNum{Value: m.Tags.TNum})
	}
	if !v.Year(strconv.FormatInt(int64(m.Tags.Year), 10)) {
		out = append(out, InvalidYear{Value: m.Tags.Year})
	}

	return out
}

// FilterFile drops violations suppressed by ignore for the file at path.
func FilterFile(path string, violations []FileViolation, ignore config.LintIgnore) []FileViolation {
	suppress := map[Kind][]string{
		KindInvalidAlbum:  ignore.InvalidAlbumTag,
		KindInvalidArtist: ignore.InvalidArtistTag,
		KindInvalidTitle:  ignore.InvalidTitleTag,
		KindInvalidYear:   ignore.InvalidYearTag,
	}
	out := violations[:0:0]
	for _, v := range violations {
		if containsAny(path, suppress[v.Kind()]) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
