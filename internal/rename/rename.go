// Package rename computes the canonical names used by tag2name, num2name and
// sort, and applies them without clobbering existing files.
package rename

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"aur/internal/fileutil"
	"aur/internal/metadata"
	"aur/internal/textutil"
)

// ErrIncomplete marks a file without the tags a rename needs.
var ErrIncomplete = errors.New("cannot get artist and album")

// Move is a planned rename.
type Move struct {
	Src string
	Dst string
}

// SafeFilename builds NN.artist.title.ext. A leading "the_" is dropped from
// the artist.
func SafeFilename(num uint32, artist, title, ext string) string {
	return fmt.Sprintf("%02d.%s.%s.%s",
		num,
		strings.TrimPrefix(textutil.ToSafe(artist), "the_"),
		textutil.ToSafe(title),
		strings.ToLower(strings.TrimPrefix(ext, ".")),
	)
}

// Tag2Name names m from its tags. It reports false when the name is already
// correct.
func Tag2Name(m *metadata.Metadata) (Move, bool) {
	name := SafeFilename(m.Tags.TNum, m.Tags.Artist, m.Tags.Title, string(m.FileType))
	if name == m.Filename {
		return Move{}, false
	}
	return Move{Src: m.Path, Dst: filepath.Join(filepath.Dir(m.Path), name)}, true
}

// Num2Name prefixes the filename with the zero-padded track number unless
// it already has that prefix.
func Num2Name(m *metadata.Metadata) (Move, bool) {
	prefix := fmt.Sprintf("%02d.", m.Tags.TNum)
	if strings.HasPrefix(m.Filename, prefix) {
		return Move{}, false
	}
	return Move{Src: m.Path, Dst: filepath.Join(filepath.Dir(m.Path), prefix+m.Filename)}, true
}

// AlbumDirName is "artist.album" in safe form.
func AlbumDirName(artist, album string) string {
	return textutil.ToSafe(artist) + "." + textutil.ToSafe(album)
}

// Sort moves m into an artist.album directory beside it. Files already in
// that directory are left alone.
func Sort(m *metadata.Metadata) (Move, bool, error) {
	if missing(m.Tags.Artist) || missing(m.Tags.Album) {
		return Move{}, false, fmt.Errorf("%s: %w", m.Filename, ErrIncomplete)
	}
	dir := filepath.Dir(m.Path)
	target := AlbumDirName(m.Tags.Artist, m.Tags.Album)
	if filepath.Base(dir) == target {
		return Move{}, false, nil
	}
	return Move{Src: m.Path, Dst: filepath.Join(dir, target, m.Filename)}, true, nil
}

func missing(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == metadata.Unknown
}

// Apply performs mv. An existing destination is an error.
func Apply(mv Move) error {
	return fileutil.MoveFile(mv.Src, mv.Dst)
}
