package metadata

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dhowden/tag"

	"aur/internal/aurerr"
	"aur/internal/deps"
	"aur/internal/logging"
	"aur/internal/media/ffprobe"
)

// Facade is the tag capability commands depend on.
type Facade interface {
	Read(ctx context.Context, path string) (*Metadata, error)
	SetTag(path string, ft FileType, key, value string) (bool, error)
	RemoveTags(path string, ft FileType, keys []string) (bool, error)
	RemoveArtwork(path string, ft FileType) (bool, error)
	BatchTag(path string, ft FileType, tags Tags) (bool, error)
}

var _ Facade = (*Store)(nil)

// DurationFunc reports a file's duration in seconds.
type DurationFunc func(ctx context.Context, path string) (float64, error)

// Store implements Facade on the local file system.
type Store struct {
	logger *slog.Logger
	probe  DurationFunc
}

// Option configures a Store.
type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logging.NewComponentLogger(logger, "metadata")
	}
}

// WithDurationProbe replaces the ffprobe lookup used for MP3 duration.
func WithDurationProbe(fn DurationFunc) Option {
	return func(s *Store) {
		if fn != nil {
			s.probe = fn
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{logger: logging.NewNop(), probe: ffprobeDuration}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func ffprobeDuration(ctx context.Context, path string) (float64, error) {
	binary, err := deps.FindBinary("ffprobe")
	if err != nil {
		return 0, err
	}
	result, err := ffprobe.Inspect(ctx, binary, path)
	if err != nil {
		return 0, err
	}
	return result.DurationSeconds(), nil
}

// Canonical resolves path to an absolute path with symlinks evaluated. A
// missing file is an I/O error.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", aurerr.Wrap(aurerr.ErrIO, "", "", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", aurerr.Wrap(aurerr.ErrIO, "", "", err)
	}
	return resolved, nil
}

// Read returns a snapshot of the file at path.
func (s *Store) Read(ctx context.Context, path string) (*Metadata, error) {
	abs, err := Canonical(path)
	if err != nil {
		return nil, err
	}
	ft, ok := ParseFileType(filepath.Ext(abs))
	if !ok {
		return nil, aurerr.New(aurerr.ErrFormat, "%s: unsupported file type", filepath.Base(abs))
	}
	if err := sniff(abs, ft); err != nil {
		return nil, err
	}

	var m *Metadata
	switch ft {
	case FLAC:
		m, err = readFLAC(abs)
	default:
		m, err = s.readMP3(ctx, abs)
	}
	if err != nil {
		return nil, err
	}

	m.Filename = filepath.Base(abs)
	m.Path = abs
	m.FileType = ft
	m.InTracks = filepath.Base(filepath.Dir(abs)) == "tracks"
	return m, nil
}

// sniff checks that the content matches the extension.
func sniff(path string, ft FileType) error {
	f, err := os.Open(path)
	if err != nil {
		return aurerr.Wrap(aurerr.ErrIO, "", "", err)
	}
	defer f.Close()

	_, detected, err := tag.Identify(f)
	if err != nil {
		if ft == MP3 {
			// Untagged MP3 has no magic to identify.
			return nil
		}
		return aurerr.Wrap(aurerr.ErrFormat, filepath.Base(path), "not a FLAC file", err)
	}
	want := tag.FLAC
	if ft == MP3 {
		want = tag.MP3
	}
	if detected != want {
		return aurerr.New(aurerr.ErrFormat, "%s: content is %s, not %s", filepath.Base(path), detected, strings.ToUpper(string(ft)))
	}
	return nil
}

// AudioChecksum identifies audio content independent of tags. FLAC uses the
// decoded-audio MD5 from STREAMINFO; MP3 hashes the frames between the tags.
func AudioChecksum(path string) (string, error) {
	ft, ok := ParseFileType(filepath.Ext(path))
	if !ok {
		return "", aurerr.New(aurerr.ErrFormat, "%s: unsupported file type", filepath.Base(path))
	}
	if ft == FLAC {
		return flacAudioMD5(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", aurerr.Wrap(aurerr.ErrIO, "", "", err)
	}
	defer f.Close()
	sum, err := tag.Sum(f)
	if err != nil {
		return "", aurerr.Wrap(aurerr.ErrFormat, filepath.Base(path), "checksum", err)
	}
	return sum, nil
}

// classify maps a library error onto the taxonomy: file system failures are
// I/O, everything else is a format problem.
func classify(path string, err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return aurerr.Wrap(aurerr.ErrIO, "", "", err)
	}
	return aurerr.Wrap(aurerr.ErrFormat, filepath.Base(path), "", err)
}

type field struct {
	vorbis string
	frame  string
}

var fields = map[string]field{
	"artist": {vorbis: "artist", frame: "TPE1"},
	"album":  {vorbis: "album", frame: "TALB"},
	"title":  {vorbis: "title", frame: "TIT2"},
	"t_num":  {vorbis: "tracknumber", frame: "TRCK"},
	"date":   {vorbis: "date", frame: "TYER"},
	"year":   {vorbis: "date", frame: "TYER"},
	"genre":  {vorbis: "genre", frame: "TCON"},
}

// TagKeys lists the names accepted by SetTag.
func TagKeys() []string {
	return []string{"artist", "album", "title", "t_num", "date", "genre"}
}

func fieldFor(key string) (field, error) {
	f, ok := fields[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return field{}, aurerr.New(aurerr.ErrParse, "unknown tag %q; expected one of %s", key, strings.Join(TagKeys(), ", "))
	}
	return f, nil
}

// SetTag writes one canonical tag. It returns false without touching the file
// when the tag already has value.
func (s *Store) SetTag(path string, ft FileType, key, value string) (bool, error) {
	f, err := fieldFor(key)
	if err != nil {
		return false, err
	}
	var changed bool
	switch ft {
	case FLAC:
		changed, err = updateComments(path, func(c *comments) bool {
			return c.set(f.vorbis, value)
		})
	case MP3:
		changed, err = updateMP3(path, func(t *id3Tag) bool {
			return t.set(f.frame, value)
		})
	default:
		return false, aurerr.New(aurerr.ErrFormat, "%s: unsupported file type", filepath.Base(path))
	}
	if changed {
		s.logger.Debug("tag written", logging.Path(path), logging.String("tag", key), logging.String("value", value))
	}
	return changed, err
}

// RemoveTags deletes the named raw tags. Keys are matched case-insensitively.
func (s *Store) RemoveTags(path string, ft FileType, keys []string) (bool, error) {
	if len(keys) == 0 {
		return false, nil
	}
	switch ft {
	case FLAC:
		return updateComments(path, func(c *comments) bool {
			return c.remove(keys...)
		})
	case MP3:
		return updateMP3(path, func(t *id3Tag) bool {
			return t.remove(keys...)
		})
	default:
		return false, aurerr.New(aurerr.ErrFormat, "%s: unsupported file type", filepath.Base(path))
	}
}

// RemoveArtwork deletes every embedded picture.
func (s *Store) RemoveArtwork(path string, ft FileType) (bool, error) {
	switch ft {
	case FLAC:
		return removeFLACPictures(path)
	case MP3:
		return updateMP3(path, func(t *id3Tag) bool {
			return t.remove("APIC")
		})
	default:
		return false, aurerr.New(aurerr.ErrFormat, "%s: unsupported file type", filepath.Base(path))
	}
}

// BatchTag applies all six tags in one write. Zero track numbers and years
// are left alone.
func (s *Store) BatchTag(path string, ft FileType, tags Tags) (bool, error) {
	values := tagValues(tags)
	switch ft {
	case FLAC:
		return updateComments(path, func(c *comments) bool {
			changed := false
			for _, kv := range values {
				if c.set(fields[kv.Key].vorbis, kv.Value) {
					changed = true
				}
			}
			return changed
		})
	case MP3:
		return updateMP3(path, func(t *id3Tag) bool {
			changed := false
			for _, kv := range values {
				if t.set(fields[kv.Key].frame, kv.Value) {
					changed = true
				}
			}
			return changed
		})
	default:
		return false, aurerr.New(aurerr.ErrFormat, "%s: unsupported file type", filepath.Base(path))
	}
}

func tagValues(tags Tags) []RawTag {
	values := []RawTag{
		{Key: "artist", Value: tags.Artist},
		{Key: "album", Value: tags.Album},
		{Key: "title", Value: tags.Title},
	}
	if tags.TNum > 0 {
		values = append(values, RawTag{Key: "t_num", Value: strconv.FormatUint(uint64(tags.TNum), 10)})
	}
	if tags.Year > 0 {
		values = append(values, RawTag{Key: "date", Value: strconv.FormatInt(int64(tags.Year), 10)})
	}
	return append(values, RawTag{Key: "genre", Value: tags.Genre})
}

// tagsFromRaw fills the canonical tags from raw keys.
func tagsFromRaw(raw []RawTag, artist, album, title, tnum, genre string, years ...string) Tags {
	tags := DefaultTags()
	lookup := func(key string) (string, bool) {
		for _, t := range raw {
			if t.Key == key {
				return t.Value, true
			}
		}
		return "", false
	}
	if v, ok := lookup(artist); ok {
		tags.Artist = v
	}
	if v, ok := lookup(album); ok {
		tags.Album = v
	}
	if v, ok := lookup(title); ok {
		tags.Title = v
	}
	if v, ok := lookup(genre); ok {
		tags.Genre = v
	}
	if v, ok := lookup(tnum); ok {
		tags.TNum = uint32(leadingNumber(v, 9))
	}
	for _, key := range years {
		if v, ok := lookup(key); ok {
			if year := leadingNumber(v, 4); year > 0 {
				tags.Year = int32(year)
				break
			}
		}
	}
	return tags
}

// leadingNumber parses up to max leading digits of s, so "3/12" is 3 and
// "1991-05-01" is 1991.
func leadingNumber(s string, max int) uint64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && end < max && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.ParseUint(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// appendRaw adds a value, joining repeated keys with a comma.
func appendRaw(raw []RawTag, key, value string) []RawTag {
	key = strings.ToLower(key)
	for i := range raw {
		if raw[i].Key == key {
			raw[i].Value += "," + value
			return raw
		}
	}
	return append(raw, RawTag{Key: key, Value: value})
}
