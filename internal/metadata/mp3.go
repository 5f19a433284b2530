package metadata

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bogem/id3v2/v2"

	"aur/internal/aurerr"
	"aur/internal/logging"
)

func (s *Store) readMP3(ctx context.Context, path string) (*Metadata, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, classify(path, err)
	}
	defer tag.Close()

	m := &Metadata{}
	frames := tag.AllFrames()
	ids := make([]string, 0, len(frames))
	for id := range frames {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if id == "APIC" {
			m.HasPicture = true
			continue
		}
		for _, frame := range frames[id] {
			m.RawTags = appendRaw(m.RawTags, id, frameText(frame))
		}
	}
	m.Tags = tagsFromRaw(m.RawTags, "tpe1", "talb", "tit2", "trck", "tcon", "tyer", "tdrc")

	seconds, err := s.probe(ctx, path)
	if err != nil {
		s.logger.Debug("duration unavailable", logging.Path(path), logging.Error(err))
		seconds = 0
	}
	m.Time = Duration(seconds)

	var kbps uint32
	if info, err := os.Stat(path); err == nil && seconds > 0 {
		kbps = uint32(float64(info.Size()) * 8 / seconds / 1000)
	}
	m.Quality = Mp3Quality{Kbps: kbps}
	return m, nil
}

func frameText(frame id3v2.Framer) string {
	switch f := frame.(type) {
	case id3v2.TextFrame:
		return f.Text
	case id3v2.CommentFrame:
		return f.Text
	case id3v2.UserDefinedTextFrame:
		return f.Value
	case id3v2.UnsynchronisedLyricsFrame:
		return f.Lyrics
	default:
		return ""
	}
}

// id3Tag is an editable view of an ID3v2 tag.
type id3Tag struct {
	tag *id3v2.Tag
}

// set replaces every frame with id by a single UTF-8 text frame.
func (t *id3Tag) set(id, value string) bool {
	frames := t.tag.GetFrames(id)
	if len(frames) == 1 && frameText(frames[0]) == value {
		return false
	}
	t.tag.DeleteFrames(id)
	t.tag.AddTextFrame(id, id3v2.EncodingUTF8, value)
	return true
}

func (t *id3Tag) remove(ids ...string) bool {
	removed := false
	for _, id := range ids {
		id = strings.ToUpper(id)
		if len(t.tag.GetFrames(id)) == 0 {
			continue
		}
		t.tag.DeleteFrames(id)
		removed = true
	}
	return removed
}

// updateMP3 applies edit and saves as ID3v2.4 UTF-8 when it reports a change.
func updateMP3(path string, edit func(*id3Tag) bool) (bool, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return false, classify(path, err)
	}
	defer tag.Close()

	if !edit(&id3Tag{tag: tag}) {
		return false, nil
	}
	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	if err := tag.Save(); err != nil {
		return false, aurerr.Wrap(aurerr.ErrIO, "write", filepath.Base(path), err)
	}
	return true, nil
}
