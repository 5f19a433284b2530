package metadata

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-flac/flacvorbis"
	flac "github.com/go-flac/go-flac"

	"aur/internal/aurerr"
)

func readFLAC(path string) (*Metadata, error) {
	file, err := parseFLACMetadata(path)
	if err != nil {
		return nil, err
	}
	info, err := file.GetStreamInfo()
	if err != nil {
		return nil, aurerr.Wrap(aurerr.ErrFormat, filepath.Base(path), "streaminfo", err)
	}

	m := &Metadata{}
	for _, block := range file.Meta {
		switch block.Type {
		case flac.VorbisComment:
			cmt, err := flacvorbis.ParseFromMetaDataBlock(*block)
			if err != nil {
				return nil, aurerr.Wrap(aurerr.ErrFormat, filepath.Base(path), "vorbis comment", err)
			}
			for _, entry := range cmt.Comments {
				key, value, ok := strings.Cut(entry, "=")
				if !ok {
					continue
				}
				m.RawTags = appendRaw(m.RawTags, key, value)
			}
		case flac.Picture:
			m.HasPicture = true
		}
	}

	m.Tags = tagsFromRaw(m.RawTags, "artist", "album", "title", "tracknumber", "genre", "date")
	if info.SampleRate > 0 {
		m.Time = Duration(info.SampleCount / int64(info.SampleRate))
	}
	m.Quality = FlacQuality{Bits: uint8(info.BitDepth), Hz: uint32(info.SampleRate)}
	return m, nil
}

// parseFLACMetadata reads the metadata blocks without loading audio frames.
func parseFLACMetadata(path string) (*flac.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, aurerr.Wrap(aurerr.ErrIO, "", "", err)
	}
	defer f.Close()
	file, err := flac.ParseMetadata(f)
	if err != nil {
		return nil, aurerr.Wrap(aurerr.ErrFormat, filepath.Base(path), "not a FLAC file", err)
	}
	return file, nil
}

func flacAudioMD5(path string) (string, error) {
	file, err := parseFLACMetadata(path)
	if err != nil {
		return "", err
	}
	info, err := file.GetStreamInfo()
	if err != nil {
		return "", aurerr.Wrap(aurerr.ErrFormat, filepath.Base(path), "streaminfo", err)
	}
	return hex.EncodeToString(info.AudioMD5), nil
}

// comments is an editable view of a Vorbis comment block.
type comments struct {
	block *flacvorbis.MetaDataBlockVorbisComment
}

func (c *comments) values(key string) []string {
	var out []string
	for _, entry := range c.block.Comments {
		k, v, ok := strings.Cut(entry, "=")
		if ok && strings.EqualFold(k, key) {
			out = append(out, v)
		}
	}
	return out
}

// set replaces every value of key with value, written under a lowercase key.
func (c *comments) set(key, value string) bool {
	current := c.values(key)
	if len(current) == 1 && current[0] == value {
		return false
	}
	c.remove(key)
	c.block.Comments = append(c.block.Comments, strings.ToLower(key)+"="+value)
	return true
}

func (c *comments) remove(keys ...string) bool {
	drop := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		drop[strings.ToLower(k)] = struct{}{}
	}
	kept := c.block.Comments[:0]
	removed := false
	for _, entry := range c.block.Comments {
		k, _, _ := strings.Cut(entry, "=")
		if _, ok := drop[strings.ToLower(k)]; ok {
			removed = true
			continue
		}
		kept = append(kept, entry)
	}
	c.block.Comments = kept
	return removed
}

// updateComments loads the whole file, applies edit to its Vorbis comments
// and writes the result back when edit reports a change.
func updateComments(path string, edit func(*comments) bool) (bool, error) {
	file, err := flac.ParseFile(path)
	if err != nil {
		return false, classify(path, err)
	}

	idx := -1
	block := flacvorbis.New()
	for i, meta := range file.Meta {
		if meta.Type != flac.VorbisComment {
			continue
		}
		block, err = flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			return false, aurerr.Wrap(aurerr.ErrFormat, filepath.Base(path), "vorbis comment", err)
		}
		idx = i
		break
	}

	if !edit(&comments{block: block}) {
		return false, nil
	}

	marshalled := block.Marshal()
	if idx >= 0 {
		file.Meta[idx] = &marshalled
	} else {
		file.Meta = append(file.Meta, &marshalled)
	}
	return true, saveFLAC(file, path)
}

func removeFLACPictures(path string) (bool, error) {
	file, err := flac.ParseFile(path)
	if err != nil {
		return false, classify(path, err)
	}
	kept := file.Meta[:0]
	for _, meta := range file.Meta {
		if meta.Type != flac.Picture {
			kept = append(kept, meta)
		}
	}
	if len(kept) == len(file.Meta) {
		return false, nil
	}
	file.Meta = kept
	return true, saveFLAC(file, path)
}

// saveFLAC writes to a sibling temporary file and renames it over path so an
// interrupted write never truncates the original.
func saveFLAC(file *flac.File, path string) error {
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".aur-tmp")
	if err := file.Save(tmp); err != nil {
		_ = os.Remove(tmp)
		return aurerr.Wrap(aurerr.ErrIO, "write", filepath.Base(path), err)
	}
	if info, err := os.Stat(path); err == nil {
		_ = os.Chmod(tmp, info.Mode().Perm())
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return aurerr.Wrap(aurerr.ErrIO, "", "", err)
	}
	return nil
}
