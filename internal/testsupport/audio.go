package testsupport

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/bogem/id3v2/v2"
)

// FLACOptions describes a synthetic FLAC file. The audio frames are filler;
// only the metadata blocks are meaningful.
type FLACOptions struct {
	SampleRate uint32
	BitDepth   uint8
	Seconds    uint64
	Comments   []string
	Picture    bool
	AudioMD5   [16]byte
}

// WriteFLAC writes a minimal FLAC file with the given tags, each given as
// "KEY=value".
func WriteFLAC(t testing.TB, path string, comments ...string) {
	t.Helper()
	WriteFLACWith(t, path, FLACOptions{Comments: comments})
}

// WriteFLACWith writes a minimal FLAC file described by opts.
func WriteFLACWith(t testing.TB, path string, opts FLACOptions) {
	t.Helper()
	if opts.SampleRate == 0 {
		opts.SampleRate = 44100
	}
	if opts.BitDepth == 0 {
		opts.BitDepth = 16
	}
	if opts.Seconds == 0 {
		opts.Seconds = 180
	}

	type block struct {
		kind byte
		data []byte
	}
	blocks := []block{
		{kind: 0, data: streamInfo(opts)},
		{kind: 4, data: vorbisComment(opts.Comments)},
	}
	if opts.Picture {
		blocks = append(blocks, block{kind: 6, data: pictureBlock()})
	}

	var buf bytes.Buffer
	buf.WriteString("fLaC")
	for i, b := range blocks {
		header := b.kind
		if i == len(blocks)-1 {
			header |= 0x80
		}
		n := len(b.data)
		buf.Write([]byte{header, byte(n >> 16), byte(n >> 8), byte(n)})
		buf.Write(b.data)
	}
	buf.Write(bytes.Repeat([]byte{0xff, 0xf8, 0x69, 0x08}, 64))

	MkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write flac %s: %v", path, err)
	}
}

func streamInfo(opts FLACOptions) []byte {
	out := make([]byte, 34)
	binary.BigEndian.PutUint16(out[0:], 4096)
	binary.BigEndian.PutUint16(out[2:], 4096)
	// Bytes 4..9 hold zero min/max frame sizes.
	samples := opts.Seconds * uint64(opts.SampleRate)
	packed := uint64(opts.SampleRate)<<44 |
		uint64(1)<<41 | // two channels, stored minus one
		uint64(opts.BitDepth-1)<<36 |
		samples&0xfffffffff
	binary.BigEndian.PutUint64(out[10:], packed)
	copy(out[18:], opts.AudioMD5[:])
	return out
}

func vorbisComment(entries []string) []byte {
	var buf bytes.Buffer
	writeLE := func(s string) {
		_ = binary.Write(&buf, binary.LittleEndian, uint32(len(s)))
		buf.WriteString(s)
	}
	writeLE("aur test")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(entries)))
	for _, e := range entries {
		writeLE(e)
	}
	return buf.Bytes()
}

func pictureBlock() []byte {
	var buf bytes.Buffer
	writeBE := func(v uint32) { _ = binary.Write(&buf, binary.BigEndian, v) }
	writeBE(3) // front cover
	writeBE(uint32(len("image/jpeg")))
	buf.WriteString("image/jpeg")
	writeBE(0)
	writeBE(1)
	writeBE(1)
	writeBE(24)
	writeBE(0)
	writeBE(4)
	buf.Write([]byte{0xff, 0xd8, 0xff, 0xd9})
	return buf.Bytes()
}

// WriteMP3 writes filler MPEG data with an ID3v2 tag holding frames, keyed
// by frame ID. A nil map writes an untagged file.
func WriteMP3(t testing.TB, path string, frames map[string]string) {
	t.Helper()
	MkdirAll(t, filepath.Dir(path))

	audio := bytes.Repeat(append([]byte{0xff, 0xfb, 0x90, 0x64}, make([]byte, 413)...), 32)
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		t.Fatalf("write mp3 %s: %v", path, err)
	}
	if len(frames) == 0 {
		return
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("open id3 %s: %v", path, err)
	}
	defer tag.Close()
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	ids := make([]string, 0, len(frames))
	for id := range frames {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		switch {
		case id == "APIC":
			tag.AddAttachedPicture(id3v2.PictureFrame{
				Encoding:    id3v2.EncodingUTF8,
				MimeType:    "image/jpeg",
				PictureType: id3v2.PTFrontCover,
				Picture:     []byte(frames[id]),
			})
		case strings.HasPrefix(id, "T"):
			tag.AddTextFrame(id, id3v2.EncodingUTF8, frames[id])
		default:
			tag.AddCommentFrame(id3v2.CommentFrame{
				Encoding: id3v2.EncodingUTF8,
				Language: "eng",
				Text:     frames[id],
			})
		}
	}
	if err := tag.Save(); err != nil {
		t.Fatalf("save id3 %s: %v", path, err)
	}
}
