package metadata

import (
	"fmt"
	"strconv"
	"strings"
)

// FileType is the container format, derived from the file extension.
type FileType string

const (
	FLAC FileType = "flac"
	MP3  FileType = "mp3"
)

// Unknown is the value of a missing string tag.
const Unknown = "unknown"

// ParseFileType maps an extension, with or without the dot, to a FileType.
func ParseFileType(ext string) (FileType, bool) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "flac":
		return FLAC, true
	case "mp3":
		return MP3, true
	default:
		return "", false
	}
}

// Tags holds the six canonical tags.
type Tags struct {
	Artist string
	Album  string
	Title  string
	TNum   uint32
	Year   int32
	Genre  string
}

// DefaultTags returns the sentinel values used for missing tags.
func DefaultTags() Tags {
	return Tags{Artist: Unknown, Album: Unknown, Title: Unknown, Genre: Unknown}
}

// RawTag is one tag as stored, with a lowercased key.
type RawTag struct {
	Key   string
	Value string
}

// Quality describes the audio encoding. FLAC and MP3 carry different facts,
// so each has its own variant.
type Quality interface {
	BitDepth() uint8
	Formatted() string
	quality()
}

// FlacQuality is the bit depth and sample rate from STREAMINFO.
type FlacQuality struct {
	Bits uint8
	Hz   uint32
}

func (q FlacQuality) BitDepth() uint8 { return q.Bits }

func (q FlacQuality) Formatted() string {
	khz := strconv.FormatFloat(float64(q.Hz)/1000, 'f', -1, 64)
	return fmt.Sprintf("%d-bit/%skHz", q.Bits, khz)
}

// IsCDQuality reports 16-bit 44.1kHz audio.
func (q FlacQuality) IsCDQuality() bool {
	return q.Bits == 16 && q.Hz == 44100
}

func (FlacQuality) quality() {}

// Mp3Quality is the effective bitrate derived from size and duration.
type Mp3Quality struct {
	Kbps uint32
}

func (Mp3Quality) BitDepth() uint8 { return 16 }

func (q Mp3Quality) Formatted() string {
	return fmt.Sprintf("%dkbps", q.Kbps)
}

func (Mp3Quality) quality() {}

// Duration is a track length in whole seconds.
type Duration uint64

// Formatted renders HH:MM:SS.
func (d Duration) Formatted() string {
	s := uint64(d)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s/60)%60, s%60)
}

// Metadata is an immutable snapshot of one file.
type Metadata struct {
	Filename   string
	Path       string
	FileType   FileType
	Tags       Tags
	Time       Duration
	Quality    Quality
	RawTags    []RawTag
	HasPicture bool
	InTracks   bool
}

// Raw returns the raw value for key and whether it was present.
func (m *Metadata) Raw(key string) (string, bool) {
	key = strings.ToLower(key)
	for _, tag := range m.RawTags {
		if tag.Key == key {
			return tag.Value, true
		}
	}
	return "", false
}

var (
	flacExpected   = []string{"artist", "album", "title", "tracknumber", "genre", "date"}
	mp3Expected    = []string{"tpe1", "talb", "tit2", "trck", "tyer", "tcon"}
	flacIrrelevant = []string{"encoder", "blank"}
	mp3Irrelevant  = []string{"tlen", "tsse"}
)

// ExpectedTags lists the raw keys holding the six canonical tags.
func ExpectedTags(ft FileType) []string {
	if ft == MP3 {
		return append([]string(nil), mp3Expected...)
	}
	return append([]string(nil), flacExpected...)
}

// IrrelevantTags lists raw keys tolerated without being flagged.
func IrrelevantTags(ft FileType) []string {
	if ft == MP3 {
		return append([]string(nil), mp3Irrelevant...)
	}
	return append([]string(nil), flacIrrelevant...)
}

// PermittedTag reports whether key is expected or irrelevant for ft.
func PermittedTag(ft FileType, key string) bool {
	key = strings.ToLower(key)
	for _, k := range ExpectedTags(ft) {
		if k == key {
			return true
		}
	}
	for _, k := range IrrelevantTags(ft) {
		if k == key {
			return true
		}
	}
	return false
}
