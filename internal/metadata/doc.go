// Package metadata reads and writes the tags of FLAC and MP3 files behind a
// single facade.
//
// Read returns an immutable Metadata snapshot: the six canonical tags, every
// raw tag in file order, picture presence, duration and quality. Writes are
// idempotent; a write whose value matches the file reports "unchanged" and
// leaves the file untouched.
//
// FLAC goes through go-flac and its vorbis comment block. MP3 goes through
// id3v2, writing ID3v2.4 frames, with duration from ffprobe.
package metadata
