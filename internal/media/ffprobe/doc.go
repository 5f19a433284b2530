// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// aur reads FLAC stream facts directly from the file, but MP3 has no reliable
// header for duration, so MP3 length comes from ffprobe.
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns parsed Result
package ffprobe
