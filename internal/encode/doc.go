// Package encode drives the external audio tools: flac and lame for MP3
// transcodes, ffmpeg for re-encoding, format conversion and verification,
// and shnsplit for cue-sheet splits.
//
// Argument construction is kept separate from execution so command lines can
// be checked without the tools installed.
package encode
