// Package textutil provides the deterministic text transforms that tie
// filenames and tags together.
//
// The primary use cases are:
//   - Converting arbitrary user strings into filesystem-safe tokens (ToSafe)
//   - Reducing artist names to a comparable form (Compacted)
//   - Small casing and replacement helpers used by the title engine
//
// A safe token contains only ASCII lowercase letters and digits, with '_' as
// the word separator, '-' as an intra-word hyphen and "--" as a bracket or
// path separator.
package textutil
