// Package lint classifies house-convention violations for single files and
// for album directories.
//
// Violations form two closed sets, FileViolation and DirViolation. Each
// variant carries its own payload and reports a Kind, which is what the
// configured ignore lists match against.
package lint
