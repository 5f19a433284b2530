// Package aurerr defines the error taxonomy shared by every aur command.
//
// Errors are tagged with one of a small set of sentinel markers (I/O, format,
// parse, policy, external) so the command layer can classify a failure with
// errors.Is and render the single user-facing line.
package aurerr
