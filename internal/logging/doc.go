// Package logging assembles structured slog loggers and formatting helpers used
// across aur commands.
//
// It owns the console and JSON handlers and the level plumbing driven by the
// --verbose and --quiet flags. Command output goes to stdout; log lines go to
// stderr so they never mix with tables or lint reports. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
