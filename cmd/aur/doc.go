// Package main hosts the aur CLI entrypoint and command graph.
//
// Each subcommand expands its arguments into media files or album
// directories, reads them through the metadata store, asks the policy
// packages what should change, and applies the answer unless --noop is set.
// A failure on one file is printed and the next file is processed; the
// command then exits non-zero.
//
// Keep this package lean: decisions belong in internal/tagops, rename, lint
// and syncplan, where they can be tested without a terminal.
package main
