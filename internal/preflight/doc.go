// Package preflight provides readiness checks for the media tree and the
// external programs a sync depends on.
//
// syncflac runs ForSync before planning so that a missing tree or encoder
// stops the run before any file is touched. The deps command shows the same
// results as a table.
package preflight
