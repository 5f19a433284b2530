// Package tagops holds the decisions behind the tag-editing commands. Each
// function maps the current state of a file to the value it should have and
// whether a write is needed, so commands stay idempotent and the decisions
// can be tested without touching disk.
package tagops
