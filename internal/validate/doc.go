// Package validate holds the predicates that decide whether a tag value, a
// filename or a directory name follows the library convention.
//
// Every function here is pure. Lint rules combine them; commands that write
// tags use them to refuse values lint would later reject.
package validate
