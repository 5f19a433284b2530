// Package config loads, normalizes, and validates aur configuration data.
//
// The configuration is a small TOML document, by default at ~/.aur.toml, whose
// sections are all optional. An absent section means no user overrides: the
// built-in word lists, lint rules and sync defaults apply unchanged.
//
// Always obtain settings through this package so downstream code receives
// trimmed word lists and clear validation errors.
package config
