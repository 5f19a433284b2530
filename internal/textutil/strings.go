package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Compacted lowercases s and keeps only letters and digits. Spelling variants
// of the same name ("The B-52's", "The B52s") share a compacted form.
func Compacted(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ReplaceLast replaces only the final occurrence of from in s.
func ReplaceLast(s, from, to string) string {
	if from == "" {
		return s
	}
	idx := strings.LastIndex(s, from)
	if idx < 0 {
		return s
	}
	return s[:idx] + to + s[idx+len(from):]
}

// Capitalize lowercases s then uppercases its first character.
func Capitalize(s string) string {
	s = strings.ToLower(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// StripNonAlnum removes every character that is not a letter or digit.
func StripNonAlnum(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
