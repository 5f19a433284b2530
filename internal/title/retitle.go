package title

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"aur/internal/textutil"
	"aur/internal/words"
)

// edgeNeighbour stands in for the missing neighbour of the first and last
// words, which forces them to be capitalized.
const edgeNeighbour = "/"

// titleSeparators are tried in order; the first one found splits the word.
var titleSeparators = []string{"=", "-", "+", "/", ":", "."}

var preRetitle = strings.NewReplacer(" & ", " and ", "â€™", "'")

// Retitler normalizes human-typed titles.
type Retitler struct {
	words *words.Words
}

func NewRetitler(w *words.Words) *Retitler {
	return &Retitler{words: w}
}

// Retitle recases every word of s according to its neighbours.
func (r *Retitler) Retitle(s string) string {
	fields := strings.Fields(preRetitle.Replace(s))
	out := make([]string, len(fields))
	for i, word := range fields {
		prev := edgeNeighbour
		if i > 0 && i < len(fields)-1 {
			prev = fields[i-1]
		}
		out[i] = r.titlecase(word, prev, false)
	}
	return strings.Join(out, " ")
}

func (r *Retitler) titlecase(word, prev string, runTogether bool) string {
	if word == "" {
		return word
	}

	first, _ := utf8.DecodeRuneInString(word)
	if !isAlnum(first) {
		idx := strings.IndexFunc(word, isAlnum)
		if idx < 0 {
			return word
		}
		prefix, rest := word[:idx], word[idx:]
		out := r.titlecase(rest, prefix, true)
		if strings.HasSuffix(prefix, "(") {
			out = upperFirst(out)
		}
		return prefix + out
	}

	if strings.HasSuffix(word, ":") || strings.HasSuffix(word, "=") || strings.HasSuffix(word, ")") {
		end := strings.IndexFunc(word, func(r rune) bool { return !isAlnum(r) })
		return r.titlecase(word[:end], prev, runTogether) + word[end:]
	}

	for _, sep := range titleSeparators {
		if !strings.Contains(word, sep) {
			continue
		}
		parts := strings.Split(word, sep)
		for i, part := range parts {
			parts[i] = r.titlecase(part, sep, i > 0)
		}
		return strings.Join(parts, sep)
	}

	if r.words.IsIgnoreCase(strings.ToLower(word)) {
		return word
	}

	stripped := strings.ToLower(textutil.StripNonAlnum(word))
	followsDot := prev == "."

	if (!runTogether || followsDot) && r.isUpcase(word, stripped, followsDot) {
		return strings.ToUpper(word)
	}
	if r.isDowncase(word, stripped, prev, runTogether) {
		return strings.ToLower(word)
	}
	return textutil.Capitalize(word)
}

func (r *Retitler) isUpcase(word, stripped string, followsDot bool) bool {
	length := utf8.RuneCountInString(word)
	if length > 1 && (r.words.IsNoCaps(stripped) || r.words.IsIgnoreCase(stripped)) {
		return false
	}
	return r.words.IsAllCaps(stripped) ||
		(length == 1 && !r.words.IsNoCaps(stripped)) ||
		followsDot
}

func (r *Retitler) isDowncase(word, stripped, prev string, runTogether bool) bool {
	noCaps := r.words.IsNoCaps(stripped) || r.words.IsNoCaps(strings.ToLower(word))
	if !((runTogether && prev != "-") || noCaps) {
		return false
	}
	return !strings.HasSuffix(prev, "[") &&
		!strings.HasSuffix(prev, ":") &&
		!strings.HasSuffix(prev, "=") &&
		!strings.HasSuffix(prev, "/") &&
		!strings.HasSuffix(prev, "+") &&
		!strings.HasSuffix(prev, "?") &&
		!strings.HasSuffix(prev, "!")
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
