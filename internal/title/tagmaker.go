package title

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"aur/internal/textutil"
	"aur/internal/words"
)

var initialsPattern = regexp.MustCompile(`^[A-Za-z]-[A-Za-z](-.*)?$`)

// TagMaker derives tag values from safe filename tokens.
type TagMaker struct {
	words *words.Words
}

func NewTagMaker(w *words.Words) *TagMaker {
	return &TagMaker{words: w}
}

// TitleFrom turns a snake_case token into a title. A "--" inside a piece
// opens a bracketed phrase which a later "--" closes.
func (m *TagMaker) TitleFrom(token string) string {
	pieces := strings.FieldsFunc(token, func(r rune) bool { return r == '_' || r == ' ' })
	count := len(pieces)

	out := make([]string, 0, count)
	inBrackets := false
	for i, piece := range pieces {
		switch {
		case initialsPattern.MatchString(piece):
			out = append(out, initials(piece))
		case strings.Contains(piece, "--"):
			var s string
			if inBrackets {
				s = m.closeBrackets(piece, i, count)
				inBrackets = false
			} else {
				s, inBrackets = m.openBrackets(piece)
			}
			out = append(out, s)
		default:
			out = append(out, m.word(piece, i, count))
		}
	}

	s := strings.Join(out, " ")
	if inBrackets {
		s += ")"
	}
	return s
}

// ArtistFrom is TitleFrom with "and the" band names capitalized.
func (m *TagMaker) ArtistFrom(token string) string {
	return strings.ReplaceAll(m.TitleFrom(token), "and the ", "and The ")
}

func (m *TagMaker) GenreFrom(token string) string {
	return strings.TrimSpace(m.TitleFrom(token))
}

// word handles a piece with no brackets: initials, hyphenated words, or a
// plain word which may be expanded.
func (m *TagMaker) word(piece string, index, count int) string {
	if initialsPattern.MatchString(piece) {
		return initials(piece)
	}
	if strings.Contains(piece, "-") {
		parts := strings.Split(piece, "-")
		for i, part := range parts {
			parts[i] = m.smartCapitalize(part, i, len(parts))
		}
		return strings.Join(parts, "-")
	}
	return m.smartCapitalize(m.words.ExpandWord(piece), index, count)
}

// openBrackets returns the rendered piece and whether the bracket is still
// open afterwards.
func (m *TagMaker) openBrackets(piece string) (string, bool) {
	parts := strings.Split(piece, "--")
	head := ""
	if parts[0] != "" {
		head = m.smartCapitalize(m.words.ExpandWord(parts[0]), 0, len(parts)) + " "
	}

	switch len(parts) {
	case 2:
		return head + "(" + m.word(parts[1], 0, 1), true
	case 3:
		return head + "(" + m.word(parts[1], 0, 1) + ")" + m.tail(parts[2]), false
	default:
		middle := strings.ToUpper(strings.Join(parts[1:len(parts)-1], ".")) + "."
		return head + "(" + middle + ")" + m.tail(parts[len(parts)-1]), false
	}
}

func (m *TagMaker) closeBrackets(piece string, index, count int) string {
	parts := strings.SplitN(piece, "--", 2)
	inner := ""
	if parts[0] != "" {
		inner = m.word(parts[0], index, count)
	}
	return inner + ")" + m.tail(parts[1])
}

func (m *TagMaker) tail(s string) string {
	if s == "" {
		return ""
	}
	return " " + m.word(s, 0, 1)
}

func (m *TagMaker) smartCapitalize(word string, index, count int) string {
	if isInitials(word) {
		return word
	}
	stripped := strings.ToLower(textutil.StripNonAlnum(word))
	switch {
	case m.words.IsNoCaps(stripped) && index >= 1 && index <= count-2:
		return strings.ToLower(word)
	case m.words.IsAllCaps(stripped):
		return strings.ToUpper(word)
	case isUpperOrNumeric(word):
		return word
	default:
		return textutil.Capitalize(word)
	}
}

func initials(s string) string {
	return strings.ToUpper(strings.ReplaceAll(s, "-", ".")) + "."
}

// isInitials reports whether s looks like "A.B." already.
func isInitials(s string) bool {
	if utf8.RuneCountInString(s) < 3 {
		return false
	}
	i := 0
	for _, r := range s {
		if i%2 == 0 && !unicode.IsLetter(r) {
			return false
		}
		if i%2 == 1 && r != '.' {
			return false
		}
		i++
	}
	return true
}

func isUpperOrNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
