package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NoTitle is returned by ToSafe when nothing survives sanitization.
const NoTitle = "no_title"

// stripMarks decomposes accented characters and removes the combining marks.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// asciiFold covers Latin letters that have no decomposition.
var asciiFold = strings.NewReplacer(
	"ß", "ss",
	"æ", "ae",
	"œ", "oe",
	"ø", "o",
	"ł", "l",
	"đ", "d",
	"ð", "d",
	"þ", "th",
	"ı", "i",
	"’", "'",
)

// Transliterate folds accented Latin text to its closest ASCII spelling.
// Characters without an ASCII equivalent are left in place.
func Transliterate(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	return asciiFold.Replace(folded)
}

// safeBuilder assembles a safe token with one character of lookback.
type safeBuilder struct {
	out        []rune
	doubleDash bool
}

func (b *safeBuilder) last() rune {
	if len(b.out) == 0 {
		return 0
	}
	return b.out[len(b.out)-1]
}

func (b *safeBuilder) beforeLast() rune {
	if len(b.out) < 2 {
		return 0
	}
	return b.out[len(b.out)-2]
}

func (b *safeBuilder) pop() {
	if len(b.out) > 0 {
		b.out = b.out[:len(b.out)-1]
	}
}

func (b *safeBuilder) push(s string) {
	b.out = append(b.out, []rune(s)...)
}

// word appends alphanumeric text, which always ends a bracket run.
func (b *safeBuilder) word(s string) {
	b.push(s)
	b.doubleDash = false
}

func (b *safeBuilder) openDoubleDash() {
	b.push("--")
	b.doubleDash = true
}

// ToSafe produces a filesystem-safe token from an arbitrary string. The
// result contains only [a-z0-9_-] and is stable under repeated application.
func ToSafe(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "£", "")
	s = Transliterate(strings.ToLower(s))

	in := []rune(s)
	b := &safeBuilder{out: make([]rune, 0, len(in))}

	for i, c := range in {
		isLast := i == len(in)-1
		last := b.last()

		switch {
		case (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'):
			b.word(string(c))

		case unicode.IsSpace(c):
			if last == '-' && !b.doubleDash {
				b.pop()
			}
			if len(b.out) > 0 && b.last() != '_' && !b.doubleDash {
				b.push("_")
			}

		case c == '-':
			switch {
			case last == '_':
				b.pop()
				b.openDoubleDash()
			case last == '-' && !b.doubleDash:
				b.push("-")
				b.doubleDash = true
			case last != '-' && len(b.out) > 0:
				b.push("-")
			}

		case c == '.':
			if last == '-' && !b.doubleDash {
				b.pop()
			}
			if !isLast && !b.doubleDash && len(b.out) > 0 {
				b.push("-")
			}

		case c == '/' || c == '>':
			if last == '_' {
				b.pop()
			}
			if len(b.out) > 0 && b.last() != '-' && !isLast {
				b.openDoubleDash()
			}

		case c == '"':
			if last == '2' || last == '7' {
				b.word("_inch")
			}

		case c == '\'':
			if (last == 'o' || last == 'd' || last == 'l') && (b.beforeLast() == 0 || b.beforeLast() == '_') {
				b.push("-")
			}

		case c == '(' || c == ')' || c == '[' || c == ']' || c == ':':
			if last == '_' || (last == '-' && !b.doubleDash) {
				b.pop()
			}
			if !isLast && !b.doubleDash && len(b.out) > 0 {
				b.openDoubleDash()
			}

		case c == '+':
			switch {
			case isLast && last == '_':
				b.word("plus")
			case isLast:
				b.word("_plus")
			case in[i+1] == '-':
				b.word("plus-minus")
			case last == '_' && unicode.IsSpace(in[i+1]):
				b.word("and")
			default:
				b.word("plus")
			}

		case c == '_':
			if len(b.out) > 0 && last != '_' {
				b.push("_")
			}

		case c == '*':
			if len(b.out) > 0 && last != '-' {
				b.push("-")
			}

		case c == '#':
			if isLast {
				b.word("number")
			} else {
				b.word("hash")
			}

		case c == '@':
			b.word("at")
		case c == '&':
			b.word("and")
		case c == '$':
			b.word("dollar")
		case c == '=':
			b.word("equals")
		case c == '%':
			b.word("percent")
		}
	}

	out := tidySeparators(b.out)
	if out == "" {
		return NoTitle
	}
	return out
}

// tidySeparators settles separator runs so a second ToSafe pass leaves the
// token alone: no leading separator, no "__", "_-" becomes a double dash,
// at most two dashes in a row and no trailing separator.
func tidySeparators(in []rune) string {
	out := make([]rune, 0, len(in))
	tail := func(n int) rune {
		if len(out) < n {
			return 0
		}
		return out[len(out)-n]
	}
	for _, c := range in {
		switch c {
		case '_':
			if len(out) > 0 && tail(1) != '_' {
				out = append(out, c)
			}
		case '-':
			if tail(1) == '_' {
				out = out[:len(out)-1]
			}
			if len(out) > 0 && !(tail(1) == '-' && tail(2) == '-') {
				out = append(out, c)
			}
		default:
			out = append(out, c)
		}
	}
	return strings.TrimRight(string(out), "-_")
}
