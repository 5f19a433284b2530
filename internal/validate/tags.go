package validate

import (
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"aur/internal/title"
)

// EarliestYear is the oldest release year accepted in a date tag.
const EarliestYear = 1938

// TagValidator checks tag values. Genre checks consult the TagMaker and the
// configured genre list.
type TagValidator struct {
	maker  *title.TagMaker
	genres map[string]struct{}
	now    func() time.Time
}

// NewTagValidator builds a validator. Configured genres are accepted verbatim.
func NewTagValidator(maker *title.TagMaker, genres []string) *TagValidator {
	set := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		set[g] = struct{}{}
	}
	return &TagValidator{maker: maker, genres: set, now: time.Now}
}

// TNum accepts "1" to "99" with no leading zero.
func (v *TagValidator) TNum(s string) bool {
	return ValidTNum(s)
}

// Year accepts four-digit years from EarliestYear to the current year.
func (v *TagValidator) Year(s string) bool {
	if len(s) != 4 {
		return false
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return year >= EarliestYear && year <= v.now().Year()
}

func (v *TagValidator) Genre(s string) bool {
	if s == "" {
		return false
	}
	if _, ok := v.genres[s]; ok {
		return true
	}
	return s == v.maker.GenreFrom(s)
}

func (v *TagValidator) Artist(s string) bool { return HasNothingForbidden(s) }
func (v *TagValidator) Album(s string) bool  { return HasNothingForbidden(s) }
func (v *TagValidator) Title(s string) bool  { return HasNothingForbidden(s) }

// ValidTNum accepts "1" to "99" with no leading zero.
func ValidTNum(s string) bool {
	if len(s) < 1 || len(s) > 2 || s[0] == '0' {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// HasNothingForbidden is the shared rule for artist, album and title tags.
func HasNothingForbidden(s string) bool {
	if s == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	last, _ := utf8.DecodeLastRuneInString(s)
	if unicode.IsSpace(first) || unicode.IsSpace(last) {
		return false
	}
	if strings.ContainsAny(s, "&;’") {
		return false
	}

	runes := []rune(s)
	for i, r := range runes {
		var next rune
		if i+1 < len(runes) {
			next = runes[i+1]
		}
		if unicode.IsSpace(r) && unicode.IsSpace(next) {
			return false
		}
		if r == ',' && unicode.IsLetter(next) {
			return false
		}
	}
	return true
}
