// Package words holds the dictionary that drives title casing: which tokens
// are forced upper case, kept lower case, left alone, or expanded.
package words

import (
	"strings"

	"aur/internal/config"
)

var baseAllCaps = []string{
	"cd", "diy", "dj", "dvd", "ep", "lp", "ok", "ps", "uk", "usa",
	"ii", "iii", "iv", "v", "vi", "vii", "viii", "ix", "x", "xi", "xii", "xiii",
	"xiv", "xv", "xvi", "xvii", "xviii", "xix", "xx", "xxi", "xxv", "xxx",
}

var baseNoCaps = []string{
	"a", "am", "an", "and", "are", "as", "at", "au", "by", "ce", "dans", "de",
	"des", "du", "es", "est", "et", "feat", "for", "from", "in", "into", "is",
	"it", "its", "la", "le", "ne", "nor", "o'clock", "of", "off", "on", "onto",
	"or", "out", "pas", "per", "se", "so", "te", "than", "that", "the", "till",
	"to", "too", "un", "une", "via", "vs", "when", "with",
}

var baseIgnoreCase = []string{"x"}

var baseExpand = map[string]string{
	"12inch":    `12"`,
	"7inch":     `7"`,
	"--":        " - ",
	"&":         "and",
	"aint":      "ain't",
	"cant":      "can't",
	"couldnt":   "couldn't",
	"didnt":     "didn't",
	"dj":        "DJ",
	"doesnt":    "doesn't",
	"dont":      "don't",
	"etc":       "etc.",
	"featuring": "feat.",
	"ft":        "feat.",
	"hes":       "he's",
	"havent":    "haven't",
	"ive":       "I've",
	"im":        "I'm",
	"isnt":      "isn't",
	"its":       "it's",
	"lets":      "let's",
	"n":         "'n'",
	"shes":      "she's",
	"thats":     "that's",
	"theres":    "there's",
	"wasnt":     "wasn't",
	"weve":      "we've",
	"whats":     "what's",
	"whos":      "who's",
	"wont":      "won't",
	"wouldnt":   "wouldn't",
	"youll":     "you'll",
	"youre":     "you're",
	"youve":     "you've",
}

// Words is the merged dictionary. Build it once per run with New and share it
// read-only.
type Words struct {
	AllCaps    map[string]struct{}
	NoCaps     map[string]struct{}
	IgnoreCase map[string]struct{}
	Expand     map[string]string
}

// New merges the built-in lists with user additions. Built-ins are never
// removed and user expansions win on key collision.
func New(user config.Words) *Words {
	w := &Words{
		AllCaps:    toSet(baseAllCaps, user.AllCaps),
		NoCaps:     toSet(baseNoCaps, user.NoCaps),
		IgnoreCase: toSet(baseIgnoreCase, user.IgnoreCase),
		Expand:     make(map[string]string, len(baseExpand)+len(user.Expand)),
	}
	for k, v := range baseExpand {
		w.Expand[k] = v
	}
	for k, v := range user.Expand {
		w.Expand[strings.ToLower(k)] = v
	}
	return w
}

// Default returns the dictionary with no user additions.
func Default() *Words {
	return New(config.Words{})
}

func (w *Words) IsAllCaps(s string) bool {
	_, ok := w.AllCaps[s]
	return ok
}

func (w *Words) IsNoCaps(s string) bool {
	_, ok := w.NoCaps[s]
	return ok
}

func (w *Words) IsIgnoreCase(s string) bool {
	_, ok := w.IgnoreCase[s]
	return ok
}

// ExpandWord returns the replacement for s, or s itself when there is none.
func (w *Words) ExpandWord(s string) string {
	if v, ok := w.Expand[strings.ToLower(s)]; ok {
		return v
	}
	return s
}

func toSet(base, extra []string) map[string]struct{} {
	set := make(map[string]struct{}, len(base)+len(extra))
	for _, s := range base {
		set[s] = struct{}{}
	}
	for _, s := range extra {
		set[strings.ToLower(s)] = struct{}{}
	}
	return set
}
