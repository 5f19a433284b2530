package words

import (
	"testing"

	"aur/internal/config"
)

func TestDefaultContainsBuiltins(t *testing.T) {
	w := Default()
	for _, s := range []string{"cd", "uk", "xviii", "xxx"} {
		if !w.IsAllCaps(s) {
			t.Errorf("expected %q in all_caps", s)
		}
	}
	for _, s := range []string{"the", "o'clock", "vs", "with"} {
		if !w.IsNoCaps(s) {
			t.Errorf("expected %q in no_caps", s)
		}
	}
	if !w.IsIgnoreCase("x") {
		t.Error("expected x in ignore_case")
	}
	if got := w.ExpandWord("12inch"); got != `12"` {
		t.Errorf("ExpandWord(12inch) = %q", got)
	}
	if got := w.ExpandWord("Dont"); got != "don't" {
		t.Errorf("ExpandWord(Dont) = %q", got)
	}
	if got := w.ExpandWord("song"); got != "song" {
		t.Errorf("unknown words should pass through, got %q", got)
	}
}

func TestNewMergesUserEntries(t *testing.T) {
	w := New(config.Words{
		AllCaps:    []string{"ABBA"},
		NoCaps:     []string{"von"},
		IgnoreCase: []string{"ipod"},
		Expand:     map[string]string{"ft": "featuring", "kmfdm": "KMFDM"},
	})
	if !w.IsAllCaps("abba") || !w.IsAllCaps("cd") {
		t.Error("expected user all_caps merged with built-ins")
	}
	if !w.IsNoCaps("von") || !w.IsNoCaps("the") {
		t.Error("expected user no_caps merged with built-ins")
	}
	if !w.IsIgnoreCase("ipod") || !w.IsIgnoreCase("x") {
		t.Error("expected user ignore_case merged with built-ins")
	}
	if got := w.ExpandWord("ft"); got != "featuring" {
		t.Errorf("user expansion should win, got %q", got)
	}
	if got := w.ExpandWord("kmfdm"); got != "KMFDM" {
		t.Errorf("expected user expansion, got %q", got)
	}
	if got := w.ExpandWord("dont"); got != "don't" {
		t.Errorf("built-in expansion lost, got %q", got)
	}
}

func TestUserEntriesDoNotLeakBetweenDictionaries(t *testing.T) {
	_ = New(config.Words{Expand: map[string]string{"dont": "do not"}})
	if got := Default().ExpandWord("dont"); got != "don't" {
		t.Fatalf("built-in map mutated: %q", got)
	}
}
