package tagops

import (
	"errors"
	"testing"
	"time"

	"aur/internal/aurerr"
	"aur/internal/metadata"
	"aur/internal/title"
	"aur/internal/words"
)

func TestAlbumDisc(t *testing.T) {
	m := &metadata.Metadata{
		Filename: "01.artist.song.mp3",
		Path:     "/tmp/x/disc_3/01.artist.song.mp3",
		Tags:     metadata.Tags{Album: "Test Album"},
	}
	got, changed, err := AlbumDisc(m)
	if err != nil || !changed || got != "Test Album (Disc 3)" {
		t.Fatalf("AlbumDisc = %q, %v, %v", got, changed, err)
	}

	m.Tags.Album = got
	if again, changed, err := AlbumDisc(m); err != nil || changed || again != got {
		t.Fatalf("second AlbumDisc = %q, %v, %v", again, changed, err)
	}

	m.Tags.Album = "Test Album (Disc 1)"
	if fixed, changed, _ := AlbumDisc(m); !changed || fixed != "Test Album (Disc 3)" {
		t.Fatalf("wrong disc suffix should be replaced, got %q", fixed)
	}

	m.Path = "/tmp/x/01.artist.song.mp3"
	if _, _, err := AlbumDisc(m); !errors.Is(err, aurerr.ErrPolicy) {
		t.Fatalf("expected policy error outside disc dir, got %v", err)
	}
}

func TestRenumber(t *testing.T) {
	tests := []struct {
		current uint32
		dir     Direction
		delta   uint32
		want    uint32
		wantErr bool
	}{
		{1, Up, 4, 5, false},
		{10, Down, 9, 1, false},
		{1, Down, 1, 0, true},
		{98, Up, 2, 0, true},
	}
	for _, tt := range tests {
		got, err := Renumber(tt.current, tt.dir, tt.delta)
		if tt.wantErr {
			if !errors.Is(err, aurerr.ErrPolicy) {
				t.Errorf("Renumber(%d, %v, %d): expected policy error, got %v", tt.current, tt.dir, tt.delta, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("Renumber(%d, %v, %d) = %d, %v; want %d", tt.current, tt.dir, tt.delta, got, err, tt.want)
		}
	}
}

func TestParseDirectionAndDelta(t *testing.T) {
	if d, err := ParseDirection("DOWN"); err != nil || d != Down {
		t.Fatalf("ParseDirection = %v, %v", d, err)
	}
	if _, err := ParseDirection("sideways"); !errors.Is(err, aurerr.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
	if n, err := ParseDelta("12"); err != nil || n != 12 {
		t.Fatalf("ParseDelta = %d, %v", n, err)
	}
	for _, bad := range []string{"0", "100", "x", "-1"} {
		if _, err := ParseDelta(bad); !errors.Is(err, aurerr.ErrParse) {
			t.Errorf("ParseDelta(%q): expected parse error, got %v", bad, err)
		}
	}
}

func TestThes(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		changed bool
	}{
		{"Test Artist", "The Test Artist", true},
		{"Tester ", "The Tester", true},
		{"The Fall", "The Fall", false},
		{" The Fall", "The Fall", true},
	}
	for _, tt := range tests {
		got, changed := Thes(tt.in)
		if got != tt.want || changed != tt.changed {
			t.Errorf("Thes(%q) = %q, %v; want %q, %v", tt.in, got, changed, tt.want, tt.changed)
		}
	}
}

func TestTagSub(t *testing.T) {
	re, err := CompilePattern(`\s+\(Remastered\)$`)
	if err != nil {
		t.Fatal(err)
	}
	if got, changed := TagSub("Song (Remastered)", re, ""); !changed || got != "Song" {
		t.Fatalf("TagSub = %q, %v", got, changed)
	}
	if _, changed := TagSub("Song", re, ""); changed {
		t.Fatal("no match should be unchanged")
	}
	if _, err := CompilePattern("("); !errors.Is(err, aurerr.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestRetitle(t *testing.T) {
	r := title.NewRetitler(words.Default())
	if got, changed := Retitle(r, "aikea-guinea"); !changed || got != "Aikea-Guinea" {
		t.Fatalf("Retitle = %q, %v", got, changed)
	}
	if _, changed := Retitle(r, "Aikea-Guinea"); changed {
		t.Fatal("valid title should be unchanged")
	}
}

func TestCopyTags(t *testing.T) {
	flac := metadata.Tags{Artist: "A", Album: "B", Title: "C", TNum: 1, Year: 2000, Genre: "D"}
	mp3 := metadata.DefaultTags()
	older := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	if !CopyTags(flac, mp3, newer, older, true) {
		t.Fatal("force should copy onto an older mp3")
	}
	if CopyTags(flac, mp3, newer, older, false) {
		t.Fatal("without force an older mp3 is left alone")
	}
	if !CopyTags(flac, mp3, older, newer, false) {
		t.Fatal("a newer mp3 should take the tags")
	}
	if CopyTags(flac, flac, older, newer, true) {
		t.Fatal("equal tags never need a copy")
	}
}

func TestName2Tag(t *testing.T) {
	maker := title.NewTagMaker(words.Default())
	got, err := Name2Tag(maker, "03.singer.a_song.flac")
	if err != nil {
		t.Fatalf("Name2Tag: %v", err)
	}
	want := NameTags{TNum: 3, Artist: "Singer", Title: "A Song"}
	if got != want {
		t.Fatalf("Name2Tag = %+v, want %+v", got, want)
	}
	if _, err := Name2Tag(maker, "singer.song.flac"); !errors.Is(err, aurerr.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestName2Num(t *testing.T) {
	if n, err := Name2Num("07.a.b.mp3"); err != nil || n != 7 {
		t.Fatalf("Name2Num = %d, %v", n, err)
	}
	for _, bad := range []string{"a.b.mp3", "00.a.b.mp3", "100.a.b.mp3"} {
		if _, err := Name2Num(bad); !errors.Is(err, aurerr.ErrParse) {
			t.Errorf("Name2Num(%q): expected parse error, got %v", bad, err)
		}
	}
}
