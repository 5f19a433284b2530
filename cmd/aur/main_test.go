package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"aur/internal/aurerr"
	"aur/internal/config"
	"aur/internal/metadata"
	"aur/internal/testsupport"
)

type cliEnv struct {
	cfg        *config.Config
	configPath string
	root       string
}

func setupCLI(t *testing.T, opts ...testsupport.ConfigOption) *cliEnv {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	testsupport.MkdirAll(t, cfg.Sync.Root)
	configPath := filepath.Join(t.TempDir(), "aur.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliEnv{cfg: cfg, configPath: configPath, root: cfg.Sync.Root}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	text, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLI(t, append([]string{"--config", e.configPath}, args...)...)
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func readTags(t *testing.T, path string) metadata.Tags {
	t.Helper()
	m, err := metadata.NewStore().Read(context.Background(), path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return m.Tags
}

func TestAlbumDiscIsIdempotent(t *testing.T) {
	env := setupCLI(t)
	path := filepath.Join(t.TempDir(), "x", "disc_3", "01.artist.song.mp3")
	testsupport.WriteMP3(t, path, map[string]string{"TALB": "Test Album"})

	for n := 0; n < 2; n++ {
		if _, stderr, err := env.run(t, "albumdisc", path); err != nil {
			t.Fatalf("albumdisc: %v (%s)", err, stderr)
		}
		if got := readTags(t, path).Album; got != "Test Album (Disc 3)" {
			t.Fatalf("album = %q", got)
		}
	}
}

func TestAlbumDiscOutsideDiscDir(t *testing.T) {
	env := setupCLI(t)
	path := filepath.Join(t.TempDir(), "album", "01.artist.song.mp3")
	testsupport.WriteMP3(t, path, map[string]string{"TALB": "Test Album"})

	_, stderr, err := env.run(t, "albumdisc", path)
	if !errors.Is(err, aurerr.ErrReported) {
		t.Fatalf("expected reported failure, got %v", err)
	}
	requireContains(t, stderr, "ERROR: 01.artist.song.mp3 is not in a disc directory")
}

func TestCopyTags(t *testing.T) {
	env := setupCLI(t)
	flacPath := filepath.Join(env.root, "flac", "albums", "a", "artist.album", "01.artist.song.flac")
	mp3Path := filepath.Join(env.root, "mp3", "albums", "a", "artist.album", "01.artist.song.mp3")
	testsupport.WriteFLAC(t, flacPath,
		"ARTIST=Artist", "ALBUM=Album", "TITLE=Song", "TRACKNUMBER=1", "DATE=2001", "GENRE=Rock")
	testsupport.WriteMP3(t, mp3Path, map[string]string{"TPE1": "Someone", "TIT2": "Else"})

	older := time.Now().Add(-time.Hour)
	if err := os.Chtimes(mp3Path, older, older); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if _, stderr, err := env.run(t, "copytags", flacPath); err != nil {
		t.Fatalf("copytags: %v (%s)", err, stderr)
	}
	if got := readTags(t, mp3Path).Artist; got != "Someone" {
		t.Fatalf("older mp3 should be left alone without -f, artist = %q", got)
	}

	if _, stderr, err := env.run(t, "copytags", "-f", flacPath); err != nil {
		t.Fatalf("copytags -f: %v (%s)", err, stderr)
	}
	want := metadata.Tags{Artist: "Artist", Album: "Album", Title: "Song", TNum: 1, Year: 2001, Genre: "Rock"}
	if got := readTags(t, mp3Path); got != want {
		t.Fatalf("mp3 tags = %#v, want %#v", got, want)
	}
}

func TestMissingFileIsReported(t *testing.T) {
	env := setupCLI(t)
	good := filepath.Join(t.TempDir(), "01.artist.song.flac")
	testsupport.WriteFLAC(t, good, "ARTIST=Artist")

	stdout, stderr, err := env.run(t, "get", "-s", "artist", filepath.Join(t.TempDir(), "nope.flac"), good)
	if !errors.Is(err, aurerr.ErrReported) {
		t.Fatalf("expected reported failure, got %v", err)
	}
	if aurerr.Render(err) != "" {
		t.Fatal("reported failures must not render a second line")
	}
	requireContains(t, stderr, "ERROR: (I/O) No such file or directory (os error 2)")
	if stdout != "Artist\n" {
		t.Fatalf("the good file should still be processed, stdout = %q", stdout)
	}
}

func TestSetRejectsUnknownTag(t *testing.T) {
	env := setupCLI(t)
	_, _, err := env.run(t, "set", "composer", "x", "a.flac")
	if got := aurerr.Render(err); !strings.HasPrefix(got, "ERROR: (Parsing) unknown tag") {
		t.Fatalf("unexpected error rendering %q", got)
	}
}

func TestSetAndGet(t *testing.T) {
	env := setupCLI(t)
	path := filepath.Join(t.TempDir(), "01.artist.song.flac")
	testsupport.WriteFLAC(t, path, "ARTIST=Artist")

	if _, stderr, err := env.run(t, "set", "genre", "Ambient", path); err != nil {
		t.Fatalf("set: %v (%s)", err, stderr)
	}
	stdout, _, err := env.run(t, "get", "genre", path)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	requireContains(t, stdout, ": Ambient")

	if _, _, err := env.run(t, "get", "colour", path); !errors.Is(err, aurerr.ErrParse) {
		t.Fatalf("unknown property should be a parse error, got %v", err)
	}
}

func TestRenumberOutOfRange(t *testing.T) {
	env := setupCLI(t)
	path := filepath.Join(t.TempDir(), "01.artist.song.flac")
	testsupport.WriteFLAC(t, path, "TRACKNUMBER=2")

	_, stderr, err := env.run(t, "renumber", "down", "5", path)
	if !errors.Is(err, aurerr.ErrReported) {
		t.Fatalf("expected reported failure, got %v", err)
	}
	requireContains(t, stderr, "track number 2 would become -3")

	if _, _, err := env.run(t, "renumber", "sideways", "1", path); !errors.Is(err, aurerr.ErrParse) {
		t.Fatalf("bad direction should be a parse error, got %v", err)
	}
	if _, _, err := env.run(t, "renumber", "up", "3", path); err != nil {
		t.Fatalf("renumber up: %v", err)
	}
	if got := readTags(t, path).TNum; got != 5 {
		t.Fatalf("t_num = %d, want 5", got)
	}
}

func TestThesTrimsArtist(t *testing.T) {
	env := setupCLI(t)
	path := filepath.Join(t.TempDir(), "01.tester.song.mp3")
	testsupport.WriteMP3(t, path, map[string]string{"TPE1": "Tester "})

	if _, stderr, err := env.run(t, "thes", path); err != nil {
		t.Fatalf("thes: %v (%s)", err, stderr)
	}
	if got := readTags(t, path).Artist; got != "The Tester" {
		t.Fatalf("artist = %q", got)
	}
}

func TestTag2NameAndNoop(t *testing.T) {
	env := setupCLI(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "track.flac")
	testsupport.WriteFLAC(t, path, "ARTIST=The B-52's", "TITLE=Rock Lobster", "TRACKNUMBER=7")
	want := filepath.Join(dir, "07.b-52s.rock_lobster.flac")

	stdout, _, err := env.run(t, "-n", "tag2name", path)
	if err != nil {
		t.Fatalf("tag2name -n: %v", err)
	}
	requireContains(t, stdout, want)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("noop must not rename: %v", err)
	}

	if _, stderr, err := env.run(t, "tag2name", path); err != nil {
		t.Fatalf("tag2name: %v (%s)", err, stderr)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected renamed file: %v", err)
	}
}

func TestSortNeedsArtistAndAlbum(t *testing.T) {
	env := setupCLI(t)
	path := filepath.Join(t.TempDir(), "01.artist.song.flac")
	testsupport.WriteFLAC(t, path, "ARTIST=Artist")

	_, stderr, err := env.run(t, "sort", path)
	if !errors.Is(err, aurerr.ErrReported) {
		t.Fatalf("expected reported failure, got %v", err)
	}
	requireContains(t, stderr, "cannot get artist and album")
}

func TestName2Tag(t *testing.T) {
	env := setupCLI(t)
	path := filepath.Join(t.TempDir(), "03.c-r-e-e-p.can_we_make_it--just_a_little_bit--harder.flac")
	testsupport.WriteFLAC(t, path)

	if _, stderr, err := env.run(t, "name2tag", path); err != nil {
		t.Fatalf("name2tag: %v (%s)", err, stderr)
	}
	tags := readTags(t, path)
	if tags.TNum != 3 || tags.Artist != "C.R.E.E.P." || tags.Title != "Can We Make It (Just a Little Bit) Harder" {
		t.Fatalf("unexpected tags %#v", tags)
	}
}

func TestINumberReadsStdin(t *testing.T) {
	env := setupCLI(t)
	path := filepath.Join(t.TempDir(), "song.flac")
	testsupport.WriteFLAC(t, path)

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader("9\n"))
	cmd.SetArgs([]string{"--config", env.configPath, "inumber", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("inumber: %v (%s)", err, stderr.String())
	}
	requireContains(t, stdout.String(), "song.flac > ")
	if got := readTags(t, path).TNum; got != 9 {
		t.Fatalf("t_num = %d, want 9", got)
	}
}

func TestLintReportsViolations(t *testing.T) {
	env := setupCLI(t)
	path := filepath.Join(t.TempDir(), "Bad Name.flac")
	testsupport.WriteFLAC(t, path, "ARTIST=Artist", "TITLE=Song", "TRACKNUMBER=1")

	stdout, _, err := env.run(t, "lint", path)
	if err != nil {
		t.Fatalf("lint findings are not errors: %v", err)
	}
	requireContains(t, stdout, path)
	requireContains(t, stdout, "Invalid file name: Bad Name.flac")
}

func TestStripRemovesExtrasAndArtwork(t *testing.T) {
	env := setupCLI(t)
	path := filepath.Join(t.TempDir(), "01.artist.song.mp3")
	testsupport.WriteMP3(t, path, map[string]string{"TPE1": "Artist", "TCOM": "Writer", "APIC": "jpeg"})

	if _, stderr, err := env.run(t, "strip", path); err != nil {
		t.Fatalf("strip: %v (%s)", err, stderr)
	}
	m, err := metadata.NewStore().Read(context.Background(), path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if m.HasPicture {
		t.Fatal("artwork should be removed")
	}
	if _, ok := m.Raw("tcom"); ok {
		t.Fatal("unexpected tag should be removed")
	}
	if m.Tags.Artist != "Artist" {
		t.Fatalf("expected tags survive, artist = %q", m.Tags.Artist)
	}
}

func TestWantFlacTracks(t *testing.T) {
	env := setupCLI(t)
	testsupport.WriteFLAC(t, filepath.Join(env.root, "flac", "tracks", "01.a.kept.flac"))
	testsupport.WriteMP3(t, filepath.Join(env.root, "mp3", "tracks", "01.a.kept.mp3"), nil)
	orphan := filepath.Join(env.root, "mp3", "tracks", "02.a.lonely.mp3")
	testsupport.WriteMP3(t, orphan, nil)

	stdout, _, err := env.run(t, "wantflac", "-T")
	if err != nil {
		t.Fatalf("wantflac: %v", err)
	}
	if stdout != orphan+"\n" {
		t.Fatalf("stdout = %q, want %q", stdout, orphan)
	}
}

func TestWantFlacAlbums(t *testing.T) {
	env := setupCLI(t)
	testsupport.MkdirAll(t, filepath.Join(env.root, "flac", "albums", "a", "artist.kept"))
	testsupport.MkdirAll(t, filepath.Join(env.root, "mp3", "albums", "a", "artist.kept"))
	missing := testsupport.MkdirAll(t, filepath.Join(env.root, "mp3", "albums", "a", "artist.gone"))

	stdout, _, err := env.run(t, "wantflac")
	if err != nil {
		t.Fatalf("wantflac: %v", err)
	}
	if stdout != missing+"\n" {
		t.Fatalf("stdout = %q, want %q", stdout, missing)
	}
}

func TestSyncFlacNoop(t *testing.T) {
	env := setupCLI(t)
	src := filepath.Join(env.root, "flac", "albums", "a", "artist.album", "02.artist.new.flac")
	testsupport.WriteFLAC(t, src, "ARTIST=Artist")
	testsupport.WriteFLAC(t, filepath.Join(env.root, "flac", "albums", "a", "artist.album", "01.artist.old.flac"))
	testsupport.WriteMP3(t, filepath.Join(env.root, "mp3", "albums", "a", "artist.album", "01.artist.old.mp3"), nil)
	orphan := filepath.Join(env.root, "mp3", "albums", "a", "artist.album", "03.artist.gone.mp3")
	testsupport.WriteMP3(t, orphan, nil)

	stdout, stderr, err := env.run(t, "-n", "syncflac")
	if err != nil {
		t.Fatalf("syncflac: %v (%s)", err, stderr)
	}
	requireContains(t, stdout, src+" -> "+filepath.Join(env.root, "mp3", "albums", "a", "artist.album", "02.artist.new.mp3"))
	requireContains(t, stdout, "remove "+orphan)
	if strings.Contains(stdout, "01.artist.old") {
		t.Fatalf("already mirrored file should not be planned: %q", stdout)
	}
	if _, err := os.Stat(orphan); err != nil {
		t.Fatalf("noop must not delete: %v", err)
	}
}

func TestSyncFlacRequiresRoot(t *testing.T) {
	env := setupCLI(t)
	_, _, err := env.run(t, "syncflac", "-R", filepath.Join(t.TempDir(), "absent"))
	if !errors.Is(err, aurerr.ErrIO) {
		t.Fatalf("expected I/O error for absent root, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	env := setupCLI(t)
	stdout, _, err := env.run(t, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, stdout, "Config path: "+env.configPath)
	requireContains(t, stdout, "Configuration valid")

	_, _, err = runCLI(t, "--config", filepath.Join(t.TempDir(), "absent.toml"), "config", "validate")
	if !errors.Is(err, aurerr.ErrIO) {
		t.Fatalf("explicit missing config should be an I/O error, got %v", err)
	}
}

func TestDepsListsPrograms(t *testing.T) {
	bin := t.TempDir()
	for _, name := range []string{"flac", "lame", "ffmpeg"} {
		testsupport.StubBinary(t, bin, name, "exit 0\n")
	}
	t.Setenv("AUR_BIN_PATH", bin)
	t.Setenv("HOME", t.TempDir())

	stdout, _, err := runCLI(t, "deps")
	if err != nil {
		t.Fatalf("deps: %v", err)
	}
	requireContains(t, stdout, filepath.Join(bin, "lame"))
	requireContains(t, stdout, "FFmpeg")
}

func TestExpandFiles(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFLAC(t, filepath.Join(dir, "01.a.b.flac"))
	testsupport.WriteFLAC(t, filepath.Join(dir, "sub", "02.a.b.flac"))
	testsupport.WriteFile(t, filepath.Join(dir, "front.jpg"), 4)

	if got := expandFiles([]string{dir}, false); len(got) != 1 {
		t.Fatalf("flat expansion = %v", got)
	}
	if got := expandFiles([]string{dir}, true); len(got) != 2 {
		t.Fatalf("recursive expansion = %v", got)
	}
	missing := filepath.Join(dir, "missing.flac")
	if got := expandFiles([]string{missing}, false); len(got) != 1 || got[0] != missing {
		t.Fatalf("missing paths should pass through, got %v", got)
	}
}
