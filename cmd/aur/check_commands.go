package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"aur/internal/artwork"
	"aur/internal/aurerr"
	"aur/internal/lint"
	"aur/internal/metadata"
	"aur/internal/syncplan"
	"aur/internal/textutil"
)

func printViolations[T fmt.Stringer](w io.Writer, heading string, violations []T) {
	if len(violations) == 0 {
		return
	}
	p := newPainter(w)
	p.heading.Fprintln(w, heading)
	for _, v := range violations {
		p.problem.Fprintln(w, "  "+v.String())
	}
}

func newLintCommand(ctx *commandContext) *cobra.Command {
	var recursive bool
	cmd := &cobra.Command{
		Use:   "lint <file>...",
		Short: "Report files that break naming or tagging rules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			return ctx.eachFile(cmd, args, recursive, func(m *metadata.Metadata) error {
				violations := lint.FilterFile(m.Path, lint.CheckFile(m, ctx.validator), cfg.Ignore.Lint)
				printViolations(cmd.OutOrStdout(), m.Path, violations)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into directories")
	return cmd
}

func newLintDirCommand(ctx *commandContext) *cobra.Command {
	var recursive bool
	cmd := &cobra.Command{
		Use:   "lintdir <dir>...",
		Short: "Report album directories that break layout rules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			return ctx.eachDir(cmd, args, recursive, func(dir string) error {
				in, err := ctx.dirInput(cmd, dir)
				if err != nil {
					return err
				}
				violations, err := lint.CheckDir(in, artwork.FileDecoder{})
				if err != nil {
					return err
				}
				printViolations(cmd.OutOrStdout(), dir, lint.FilterDir(dir, violations, cfg.Ignore.Lintdir))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into directories")
	return cmd
}

// dirInput lists dir and reads the metadata of its media files.
func (c *commandContext) dirInput(cmd *cobra.Command, dir string) (lint.DirInput, error) {
	files, err := dirListing(dir)
	if err != nil {
		return lint.DirInput{}, err
	}
	in := lint.DirInput{Dir: dir, Files: files}
	for _, path := range files {
		if !isMedia(path) {
			continue
		}
		m, err := c.store.Read(cmd.Context(), path)
		if err != nil {
			return lint.DirInput{}, err
		}
		in.Metadata = append(in.Metadata, m)
	}
	return in, nil
}

func newNameCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "namecheck <root>",
		Short: "Find artist names spelt more than one way",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groups := compactedGroups{}
			err := ctx.eachFile(cmd, args, true, func(m *metadata.Metadata) error {
				if m.Tags.Artist != metadata.Unknown {
					groups.add(textutil.Compacted(m.Tags.Artist), m.Tags.Artist)
				}
				return nil
			})
			l := newListing("Artist", "Files").align(alignLeft, alignRight)
			for _, key := range groups.conflicts() {
				for _, spelling := range groups.spellings(key) {
					l.add(spelling, fmt.Sprint(groups[key][spelling]))
				}
			}
			if !l.empty() {
				fmt.Fprintln(cmd.OutOrStdout(), l.render())
			}
			return err
		},
	}
}

func newDupesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dupes <root>",
		Short: "Find duplicate audio and duplicate track names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx.setup(cmd)
			rep := &reporter{cmd: cmd}
			byAudio := map[string][]string{}
			byName := map[string][]string{}
			for _, path := range expandFiles(args, true) {
				sum, err := metadata.AudioChecksum(path)
				if err != nil {
					rep.report(err)
					continue
				}
				byAudio[sum] = append(byAudio[sum], path)
				if key, ok := nameKey(filepath.Base(path)); ok {
					byName[key] = append(byName[key], path)
				}
			}

			out := cmd.OutOrStdout()
			if l := duplicateListing("Identical audio", byAudio); !l.empty() {
				fmt.Fprintln(out, l.render())
			}
			if l := duplicateListing("Same artist and title", byName); !l.empty() {
				fmt.Fprintln(out, l.render())
			}
			return rep.result()
		},
	}
}

// nameKey is the compacted artist and title of a conventional filename. The
// extension is kept so a FLAC and its MP3 transcode are not reported.
func nameKey(filename string) (string, bool) {
	chunks := strings.Split(filename, ".")
	if len(chunks) != 4 {
		return "", false
	}
	return textutil.Compacted(chunks[1]) + "." + textutil.Compacted(chunks[2]) + "." + chunks[3], true
}

func duplicateListing(heading string, groups map[string][]string) *listing {
	l := newListing(heading, "File")
	var keys []string
	for key, paths := range groups {
		if len(paths) > 1 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for i, key := range keys {
		for _, path := range groups[key] {
			l.add(fmt.Sprint(i+1), path)
		}
	}
	return l
}

func newWantFlacCommand(ctx *commandContext) *cobra.Command {
	var rootFlag string
	var tracks bool
	cmd := &cobra.Command{
		Use:   "wantflac",
		Short: "List MP3s with no FLAC source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := mediaRoot(ctx, rootFlag)
			if err != nil {
				return err
			}
			ignore := ctx.configValue().Ignore.Wantflac
			var missing []string
			if tracks {
				missing, err = wantedTracks(root, ignore.Tracks)
			} else {
				missing, err = wantedAlbums(root, ignore.Albums, ignore.TopLevel)
			}
			if err != nil {
				return err
			}
			for _, path := range missing {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&rootFlag, "root", "R", "", "Media root (default from config)")
	cmd.Flags().BoolVarP(&tracks, "tracks", "T", false, "Check loose tracks instead of albums")
	return cmd
}

// mediaRoot resolves the -R flag, falling back to the configured root.
func mediaRoot(ctx *commandContext, flag string) (string, error) {
	root := strings.TrimSpace(flag)
	if root == "" {
		root = ctx.configValue().Sync.Root
	}
	if root == "" {
		return "", aurerr.New(aurerr.ErrPolicy, "no media root; use --root or set sync.root")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", aurerr.Wrap(aurerr.ErrIO, "", "", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", aurerr.Wrap(aurerr.ErrIO, "", "", err)
	}
	if !info.IsDir() {
		return "", aurerr.New(aurerr.ErrIO, "%s is not a directory", abs)
	}
	return abs, nil
}

func wantedTracks(root string, ignore []string) ([]string, error) {
	flac, err := syncplan.ReadListing(filepath.Join(root, "flac", "tracks"))
	if err != nil {
		return nil, err
	}
	mp3, err := syncplan.ReadListing(filepath.Join(root, "mp3", "tracks"))
	if err != nil {
		return nil, err
	}
	var out []string
	for _, path := range syncplan.MakeCleanUpList(flac, mp3) {
		if !contains(ignore, filepath.Base(path)) {
			out = append(out, path)
		}
	}
	return out, nil
}

// wantedAlbums lists top-level MP3 directories and artist.album directories
// that have no FLAC counterpart.
func wantedAlbums(root string, ignoreAlbums, ignoreTop []string) ([]string, error) {
	mp3Root := filepath.Join(root, "mp3")
	flacRoot := filepath.Join(root, "flac")
	var out []string

	top, err := subdirs(mp3Root)
	if err != nil {
		return nil, err
	}
	for _, name := range top {
		if contains(ignoreTop, name) || exists(filepath.Join(flacRoot, name)) {
			continue
		}
		out = append(out, filepath.Join(mp3Root, name))
	}

	buckets, err := subdirs(filepath.Join(mp3Root, "albums"))
	if err != nil {
		return nil, err
	}
	for _, bucket := range buckets {
		albums, err := subdirs(filepath.Join(mp3Root, "albums", bucket))
		if err != nil {
			return nil, err
		}
		for _, album := range albums {
			if contains(ignoreAlbums, album) || exists(filepath.Join(flacRoot, "albums", bucket, album)) {
				continue
			}
			out = append(out, filepath.Join(mp3Root, "albums", bucket, album))
		}
	}
	return out, nil
}

func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, aurerr.Wrap(aurerr.ErrIO, "", "", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
