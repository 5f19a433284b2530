package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"aur/internal/aurerr"
	"aur/internal/logging"
	"aur/internal/metadata"
	"aur/internal/syncplan"
	"aur/internal/tagops"
	"aur/internal/textutil"
)

func newTagCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newAlbumDiscCommand(ctx),
		newSetCommand(ctx),
		newRenumberCommand(ctx),
		newThesCommand(ctx),
		newTagSubCommand(ctx),
		newRetitleCommand(ctx),
		newStripCommand(ctx),
		newName2NumCommand(ctx),
		newName2TagCommand(ctx),
		newINumberCommand(ctx),
		newITagCommand(ctx),
		newCopyTagsCommand(ctx),
	}
}

func newAlbumDiscCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "albumdisc <file>...",
		Short: "Add (Disc N) to the album tag of files in disc_N directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.eachFile(cmd, args, false, func(m *metadata.Metadata) error {
				album, changed, err := tagops.AlbumDisc(m)
				if err != nil || !changed {
					return err
				}
				return ctx.setTag(cmd, m, "album", album)
			})
		},
	}
}

func newSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <tag> <value> <file>...",
		Short: "Set a tag to a value",
		Long:  "Set one of " + strings.Join(metadata.TagKeys(), ", ") + " on every file.",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := strings.ToLower(args[0]), args[1]
			if !knownTag(key) {
				return aurerr.New(aurerr.ErrParse, "unknown tag %q; expected one of %s", args[0], strings.Join(metadata.TagKeys(), ", "))
			}
			return ctx.eachFile(cmd, args[2:], false, func(m *metadata.Metadata) error {
				return ctx.setTag(cmd, m, key, value)
			})
		},
	}
}

func knownTag(key string) bool {
	if key == "year" {
		return true
	}
	for _, k := range metadata.TagKeys() {
		if k == key {
			return true
		}
	}
	return false
}

func newRenumberCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "renumber <up|down> <delta> <file>...",
		Short: "Shift track numbers up or down",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := tagops.ParseDirection(args[0])
			if err != nil {
				return err
			}
			delta, err := tagops.ParseDelta(args[1])
			if err != nil {
				return err
			}
			return ctx.eachFile(cmd, args[2:], false, func(m *metadata.Metadata) error {
				next, err := tagops.Renumber(m.Tags.TNum, dir, delta)
				if err != nil {
					return err
				}
				return ctx.setTag(cmd, m, "t_num", strconv.FormatUint(uint64(next), 10))
			})
		},
	}
}

func newThesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "thes <file>...",
		Short: "Prefix the artist tag with 'The'",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.eachFile(cmd, args, false, func(m *metadata.Metadata) error {
				artist, changed := tagops.Thes(m.Tags.Artist)
				if !changed {
					return nil
				}
				return ctx.setTag(cmd, m, "artist", artist)
			})
		},
	}
}

func newTagSubCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tagsub <tag> <pattern> <replacement> <file>...",
		Short: "Replace a regular expression in a tag",
		Args:  cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.ToLower(args[0])
			if !knownTag(key) {
				return aurerr.New(aurerr.ErrParse, "unknown tag %q", args[0])
			}
			re, err := tagops.CompilePattern(args[1])
			if err != nil {
				return err
			}
			return ctx.eachFile(cmd, args[3:], false, func(m *metadata.Metadata) error {
				value, changed := tagops.TagSub(tagValue(m, key), re, args[2])
				if !changed {
					return nil
				}
				return ctx.setTag(cmd, m, key, value)
			})
		},
	}
}

// tagValue returns the named canonical tag as a string.
func tagValue(m *metadata.Metadata, key string) string {
	switch key {
	case "artist":
		return m.Tags.Artist
	case "album":
		return m.Tags.Album
	case "title":
		return m.Tags.Title
	case "genre":
		return m.Tags.Genre
	case "t_num":
		return strconv.FormatUint(uint64(m.Tags.TNum), 10)
	case "date", "year":
		return strconv.FormatInt(int64(m.Tags.Year), 10)
	}
	return ""
}

func newRetitleCommand(ctx *commandContext) *cobra.Command {
	var album bool
	cmd := &cobra.Command{
		Use:   "retitle <file>...",
		Short: "Normalize the capitalization of title tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.eachFile(cmd, args, false, func(m *metadata.Metadata) error {
				keys := []string{"title"}
				if album {
					keys = append(keys, "album")
				}
				for _, key := range keys {
					value, changed := tagops.Retitle(ctx.retitler, tagValue(m, key))
					if !changed {
						continue
					}
					if err := ctx.setTag(cmd, m, key, value); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&album, "album", "a", false, "Retitle the album tag as well")
	return cmd
}

func newStripCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "strip <file>...",
		Short: "Remove unexpected tags and embedded artwork",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.eachFile(cmd, args, false, func(m *metadata.Metadata) error {
				var extra []string
				for _, raw := range m.RawTags {
					if !metadata.PermittedTag(m.FileType, raw.Key) {
						extra = append(extra, raw.Key)
					}
				}
				if ctx.flags.noop {
					if len(extra) > 0 {
						fmt.Fprintf(cmd.OutOrStdout(), "%s: remove %s\n", m.Path, strings.Join(extra, ", "))
					}
					if m.HasPicture {
						fmt.Fprintf(cmd.OutOrStdout(), "%s: remove artwork\n", m.Path)
					}
					return nil
				}
				removed, err := ctx.store.RemoveTags(m.Path, m.FileType, extra)
				if err != nil {
					return err
				}
				art, err := ctx.store.RemoveArtwork(m.Path, m.FileType)
				if err != nil {
					return err
				}
				if removed || art {
					ctx.componentLogger(cmd).Info("stripped",
						logging.Path(m.Path),
						logging.Any("tags", extra),
						logging.Bool("artwork", art),
					)
				}
				return nil
			})
		},
	}
}

func newName2NumCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "name2num <file>...",
		Short: "Set the track number from the filename",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.eachFile(cmd, args, false, func(m *metadata.Metadata) error {
				num, err := tagops.Name2Num(m.Filename)
				if err != nil {
					return err
				}
				if num == m.Tags.TNum {
					return nil
				}
				return ctx.setTag(cmd, m, "t_num", strconv.FormatUint(uint64(num), 10))
			})
		},
	}
}

func newName2TagCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "name2tag <file>...",
		Short: "Set track number, artist and title from the filename",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.eachFile(cmd, args, false, func(m *metadata.Metadata) error {
				tags, err := tagops.Name2Tag(ctx.maker, m.Filename)
				if err != nil {
					return err
				}
				updates := []struct{ key, current, want string }{
					{"t_num", tagValue(m, "t_num"), strconv.FormatUint(uint64(tags.TNum), 10)},
					{"artist", m.Tags.Artist, tags.Artist},
					{"title", m.Tags.Title, tags.Title},
				}
				for _, u := range updates {
					if u.current == u.want {
						continue
					}
					if err := ctx.setTag(cmd, m, u.key, u.want); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newINumberCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inumber <file>...",
		Short: "Prompt for each file's track number",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.eachFile(cmd, args, false, func(m *metadata.Metadata) error {
				answer, err := ctx.prompt(cmd, m.Filename+" > ")
				if err != nil {
					return err
				}
				num, err := strconv.ParseUint(answer, 10, 32)
				if err != nil || num < 1 || num > 99 {
					return aurerr.New(aurerr.ErrParse, "invalid track number %q", answer)
				}
				return ctx.setTag(cmd, m, "t_num", strconv.FormatUint(num, 10))
			})
		},
	}
}

func newITagCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "itag <tag> <file>...",
		Short: "Prompt for each file's value of a tag",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.ToLower(args[0])
			if !knownTag(key) {
				return aurerr.New(aurerr.ErrParse, "unknown tag %q", args[0])
			}
			return ctx.eachFile(cmd, args[1:], false, func(m *metadata.Metadata) error {
				answer, err := ctx.prompt(cmd, fmt.Sprintf("%s [%s] > ", m.Filename, tagValue(m, key)))
				if err != nil {
					return err
				}
				if answer == "" {
					return nil
				}
				return ctx.setTag(cmd, m, key, answer)
			})
		},
	}
}

func newCopyTagsCommand(ctx *commandContext) *cobra.Command {
	var recursive, force bool
	cmd := &cobra.Command{
		Use:   "copytags <file>...",
		Short: "Copy tags from FLAC files to their MP3 mirrors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.eachFile(cmd, args, recursive, func(flac *metadata.Metadata) error {
				if flac.FileType != metadata.FLAC {
					return nil
				}
				target := mirrorPath(flac.Path, syncplan.Options{})
				mp3, err := ctx.store.Read(cmd.Context(), target)
				if err != nil {
					ctx.componentLogger(cmd).Debug("no mp3 mirror", logging.Path(target), logging.Error(err))
					return nil
				}
				flacInfo, err := os.Stat(flac.Path)
				if err != nil {
					return aurerr.Wrap(aurerr.ErrIO, "", "", err)
				}
				mp3Info, err := os.Stat(mp3.Path)
				if err != nil {
					return aurerr.Wrap(aurerr.ErrIO, "", "", err)
				}
				if !tagops.CopyTags(flac.Tags, mp3.Tags, flacInfo.ModTime(), mp3Info.ModTime(), force) {
					return nil
				}
				if ctx.flags.noop {
					fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", flac.Path, mp3.Path)
					return nil
				}
				if _, err := ctx.store.BatchTag(mp3.Path, mp3.FileType, flac.Tags); err != nil {
					return err
				}
				ctx.componentLogger(cmd).Info("tags copied", logging.Path(mp3.Path))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into directories")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite even when the MP3 is older")
	return cmd
}

// mirrorPath is the MP3 file matching a FLAC in the mp3 hierarchy.
func mirrorPath(flacPath string, opts syncplan.Options) string {
	dir := syncplan.Mp3DirFrom(filepath.Dir(flacPath), opts)
	name := textutil.ReplaceLast(filepath.Base(flacPath), ".flac", ".mp3")
	return filepath.Join(dir, name)
}
