package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"aur/internal/artwork"
	"aur/internal/aurerr"
	"aur/internal/fanout"
	"aur/internal/fileutil"
	"aur/internal/lint"
	"aur/internal/logging"
	"aur/internal/metadata"
	"aur/internal/rename"
	"aur/internal/textutil"
)

func newAudioCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newArtFixCommand(ctx),
		newCDQCommand(ctx),
		newFlac2Mp3Command(ctx),
		newMp3DirCommand(ctx),
		newReencodeCommand(ctx),
		newTranscodeCommand(ctx),
		newSplitCommand(ctx),
		newVerifyCommand(ctx),
		newSyncFlacCommand(ctx),
	}
}

// looseCovers are renamed to front.jpg when they are the only candidate.
var looseCovers = []string{"cover.jpg", "folder.jpg"}

func newArtFixCommand(ctx *commandContext) *cobra.Command {
	var linkDir string
	var recursive bool
	cmd := &cobra.Command{
		Use:   "artfix <dir>...",
		Short: "Normalize cover art and collect albums that need new art",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(linkDir) == "" {
				return aurerr.New(aurerr.ErrParse, "--linkdir is required")
			}
			links, err := filepath.Abs(linkDir)
			if err != nil {
				return aurerr.Wrap(aurerr.ErrIO, "", "", err)
			}
			return ctx.eachDir(cmd, args, recursive, func(dir string) error {
				return ctx.artfix(cmd, dir, links)
			})
		},
	}
	cmd.Flags().StringVarP(&linkDir, "linkdir", "d", "", "Directory to collect links to albums with bad art")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into directories")
	return cmd
}

func (c *commandContext) artfix(cmd *cobra.Command, dir, links string) error {
	files, err := dirListing(dir)
	if err != nil {
		return err
	}
	var media, images []string
	for _, path := range files {
		switch {
		case isMedia(path):
			media = append(media, path)
		case artwork.ImageFile(path):
			images = append(images, path)
		}
	}
	if len(media) == 0 {
		return nil
	}
	hierarchy, err := lint.HierarchyOf(dir)
	if err != nil {
		return err
	}

	switch hierarchy {
	case lint.HierarchyMP3:
		for _, path := range images {
			if err := c.remove(cmd, path); err != nil {
				return err
			}
		}
		return nil
	case lint.HierarchyFLAC:
		cover := filepath.Join(dir, artwork.CoverName)
		if !exists(cover) {
			var found []string
			for _, name := range looseCovers {
				if candidate := filepath.Join(dir, name); exists(candidate) {
					found = append(found, candidate)
				}
			}
			if len(found) == 1 {
				if err := c.move(cmd, rename.Move{Src: found[0], Dst: cover}); err != nil {
					return err
				}
				if c.flags.noop {
					return nil
				}
			}
		}
		if len(lint.CoverArt(cover, artwork.FileDecoder{})) == 0 {
			return nil
		}
		return c.link(cmd, dir, links)
	}
	return nil
}

// link symlinks dir into links unless --noop is set or the link exists.
func (c *commandContext) link(cmd *cobra.Command, dir, links string) error {
	target := filepath.Join(links, filepath.Base(dir))
	if c.flags.noop {
		fmt.Fprintf(cmd.OutOrStdout(), "link %s -> %s\n", target, dir)
		return nil
	}
	if _, err := os.Lstat(target); err == nil {
		return nil
	}
	if err := os.MkdirAll(links, 0o755); err != nil {
		return aurerr.Wrap(aurerr.ErrIO, "", "", err)
	}
	if err := os.Symlink(dir, target); err != nil {
		return aurerr.Wrap(aurerr.ErrIO, "", "", err)
	}
	c.componentLogger(cmd).Info("linked album with bad cover art", logging.Path(dir), logging.String("link", target))
	return nil
}

func newCDQCommand(ctx *commandContext) *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "cdq <file>...",
		Short: "Convert FLAC files to 16-bit 44.1kHz",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.eachFile(cmd, args, false, func(m *metadata.Metadata) error {
				quality, ok := m.Quality.(metadata.FlacQuality)
				if m.FileType != metadata.FLAC || !ok {
					return aurerr.New(aurerr.ErrPolicy, "%s is not a FLAC file", m.Filename)
				}
				if quality.IsCDQuality() {
					return nil
				}
				if list {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", m.Path, quality.Formatted())
					return nil
				}
				return ctx.replaceInPlace(cmd, m, func(tmp string) error {
					return ctx.runner.Transcode(cmd.Context(), m.Path, tmp, true)
				}, false)
			})
		},
	}
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List files that are not CD quality")
	return cmd
}

// replaceInPlace writes a new version of m through a temporary file beside
// it, restores the tags, then swaps it in. With keep, the original survives as
// <name>.orig.
func (c *commandContext) replaceInPlace(cmd *cobra.Command, m *metadata.Metadata, produce func(tmp string) error, keep bool) error {
	if c.flags.noop {
		fmt.Fprintf(cmd.OutOrStdout(), "rewrite %s\n", m.Path)
		return nil
	}
	tmp := filepath.Join(filepath.Dir(m.Path), "."+uuid.NewString()+filepath.Ext(m.Path))
	defer os.Remove(tmp)

	if err := produce(tmp); err != nil {
		return err
	}
	if _, err := c.store.BatchTag(tmp, m.FileType, m.Tags); err != nil {
		return err
	}
	if keep {
		if err := fileutil.MoveFile(m.Path, m.Path+".orig"); err != nil {
			return err
		}
	}
	if err := os.Rename(tmp, m.Path); err != nil {
		return aurerr.Wrap(aurerr.ErrIO, "", "", err)
	}
	c.componentLogger(cmd).Info("rewrote", logging.Path(m.Path))
	return nil
}

func newFlac2Mp3Command(ctx *commandContext) *cobra.Command {
	var force bool
	var preset string
	cmd := &cobra.Command{
		Use:   "flac2mp3 <file>...",
		Short: "Transcode FLAC files to MP3 beside the source",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if preset == "" {
				preset = ctx.configValue().Sync.Preset
			}
			return ctx.eachFile(cmd, args, false, func(m *metadata.Metadata) error {
				if m.FileType != metadata.FLAC {
					return aurerr.New(aurerr.ErrPolicy, "%s is not a FLAC file", m.Filename)
				}
				dst := textutil.ReplaceLast(m.Path, ".flac", ".mp3")
				if exists(dst) && !force {
					ctx.componentLogger(cmd).Info("target exists", logging.Path(dst))
					return nil
				}
				return ctx.flacToMp3(cmd.Context(), cmd, m, dst, preset)
			})
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing MP3s")
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "lame preset (default from config)")
	return cmd
}

// flacToMp3 encodes src to dst and copies its tags across.
func (c *commandContext) flacToMp3(ctx context.Context, cmd *cobra.Command, src *metadata.Metadata, dst, preset string) error {
	if c.flags.noop {
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", src.Path, dst)
		return nil
	}
	if err := c.runner.FlacToMp3(ctx, src.Path, dst, preset); err != nil {
		return err
	}
	if _, err := c.store.BatchTag(dst, metadata.MP3, src.Tags); err != nil {
		return err
	}
	c.componentLogger(cmd).Info("transcoded", logging.Path(src.Path), logging.String("target", dst))
	return nil
}

func newReencodeCommand(ctx *commandContext) *cobra.Command {
	var keep bool
	cmd := &cobra.Command{
		Use:   "reencode <file>...",
		Short: "Re-encode MP3 files in parallel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx.setup(cmd)
			rep := &reporter{cmd: cmd}
			var files []*metadata.Metadata
			for _, path := range expandFiles(args, false) {
				m, err := ctx.store.Read(cmd.Context(), path)
				switch {
				case err != nil:
					rep.report(err)
				case m.FileType != metadata.MP3:
					rep.report(aurerr.New(aurerr.ErrPolicy, "%s is not an MP3 file", m.Filename))
				default:
					files = append(files, m)
				}
			}
			errs := fanout.Map(cmd.Context(), files, fanout.Options{
				Jobs:        ctx.configValue().Workers(),
				Progress:    progressWriter(cmd),
				Description: "reencode",
			}, func(runCtx context.Context, m *metadata.Metadata) error {
				return ctx.replaceInPlace(cmd, m, func(tmp string) error {
					return ctx.runner.Transcode(runCtx, m.Path, tmp, false)
				}, keep)
			})
			for _, err := range errs {
				rep.report(err)
			}
			return rep.result()
		},
	}
	cmd.Flags().BoolVarP(&keep, "keep", "k", false, "Keep originals as <name>.orig")
	return cmd
}

// progressWriter returns stderr when it is a terminal.
func progressWriter(cmd *cobra.Command) io.Writer {
	if f, ok := cmd.ErrOrStderr().(*os.File); ok {
		return fanout.TerminalProgress(f)
	}
	return nil
}

var formatPattern = regexp.MustCompile(`^[a-z0-9]+$`)

func newTranscodeCommand(ctx *commandContext) *cobra.Command {
	var force, removeOriginals bool
	cmd := &cobra.Command{
		Use:   "transcode <format> <file>...",
		Short: "Convert files to another container with ffmpeg",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := strings.ToLower(strings.TrimPrefix(args[0], "."))
			if !formatPattern.MatchString(format) {
				return aurerr.New(aurerr.ErrParse, "invalid format %q", args[0])
			}
			return ctx.eachFile(cmd, args[1:], false, func(m *metadata.Metadata) error {
				if string(m.FileType) == format {
					return nil
				}
				dst := textutil.ReplaceLast(m.Path, filepath.Ext(m.Path), "."+format)
				if exists(dst) && !force {
					return aurerr.New(aurerr.ErrIO, "%s exists", dst)
				}
				if ctx.flags.noop {
					fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", m.Path, dst)
					return nil
				}
				if force {
					_ = os.Remove(dst)
				}
				if err := ctx.runner.Transcode(cmd.Context(), m.Path, dst, false); err != nil {
					return err
				}
				ctx.componentLogger(cmd).Info("transcoded", logging.Path(m.Path), logging.String("target", dst))
				if removeOriginals {
					return ctx.remove(cmd, m.Path)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing targets")
	cmd.Flags().BoolVar(&removeOriginals, "remove-originals", false, "Delete sources after a successful transcode")
	return cmd
}

func newSplitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "split <file>...",
		Short: "Split a FLAC into tracks using its .cue sheet",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.eachFile(cmd, args, false, func(m *metadata.Metadata) error {
				if m.FileType != metadata.FLAC {
					return aurerr.New(aurerr.ErrPolicy, "%s is not a FLAC file", m.Filename)
				}
				cue := textutil.ReplaceLast(m.Path, ".flac", ".cue")
				if _, err := os.Stat(cue); err != nil {
					return aurerr.Wrap(aurerr.ErrIO, "", "", err)
				}
				if ctx.flags.noop {
					fmt.Fprintf(cmd.OutOrStdout(), "split %s with %s\n", m.Path, cue)
					return nil
				}
				return ctx.runner.Split(cmd.Context(), cue, m.Path)
			})
		},
	}
}

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var recursive bool
	cmd := &cobra.Command{
		Use:   "verify <file>...",
		Short: "Check that files decode cleanly",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.eachFile(cmd, args, recursive, func(m *metadata.Metadata) error {
				if err := ctx.runner.Verify(cmd.Context(), m.Path, m.FileType); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", m.Path)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into directories")
	return cmd
}
