package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"aur/internal/aurerr"
	"aur/internal/logging"
	"aur/internal/metadata"
	"aur/internal/rename"
)

func newNameCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newRenameCommand(ctx, "tag2name", "Rename files from their tags", func(m *metadata.Metadata) (rename.Move, bool, error) {
			mv, ok := rename.Tag2Name(m)
			return mv, ok, nil
		}),
		newRenameCommand(ctx, "num2name", "Prefix filenames with their track number", func(m *metadata.Metadata) (rename.Move, bool, error) {
			mv, ok := rename.Num2Name(m)
			return mv, ok, nil
		}),
		newRenameCommand(ctx, "sort", "Move files into artist.album directories", rename.Sort),
	}
}

type renamePlanner func(*metadata.Metadata) (rename.Move, bool, error)

func newRenameCommand(ctx *commandContext, use, short string, plan renamePlanner) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <file>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.eachFile(cmd, args, false, func(m *metadata.Metadata) error {
				mv, ok, err := plan(m)
				if errors.Is(err, rename.ErrIncomplete) {
					return aurerr.Wrap(aurerr.ErrPolicy, "", "", err)
				}
				if err != nil || !ok {
					return err
				}
				return ctx.move(cmd, mv)
			})
		},
	}
}

// move performs a rename unless --noop is set.
func (c *commandContext) move(cmd *cobra.Command, mv rename.Move) error {
	if c.flags.noop {
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", mv.Src, mv.Dst)
		return nil
	}
	if err := rename.Apply(mv); err != nil {
		return err
	}
	c.componentLogger(cmd).Info("renamed", logging.Path(mv.Src), logging.String("target", mv.Dst))
	return nil
}
