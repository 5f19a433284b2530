package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	ctx := newCommandContext(flags)

	rootCmd := &cobra.Command{
		Use:           "aur",
		Short:         "Manage a FLAC and MP3 music library",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "", "Configuration file path (default ~/.aur.toml)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Log debug detail")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "Log warnings and errors only")
	pf.BoolVarP(&flags.noop, "noop", "n", false, "Print what would change without changing it")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.AddGroup(
		&cobra.Group{ID: "tags", Title: "Tag commands:"},
		&cobra.Group{ID: "names", Title: "Naming commands:"},
		&cobra.Group{ID: "info", Title: "Inspection commands:"},
		&cobra.Group{ID: "audio", Title: "Transcoding commands:"},
	)

	grouped := map[string][]*cobra.Command{
		"tags":  newTagCommands(ctx),
		"names": newNameCommands(ctx),
		"info":  newInfoCommands(ctx),
		"audio": newAudioCommands(ctx),
	}
	for group, cmds := range grouped {
		for _, cmd := range cmds {
			cmd.GroupID = group
			rootCmd.AddCommand(cmd)
		}
	}
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newDepsCommand(ctx))

	return rootCmd
}
