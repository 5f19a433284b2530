package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aur/internal/aurerr"
	"aur/internal/deps"
	"aur/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "deps",
		Short:       "Show which external programs were found",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses := deps.NewFinder().CheckBinaries(deps.Requirements())
			l := newListing("Program", "Command", "Location", "Purpose")
			missing := 0
			for _, s := range statuses {
				location := s.Path
				if !s.Available {
					location = "missing"
					if s.Optional {
						location = "missing (optional)"
					} else {
						missing++
					}
				}
				l.add(s.Name, s.Command, location, s.Description)
			}
			fmt.Fprintln(cmd.OutOrStdout(), l.render())

			if root := ctx.configValue().Sync.Root; root != "" {
				checks := newListing("Check", "Result", "Detail")
				for _, r := range preflight.ForSync(root, deps.NewFinder()) {
					result := "ok"
					if !r.Passed {
						result = "failed"
					}
					checks.add(r.Name, result, r.Detail)
				}
				fmt.Fprintln(cmd.OutOrStdout(), checks.render())
			}
			if missing > 0 {
				return aurerr.New(aurerr.ErrExternal, "%d required programs missing", missing)
			}
			return nil
		},
	}
}
