package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"aur/internal/aurerr"
	"aur/internal/metadata"
)

func newInfoCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newInfoCommand(ctx),
		newTagsCommand(ctx),
		newGetCommand(ctx),
		newLsCommand(ctx),
		newLintCommand(ctx),
		newLintDirCommand(ctx),
		newNameCheckCommand(ctx),
		newDupesCommand(ctx),
		newWantFlacCommand(ctx),
	}
}

// properties are the names `get` understands, in `info` order.
var properties = []string{
	"filename", "type", "artist", "album", "title", "genre",
	"t_num", "year", "time", "bitrate", "picture",
}

func property(m *metadata.Metadata, name string) (string, error) {
	switch name {
	case "filename":
		return m.Filename, nil
	case "type":
		return string(m.FileType), nil
	case "artist", "album", "title", "genre", "t_num":
		return tagValue(m, name), nil
	case "year", "date":
		return tagValue(m, "year"), nil
	case "time":
		return m.Time.Formatted(), nil
	case "bitrate", "quality":
		if m.Quality == nil {
			return "", nil
		}
		return m.Quality.Formatted(), nil
	case "picture":
		return strconv.FormatBool(m.HasPicture), nil
	}
	return "", aurerr.New(aurerr.ErrParse, "unknown property %q; expected one of %s", name, strings.Join(properties, ", "))
}

func newInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>...",
		Short: "Show everything known about a file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.eachFile(cmd, args, false, func(m *metadata.Metadata) error {
				l := newListing("Property", "Value")
				for _, name := range properties {
					value, _ := property(m, name)
					l.add(name, value)
				}
				fmt.Fprintln(cmd.OutOrStdout(), m.Path)
				fmt.Fprintln(cmd.OutOrStdout(), l.render())
				return nil
			})
		},
	}
}

func newTagsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tags <file>...",
		Short: "List every raw tag in a file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.eachFile(cmd, args, false, func(m *metadata.Metadata) error {
				l := newListing("Tag", "Value")
				for _, raw := range m.RawTags {
					l.add(raw.Key, raw.Value)
				}
				fmt.Fprintln(cmd.OutOrStdout(), m.Path)
				if l.empty() {
					fmt.Fprintln(cmd.OutOrStdout(), "No tags")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), l.render())
				return nil
			})
		},
	}
}

func newGetCommand(ctx *commandContext) *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "get <property> <file>...",
		Short: "Print one property of each file",
		Long:  "Print one of " + strings.Join(properties, ", ") + " for each file.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.ToLower(args[0])
			if _, err := property(&metadata.Metadata{}, name); err != nil {
				return err
			}
			return ctx.eachFile(cmd, args[1:], false, func(m *metadata.Metadata) error {
				value, err := property(m, name)
				if err != nil {
					return err
				}
				if short {
					fmt.Fprintln(cmd.OutOrStdout(), value)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", m.Path, value)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the value")
	return cmd
}

func newLsCommand(ctx *commandContext) *cobra.Command {
	var recursive bool
	cmd := &cobra.Command{
		Use:   "ls [dir]...",
		Short: "Tabulate the tracks in directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			l := newListing("#", "Artist", "Title", "Time").align(alignRight, alignLeft, alignLeft, alignRight)
			err := ctx.eachFile(cmd, args, recursive, func(m *metadata.Metadata) error {
				l.add(strconv.FormatUint(uint64(m.Tags.TNum), 10), m.Tags.Artist, m.Tags.Title, m.Time.Formatted())
				return nil
			})
			if !l.empty() {
				fmt.Fprintln(cmd.OutOrStdout(), l.render())
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into directories")
	return cmd
}

// compactedGroups keeps the spellings seen for each compacted form.
type compactedGroups map[string]map[string]int

func (g compactedGroups) add(key, spelling string) {
	if g[key] == nil {
		g[key] = map[string]int{}
	}
	g[key][spelling]++
}

// conflicts returns the keys with more than one spelling, sorted.
func (g compactedGroups) conflicts() []string {
	var keys []string
	for key, spellings := range g {
		if len(spellings) > 1 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func (g compactedGroups) spellings(key string) []string {
	out := make([]string, 0, len(g[key]))
	for s := range g[key] {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
