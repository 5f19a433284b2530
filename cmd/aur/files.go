package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"aur/internal/aurerr"
	"aur/internal/logging"
	"aur/internal/metadata"
)

func isMedia(name string) bool {
	_, ok := metadata.ParseFileType(filepath.Ext(name))
	return ok
}

// expandFiles turns arguments into file paths. Directories contribute their
// media files, recursively when asked. Named files, and paths that cannot be
// read, are kept as given so the per-file step reports them.
func expandFiles(args []string, recursive bool) []string {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			out = append(out, arg)
			continue
		}
		out = append(out, mediaIn(arg, recursive)...)
	}
	return out
}

func mediaIn(dir string, recursive bool) []string {
	var out []string
	if !recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return []string{dir}
		}
		for _, e := range entries {
			if e.Type().IsRegular() && isMedia(e.Name()) {
				out = append(out, filepath.Join(dir, e.Name()))
			}
		}
		return out
	}
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() && isMedia(d.Name()) {
			out = append(out, path)
		}
		return nil
	})
	sort.Strings(out)
	return out
}

// expandDirs returns the directories named by args, and every directory
// below them when recursive.
func expandDirs(args []string, recursive bool) []string {
	var out []string
	for _, arg := range args {
		if !recursive {
			out = append(out, arg)
			continue
		}
		err := filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == arg {
					return err
				}
				return nil
			}
			if d.IsDir() {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			out = append(out, arg)
		}
	}
	return out
}

// dirListing returns the regular files in dir, sorted.
func dirListing(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, aurerr.Wrap(aurerr.ErrIO, "", "", err)
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// reporter prints per-item failures and remembers that one happened.
type reporter struct {
	cmd    *cobra.Command
	failed int
}

func (r *reporter) report(err error) {
	if err == nil {
		return
	}
	r.failed++
	if msg := aurerr.Render(err); msg != "" {
		fmt.Fprintln(r.cmd.ErrOrStderr(), msg)
	}
}

func (r *reporter) result() error {
	if r.failed > 0 {
		return aurerr.ErrReported
	}
	return nil
}

// eachFile reads every file named by args and calls fn with its metadata.
func (c *commandContext) eachFile(cmd *cobra.Command, args []string, recursive bool, fn func(*metadata.Metadata) error) error {
	c.setup(cmd)
	rep := &reporter{cmd: cmd}
	for _, path := range expandFiles(args, recursive) {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		m, err := c.store.Read(cmd.Context(), path)
		if err == nil {
			err = fn(m)
		}
		rep.report(err)
	}
	return rep.result()
}

// eachDir calls fn for every directory named by args.
func (c *commandContext) eachDir(cmd *cobra.Command, args []string, recursive bool, fn func(string) error) error {
	c.setup(cmd)
	rep := &reporter{cmd: cmd}
	for _, dir := range expandDirs(args, recursive) {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		abs, err := filepath.Abs(dir)
		if err == nil {
			err = fn(abs)
		}
		rep.report(err)
	}
	return rep.result()
}

// setTag writes one tag unless --noop is set.
func (c *commandContext) setTag(cmd *cobra.Command, m *metadata.Metadata, key, value string) error {
	if c.flags.noop {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", m.Path, key, value)
		return nil
	}
	changed, err := c.store.SetTag(m.Path, m.FileType, key, value)
	if err != nil {
		return err
	}
	if changed {
		c.componentLogger(cmd).Info("tag updated",
			logging.Path(m.Path),
			logging.String("tag", key),
			logging.String("value", value),
		)
	}
	return nil
}

// remove deletes path unless --noop is set.
func (c *commandContext) remove(cmd *cobra.Command, path string) error {
	if c.flags.noop {
		fmt.Fprintf(cmd.OutOrStdout(), "remove %s\n", path)
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return aurerr.Wrap(aurerr.ErrIO, "", "", err)
	}
	c.componentLogger(cmd).Info("removed", logging.Path(path))
	return nil
}
