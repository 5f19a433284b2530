package syncplan

import (
	"io/fs"
	"path/filepath"
	"strings"

	"aur/internal/aurerr"
)

// WalkOptions controls a whole-tree plan.
type WalkOptions struct {
	Mirror    Options
	Overwrite bool
	// Ignore holds path prefixes, absolute or relative to the flac root,
	// that are left alone.
	Ignore []string
}

// Walk plans every directory under root/flac. Directories with nothing to do
// are omitted.
func Walk(root string, opts WalkOptions) ([]Plan, error) {
	flacRoot := filepath.Join(root, "flac")
	var plans []Plan
	err := filepath.WalkDir(flacRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return aurerr.Wrap(aurerr.ErrIO, "", "", err)
		}
		if !d.IsDir() {
			return nil
		}
		if ignored(flacRoot, path, opts.Ignore) {
			return filepath.SkipDir
		}
		plan, err := PlanDir(path, Mp3DirFrom(path, opts.Mirror), opts.Overwrite)
		if err != nil {
			return err
		}
		if !plan.Empty() {
			plans = append(plans, plan)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func ignored(flacRoot, path string, prefixes []string) bool {
	rel, err := filepath.Rel(flacRoot, path)
	if err != nil {
		rel = path
	}
	for _, prefix := range prefixes {
		if prefix == "" {
			continue
		}
		if strings.HasPrefix(path, prefix) || strings.HasPrefix(rel, prefix) {
			return true
		}
	}
	return false
}
