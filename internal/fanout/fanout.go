// Package fanout runs independent per-file work in parallel.
package fanout

import (
	"context"
	"io"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

// Options controls a parallel map.
type Options struct {
	// Jobs caps concurrent work. Zero or less means runtime.NumCPU().
	Jobs int
	// Progress receives a progress bar when non-nil.
	Progress    io.Writer
	Description string
}

// TerminalProgress returns f when it is a terminal, otherwise nil, so that
// redirected output carries no progress bar.
func TerminalProgress(f *os.File) io.Writer {
	if f == nil {
		return nil
	}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return f
	}
	return nil
}

// Map applies fn to every item. A failing item does not stop the others; the
// returned slice holds each item's error at its index.
func Map[T any](ctx context.Context, items []T, opts Options, fn func(context.Context, T) error) []error {
	errs := make([]error, len(items))
	if len(items) == 0 {
		return errs
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(len(items),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription(opts.Description),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)
	for i, item := range items {
		i, item := i, item
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				errs[i] = err
			} else {
				errs[i] = fn(gctx, item)
			}
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	_ = group.Wait()
	if bar != nil {
		_ = bar.Finish()
	}
	return errs
}

// Failed counts the non-nil errors.
func Failed(errs []error) int {
	n := 0
	for _, err := range errs {
		if err != nil {
			n++
		}
	}
	return n
}
