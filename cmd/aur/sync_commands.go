package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"aur/internal/aurerr"
	"aur/internal/deps"
	"aur/internal/fanout"
	"aur/internal/fileutil"
	"aur/internal/lint"
	"aur/internal/logging"
	"aur/internal/preflight"
	"aur/internal/syncplan"
)

// syncLockName is created in the media root while syncflac runs.
const syncLockName = ".aur-sync.lock"

func newSyncFlacCommand(ctx *commandContext) *cobra.Command {
	var rootFlag, preset string
	cmd := &cobra.Command{
		Use:   "syncflac",
		Short: "Make the MP3 tree mirror the FLAC tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx.setup(cmd)
			cfg := ctx.configValue()
			root, err := mediaRoot(ctx, rootFlag)
			if err != nil {
				return err
			}
			if preset == "" {
				preset = cfg.Sync.Preset
			}

			lock := flock.New(filepath.Join(root, syncLockName))
			locked, err := lock.TryLock()
			if err != nil {
				return aurerr.Wrap(aurerr.ErrIO, "acquire sync lock", "", err)
			}
			if !locked {
				return aurerr.New(aurerr.ErrPolicy, "another syncflac is running on %s", root)
			}
			defer func() {
				_ = lock.Unlock()
			}()

			if err := ctx.preflight(cmd, root); err != nil {
				return err
			}
			if err := ctx.prepareMp3Root(filepath.Join(root, "mp3")); err != nil {
				return err
			}
			plans, err := syncplan.Walk(root, syncplan.WalkOptions{
				Mirror: syncplan.Options{Preset: preset},
				Ignore: cfg.Ignore.Syncflac,
			})
			if err != nil {
				return err
			}
			return ctx.applyPlans(cmd, plans, preset, true)
		},
	}
	cmd.Flags().StringVarP(&rootFlag, "root", "R", "", "Media root (default from config)")
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "lame preset (default from config)")
	return cmd
}

func newMp3DirCommand(ctx *commandContext) *cobra.Command {
	var rootFlag, preset string
	var recursive, suffix, force bool
	cmd := &cobra.Command{
		Use:   "mp3dir <dir>...",
		Short: "Transcode FLAC directories into their MP3 mirrors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx.setup(cmd)
			cfg := ctx.configValue()
			if preset == "" {
				preset = cfg.Sync.Preset
			}
			var root string
			if strings.TrimSpace(rootFlag) != "" {
				var err error
				if root, err = mediaRoot(ctx, rootFlag); err != nil {
					return err
				}
				if err := ctx.prepareMp3Root(filepath.Join(root, "mp3")); err != nil {
					return err
				}
			}

			rep := &reporter{cmd: cmd}
			var plans []syncplan.Plan
			for _, dir := range expandDirs(args, recursive) {
				plan, err := mp3DirPlan(dir, root, syncplan.Options{Preset: preset, Suffix: suffix}, force)
				if err != nil {
					rep.report(err)
					continue
				}
				plans = append(plans, plan)
			}
			rep.report(ctx.applyPlans(cmd, plans, preset, false))
			return rep.result()
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into directories")
	cmd.Flags().StringVarP(&rootFlag, "root", "R", "", "Media root the directories must lie under")
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "lame preset (default from config)")
	cmd.Flags().BoolVar(&suffix, "suffix", false, "Append -<preset> to the MP3 directory name")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Re-encode MP3s that already exist")
	return cmd
}

func mp3DirPlan(dir, root string, opts syncplan.Options, overwrite bool) (syncplan.Plan, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return syncplan.Plan{}, aurerr.Wrap(aurerr.ErrIO, "", "", err)
	}
	if root != "" {
		rel, err := filepath.Rel(filepath.Join(root, "flac"), abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return syncplan.Plan{}, aurerr.New(aurerr.ErrPolicy, "%s is outside %s", abs, filepath.Join(root, "flac"))
		}
	}
	hierarchy, err := lint.HierarchyOf(abs)
	if err != nil {
		return syncplan.Plan{}, err
	}
	if hierarchy != lint.HierarchyFLAC {
		return syncplan.Plan{}, aurerr.New(aurerr.ErrPolicy, "%s is not in a flac hierarchy", abs)
	}
	plan, err := syncplan.PlanDir(abs, syncplan.Mp3DirFrom(abs, opts), overwrite)
	if err != nil {
		return syncplan.Plan{}, err
	}
	plan.CleanUps = nil
	return plan, nil
}

// preflight checks the tree and encoders. Under --noop failures are only
// logged since nothing will run.
func (c *commandContext) preflight(cmd *cobra.Command, root string) error {
	results := preflight.ForSync(root, deps.NewFinder())
	if !c.flags.noop {
		return preflight.Failures(results)
	}
	for _, r := range results {
		if !r.Passed {
			logging.WarnWithContext(c.componentLogger(cmd), "preflight check failed", "preflight",
				logging.String("check", r.Name),
				logging.String("detail", r.Detail),
				logging.String(logging.FieldImpact, "sync would fail"),
			)
		}
	}
	return nil
}

// prepareMp3Root makes sure the MP3 tree exists and can be written.
func (c *commandContext) prepareMp3Root(dir string) error {
	if c.flags.noop {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return aurerr.Wrap(aurerr.ErrIO, "", "", err)
	}
	return fileutil.Writable(dir)
}

// applyPlans runs every transcode in parallel, then removes orphaned MP3s.
func (c *commandContext) applyPlans(cmd *cobra.Command, plans []syncplan.Plan, preset string, cleanUp bool) error {
	logger := c.componentLogger(cmd)
	rep := &reporter{cmd: cmd}

	var actions []syncplan.TranscodeAction
	var orphans []string
	for _, plan := range plans {
		actions = append(actions, plan.Transcodes...)
		orphans = append(orphans, plan.CleanUps...)
	}
	logger.Info("sync planned",
		logging.Int("directories", len(plans)),
		logging.Int("transcodes", len(actions)),
		logging.Int("cleanups", len(orphans)),
	)

	errs := fanout.Map(cmd.Context(), actions, fanout.Options{
		Jobs:        c.configValue().Workers(),
		Progress:    progressWriter(cmd),
		Description: "transcode",
	}, func(runCtx context.Context, action syncplan.TranscodeAction) error {
		src, err := c.store.Read(runCtx, action.FlacSrc)
		if err != nil {
			return err
		}
		return c.flacToMp3(runCtx, cmd, src, action.Mp3Target, preset)
	})
	logger.Info("transcodes finished",
		logging.Int("transcodes", len(actions)),
		logging.Int("failed", fanout.Failed(errs)),
	)
	for i, err := range errs {
		if err != nil {
			logging.WarnWithContext(logger, "transcode failed", "transcode_failed",
				logging.Path(actions[i].FlacSrc),
				logging.Error(err),
			)
		}
		rep.report(err)
	}
	if err := cmd.Context().Err(); err != nil {
		return err
	}

	if cleanUp {
		for _, path := range orphans {
			rep.report(c.remove(cmd, path))
		}
	}
	if rep.failed > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d operations failed\n", rep.failed, len(actions)+len(orphans))
	}
	return rep.result()
}
