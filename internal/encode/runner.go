package encode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"aur/internal/aurerr"
	"aur/internal/deps"
	"aur/internal/logging"
	"aur/internal/metadata"
)

// BinaryFinder locates external programs.
type BinaryFinder interface {
	Find(name string) (string, error)
}

// Runner executes the external tools.
type Runner struct {
	finder BinaryFinder
	logger *slog.Logger
}

// NewRunner builds a Runner. A nil finder uses deps.NewFinder.
func NewRunner(finder BinaryFinder, logger *slog.Logger) *Runner {
	if finder == nil {
		finder = deps.NewFinder()
	}
	return &Runner{finder: finder, logger: logging.NewComponentLogger(logger, "encode")}
}

// FlacToMp3 pipes `flac -dsc` into lame. A failed encode leaves no partial
// target behind.
func (r *Runner) FlacToMp3(ctx context.Context, src, dst, preset string) error {
	flacBin, err := r.finder.Find("flac")
	if err != nil {
		return err
	}
	lameBin, err := r.finder.Find("lame")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return aurerr.Wrap(aurerr.ErrIO, "", "", err)
	}

	decoder := exec.CommandContext(ctx, flacBin, FlacDecodeArgs(src)...)
	encoder := exec.CommandContext(ctx, lameBin, LameArgs(preset, dst)...)
	var decErr, encErr bytes.Buffer
	decoder.Stderr = &decErr
	encoder.Stderr = &encErr

	pr, pw, err := os.Pipe()
	if err != nil {
		return aurerr.Wrap(aurerr.ErrIO, "", "", err)
	}
	decoder.Stdout = pw
	encoder.Stdin = pr

	r.logger.Debug("transcoding", logging.Path(src), logging.String("target", dst), logging.String("preset", preset))
	if err := decoder.Start(); err != nil {
		_ = pr.Close()
		_ = pw.Close()
		return external("flac", err, "")
	}
	if err := encoder.Start(); err != nil {
		_ = pr.Close()
		_ = pw.Close()
		_ = decoder.Process.Kill()
		_ = decoder.Wait()
		return external("lame", err, "")
	}
	// The children hold their own ends now.
	_ = pr.Close()
	_ = pw.Close()

	encodeErr := encoder.Wait()
	decodeErr := decoder.Wait()

	switch {
	case encodeErr != nil:
		// A dead encoder also kills the decoder with SIGPIPE.
		_ = os.Remove(dst)
		return external("lame", encodeErr, encErr.String())
	case decodeErr != nil:
		_ = os.Remove(dst)
		return external("flac", decodeErr, decErr.String())
	}
	return nil
}

// Transcode converts src to dst with ffmpeg.
func (r *Runner) Transcode(ctx context.Context, src, dst string, cdQuality bool) error {
	return r.run(ctx, "ffmpeg", FFmpegArgs(src, dst, cdQuality))
}

// Split runs shnsplit over src, writing tracks beside it.
func (r *Runner) Split(ctx context.Context, cue, src string) error {
	return r.run(ctx, "shnsplit", ShnsplitArgs(cue, src, filepath.Dir(src)))
}

// Verify checks that path decodes cleanly: `flac -t` for FLAC, an ffmpeg
// null decode otherwise.
func (r *Runner) Verify(ctx context.Context, path string, ft metadata.FileType) error {
	if ft == metadata.FLAC {
		return r.run(ctx, "flac", FlacTestArgs(path))
	}
	return r.run(ctx, "ffmpeg", FFmpegVerifyArgs(path))
}

func (r *Runner) run(ctx context.Context, name string, args []string) error {
	binary, err := r.finder.Find(name)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	r.logger.Debug("running", logging.String("command", name), logging.String("args", strings.Join(args, " ")))
	if err := cmd.Run(); err != nil {
		return external(name, err, stderr.String())
	}
	return nil
}

func external(name string, err error, stderr string) error {
	detail := strings.TrimSpace(stderr)
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg := fmt.Sprintf("%s exited %d", name, exitErr.ExitCode())
		if detail != "" {
			msg += ": " + detail
		}
		return aurerr.New(aurerr.ErrExternal, "%s", msg)
	}
	return aurerr.Wrap(aurerr.ErrExternal, name, detail, err)
}
