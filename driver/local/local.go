// Package local provides the intake Disk on top of an afero filesystem,
// normally the operating system's.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gobeaver/intake"
	"github.com/spf13/afero"
)

const (
	probePattern = ".intake-probe-*"
	stagePattern = ".intake-stage-*"
)

// Adapter implements intake.Disk over an afero.Fs
type Adapter struct {
	fs       afero.Fs
	root     string
	fileMode os.FileMode
}

// Option configures an Adapter
type Option func(*Adapter)

// WithRoot confines every path to root. Relative paths are resolved
// against it; absolute paths outside it are rejected with ErrNotAllowed.
func WithRoot(root string) Option {
	return func(a *Adapter) {
		if root != "" {
			a.root = filepath.Clean(root)
		}
	}
}

// WithFileMode sets the permissions committed files end up with.
func WithFileMode(mode os.FileMode) Option {
	return func(a *Adapter) {
		a.fileMode = mode
	}
}

// New creates an adapter over fs
func New(fs afero.Fs, opts ...Option) *Adapter {
	a := &Adapter{
		fs:       fs,
		fileMode: 0o644,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewOS creates an adapter over the operating system's filesystem. A
// non-empty root is made absolute and must exist.
func NewOS(root string, opts ...Option) (*Adapter, error) {
	if root != "" {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(absRoot)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return nil, &intake.PathError{Op: "root", Path: root, Err: intake.ErrNotDir}
		}
		opts = append(opts, WithRoot(absRoot))
	}
	return New(afero.NewOsFs(), opts...), nil
}

// Fs returns the underlying filesystem
func (a *Adapter) Fs() afero.Fs {
	return a.fs
}

// DirExists implements intake.DiskReader
func (a *Adapter) DirExists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	fullPath, err := a.resolve("direxists", path)
	if err != nil {
		return false, err
	}

	exists, err := afero.DirExists(a.fs, fullPath)
	if err != nil {
		return false, mapError("direxists", path, err)
	}
	return exists, nil
}

// Stat implements intake.DiskReader
func (a *Adapter) Stat(ctx context.Context, path string) (*intake.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fullPath, err := a.resolve("stat", path)
	if err != nil {
		return nil, err
	}

	info, err := a.fs.Stat(fullPath)
	if err != nil {
		return nil, mapError("stat", path, err)
	}

	return &intake.FileInfo{
		Name:    info.Name(),
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
	}, nil
}

// Open implements intake.DiskReader
func (a *Adapter) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fullPath, err := a.resolve("open", path)
	if err != nil {
		return nil, err
	}

	f, err := a.fs.Open(fullPath)
	if err != nil {
		return nil, mapError("open", path, err)
	}
	return f, nil
}

// CreateDir implements intake.DiskWriter
func (a *Adapter) CreateDir(ctx context.Context, path string, perm os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath, err := a.resolve("mkdir", path)
	if err != nil {
		return err
	}

	if err := a.fs.MkdirAll(fullPath, perm); err != nil {
		return mapError("mkdir", path, err)
	}
	return nil
}

// Writable implements intake.DiskWriter by creating and removing a probe file
func (a *Adapter) Writable(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath, err := a.resolve("writable", dir)
	if err != nil {
		return err
	}

	f, err := afero.TempFile(a.fs, fullPath, probePattern)
	if err != nil {
		return mapError("writable", dir, err)
	}
	name := f.Name()
	_ = f.Close()

	if err := a.fs.Remove(name); err != nil {
		return mapError("writable", dir, err)
	}
	return nil
}

// CreateExclusive implements intake.DiskWriter
func (a *Adapter) CreateExclusive(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath, err := a.resolve("create", path)
	if err != nil {
		return err
	}

	f, err := a.fs.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, a.fileMode)
	if err != nil {
		return mapError("create", path, err)
	}
	if err := f.Close(); err != nil {
		return mapError("create", path, err)
	}
	return nil
}

// CopyExclusive implements intake.DiskWriter
func (a *Adapter) CopyExclusive(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	srcPath, err := a.resolve("copy", src)
	if err != nil {
		return err
	}
	dstPath, err := a.resolve("copy", dst)
	if err != nil {
		return err
	}

	in, err := a.fs.Open(srcPath)
	if err != nil {
		return mapError("copy", src, err)
	}
	defer in.Close()

	out, err := a.fs.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, a.fileMode)
	if err != nil {
		return mapError("copy", dst, err)
	}

	if err := writeAll(out, in); err != nil {
		_ = a.fs.Remove(dstPath)
		return &intake.PathError{Op: "copy", Path: dst, Err: err}
	}
	return nil
}

// Move implements intake.DiskWriter. A rename is tried first; across
// devices the content is copied to a hidden file beside dst and renamed
// from there, so dst never holds a partial copy.
func (a *Adapter) Move(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	srcPath, err := a.resolve("move", src)
	if err != nil {
		return err
	}
	dstPath, err := a.resolve("move", dst)
	if err != nil {
		return err
	}

	_ = a.fs.Chmod(srcPath, a.fileMode)

	err = a.fs.Rename(srcPath, dstPath)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return mapError("move", src, err)
	}

	staged, err := a.stage(srcPath, filepath.Dir(dstPath))
	if err != nil {
		return &intake.PathError{Op: "move", Path: dst, Err: err}
	}
	if err := a.fs.Rename(staged, dstPath); err != nil {
		_ = a.fs.Remove(staged)
		return mapError("move", dst, err)
	}

	// dst is committed; a leftover source is the caller's to clean up.
	_ = a.fs.Remove(srcPath)
	return nil
}

// stage copies src into a new hidden file in dir and returns its path.
func (a *Adapter) stage(src, dir string) (string, error) {
	in, err := a.fs.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := afero.TempFile(a.fs, dir, stagePattern)
	if err != nil {
		return "", err
	}
	name := out.Name()

	if err := writeAll(out, in); err != nil {
		_ = a.fs.Remove(name)
		return "", err
	}
	_ = a.fs.Chmod(name, a.fileMode)
	return name, nil
}

// Delete implements intake.DiskWriter
func (a *Adapter) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath, err := a.resolve("delete", path)
	if err != nil {
		return err
	}

	info, err := a.fs.Stat(fullPath)
	if err != nil {
		return mapError("delete", path, err)
	}
	if info.IsDir() {
		return &intake.PathError{Op: "delete", Path: path, Err: intake.ErrIsDir}
	}

	if err := a.fs.Remove(fullPath); err != nil {
		return mapError("delete", path, err)
	}
	return nil
}

// Checksum implements intake.CanChecksum
func (a *Adapter) Checksum(ctx context.Context, path string, algorithm intake.ChecksumAlgorithm) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fullPath, err := a.resolve("checksum", path)
	if err != nil {
		return "", err
	}

	f, err := a.fs.Open(fullPath)
	if err != nil {
		return "", mapError("checksum", path, err)
	}
	defer f.Close()

	sum, err := intake.CalculateChecksum(f, algorithm)
	if err != nil {
		return "", &intake.PathError{Op: "checksum", Path: path, Err: err}
	}
	return sum, nil
}

// resolve cleans path and applies the root restriction.
func (a *Adapter) resolve(op, path string) (string, error) {
	if path == "" {
		return "", &intake.PathError{Op: op, Path: path, Err: intake.ErrNotExist}
	}
	if a.root == "" {
		return filepath.Clean(path), nil
	}

	fullPath := path
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(a.root, fullPath)
	}
	fullPath = filepath.Clean(fullPath)

	if !isPathUnderRoot(a.root, fullPath) {
		return "", &intake.PathError{Op: op, Path: path, Err: intake.ErrNotAllowed}
	}
	return fullPath, nil
}

func isPathUnderRoot(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}

	return !filepath.IsAbs(rel) && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// writeAll copies r into f, syncs and closes it.
func writeAll(f afero.File, r io.Reader) error {
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func mapError(op, path string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		err = intake.ErrNotExist
	case errors.Is(err, os.ErrExist):
		err = intake.ErrExist
	case errors.Is(err, os.ErrPermission):
		err = fmt.Errorf("%w: %v", intake.ErrPermission, err)
	}
	return &intake.PathError{Op: op, Path: path, Err: err}
}
