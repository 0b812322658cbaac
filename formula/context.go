// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package formula

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Context is the environment a package step runs in.
type Context struct {
	SourceDir  string // tree holding the exported (or built) sources
	PackageDir string // tree receiving the packaged artifacts
}

type copyOptions struct {
	src      string
	dst      string
	keepPath bool
}

// CopyOption configures Context.Copy.
type CopyOption func(*copyOptions)

// Src restricts the copy to the dir sub-tree of the source directory.
// Matching is done on paths relative to dir.
func Src(dir string) CopyOption {
	return func(o *copyOptions) { o.src = dir }
}

// Dst places the copied files under the dir sub-tree of the package directory.
func Dst(dir string) CopyOption {
	return func(o *copyOptions) { o.dst = dir }
}

// KeepPath controls whether relative directories are preserved. When
// false, every copied file lands directly in the destination directory.
func KeepPath(keep bool) CopyOption {
	return func(o *copyOptions) { o.keepPath = keep }
}

// Copy copies every regular file under the source directory whose
// slash-separated relative path matches pattern into the package directory,
// keeping its relative path. Symlinks to regular files are followed and
// copied as files; symlinked directories are not descended into. Existing
// files are overwritten. No match is not an error. It returns the destination paths, relative to the package
// directory, of the copied files.
func (ctx *Context) Copy(pattern string, opts ...CopyOption) ([]string, error) {
	o := copyOptions{keepPath: true}
	for _, opt := range opts {
		opt(&o)
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("copy: bad pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}
	srcDir := filepath.Join(ctx.SourceDir, filepath.FromSlash(o.src))
	dstDir := filepath.Join(ctx.PackageDir, filepath.FromSlash(o.dst))

	matches, err := match(srcDir, []string{pattern})
	if err != nil {
		return nil, err
	}
	var copied []string
	for _, rel := range matches {
		target := rel
		if !o.keepPath {
			target = path.Base(rel)
		}
		if err := copyFile(filepath.Join(srcDir, filepath.FromSlash(rel)), filepath.Join(dstDir, filepath.FromSlash(target))); err != nil {
			return copied, err
		}
		copied = append(copied, path.Join(filepath.ToSlash(o.dst), target))
	}
	return copied, nil
}

// match walks root and returns, in lexical order, the slash-separated
// relative paths of regular files, or symlinks to them, matching any of
// patterns.
func match(root string, patterns []string) ([]string, error) {
	var matches []string
	fsys := os.DirFS(root)
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == "." {
				return &fs.PathError{Op: "walk", Path: root, Err: unwrapPath(err)}
			}
			return err
		}
		if !isFile(fsys, p, d) {
			return nil
		}
		for _, pat := range patterns {
			if ok, _ := doublestar.Match(pat, p); ok {
				matches = append(matches, p)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func isFile(fsys fs.FS, p string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := fs.Stat(fsys, p)
	return err == nil && info.Mode().IsRegular()
}

func unwrapPath(err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}

// copyFile copies src to dst through a temporary file in dst's directory,
// so dst is either left untouched or fully written.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if _, err = io.Copy(tmp, in); err != nil {
		return err
	}
	if err = tmp.Chmod(info.Mode().Perm()); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
