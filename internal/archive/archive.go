// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package archive writes package directories out as archives.
package archive

import (
	"archive/tar"
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// Write writes the contents of srcDir to dest.
// If dest ends with ".zip" or ".tar.xz", an archive is created; otherwise
// the files are copied into the dest directory, overwriting existing ones.
func Write(srcDir, dest string) error {
	switch {
	case strings.HasSuffix(dest, ".zip"):
		return zipDir(srcDir, dest)
	case strings.HasSuffix(dest, ".tar.xz"):
		return tarXzDir(srcDir, dest)
	}
	return copyDir(srcDir, dest)
}

// copyDir copies every regular file under srcDir to the same relative path
// under dest. Files already in dest are truncated and rewritten.
func copyDir(srcDir, dest string) error {
	return walkFiles(srcDir, func(rel, path string, info fs.FileInfo) error {
		target := filepath.Join(dest, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
		if err != nil {
			return err
		}
		if err := copyTo(f, path); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	})
}

// walkFiles calls fn for every regular file under srcDir with its
// slash-separated relative path.
func walkFiles(srcDir string, fn func(rel, path string, info fs.FileInfo) error) error {
	return filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		return fn(filepath.ToSlash(rel), path, info)
	})
}

func copyTo(w io.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = io.Copy(w, file)
	return err
}

// zipDir creates a zip archive at dest from the contents of srcDir.
func zipDir(srcDir, dest string) error {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	w := zip.NewWriter(f)
	err = walkFiles(srcDir, func(rel, path string, info fs.FileInfo) error {
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = rel
		header.Method = zip.Deflate

		writer, err := w.CreateHeader(header)
		if err != nil {
			return err
		}
		return copyTo(writer, path)
	})
	if err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return f.Close()
}

// tarXzDir creates an xz-compressed tarball at dest from the contents of srcDir.
func tarXzDir(srcDir, dest string) error {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	xw, err := xz.NewWriter(f)
	if err != nil {
		return err
	}
	tw := tar.NewWriter(xw)
	err = walkFiles(srcDir, func(rel, path string, info fs.FileInfo) error {
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = rel
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		return copyTo(tw, path)
	})
	if err != nil {
		return err
	}
	if err := tw.Close(); err != nil {
		return err
	}
	if err := xw.Close(); err != nil {
		return err
	}
	return f.Close()
}
