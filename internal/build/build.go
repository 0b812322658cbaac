// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goplus/scopeguard/formula"
	"github.com/goplus/scopeguard/internal/env"
	"github.com/goplus/scopeguard/mod/module"
)

// Options configures a Builder.
type Options struct {
	// WorkspaceDir is where packages are created. Defaults to env.WorkDir().
	WorkspaceDir string

	// Force runs every step even if a valid cached package exists.
	Force bool

	// Keep, when positive, is the number of most recent versions of a
	// package kept in the workspace after Create. Older ones are removed.
	Keep int
}

// Builder runs recipes through export, build and package inside a workspace.
type Builder struct {
	workspaceDir string
	force        bool
	keep         int
}

// Result describes a created package.
type Result struct {
	Reference  module.Reference
	ExportDir  string
	PackageDir string
	Files      []string // packaged files, relative to PackageDir
	Cached     bool     // true if the package step was skipped
	Pruned     []string // older versions removed from the workspace
}

func NewBuilder(opts Options) (*Builder, error) {
	if opts.WorkspaceDir == "" {
		dir, err := env.WorkDir()
		if err != nil {
			return nil, err
		}
		opts.WorkspaceDir = dir
	}
	return &Builder{
		workspaceDir: opts.WorkspaceDir,
		force:        opts.Force,
		keep:         opts.Keep,
	}, nil
}

// cacheDir returns the package-level directory: workspaceDir/<escaped name>.
func (b *Builder) cacheDir(name string) (string, error) {
	escaped, err := module.EscapePath(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(b.workspaceDir, escaped), nil
}

// Create exports the recipe found in recipeDir, runs its (empty) build step
// and packages it. A package step failure leaves no package directory behind.
func (b *Builder) Create(ctx context.Context, r *formula.Recipe, recipeDir string) (Result, error) {
	if err := r.Validate(); err != nil {
		return Result{}, err
	}
	ref := r.Reference()
	res := Result{Reference: ref}

	cacheDir, err := b.cacheDir(r.Name)
	if err != nil {
		return res, err
	}
	escapedVer, err := module.EscapePath(r.Version)
	if err != nil {
		return res, err
	}
	verDir := filepath.Join(cacheDir, escapedVer)
	res.ExportDir = filepath.Join(verDir, "export")
	res.PackageDir = filepath.Join(verDir, "package")

	// .cache.json is shared by every version of the package.
	unlock, err := lockDir(cacheDir)
	if err != nil {
		return res, err
	}
	defer unlock()

	digest, err := sourceDigest(r, recipeDir)
	if err != nil {
		return res, fmt.Errorf("export %s: %w", ref, err)
	}

	cache, err := loadCache(cacheDir)
	if err != nil {
		return res, fmt.Errorf("load cache of %s: %w", ref, err)
	}
	if entry, ok := cache.get(r.Version); ok && !b.force && entry.SourceDigest == digest && entry.verify(res.PackageDir) {
		res.Files = sortedKeys(entry.Files)
		res.Cached = true
		res.Pruned, err = b.prune(cacheDir, r.Version, cache)
		return res, err
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if err := os.RemoveAll(res.ExportDir); err != nil {
		return res, err
	}
	if err := os.MkdirAll(res.ExportDir, 0o755); err != nil {
		return res, err
	}
	if _, err := formula.Export(recipeDir, res.ExportDir, r.ExportsSources); err != nil {
		return res, fmt.Errorf("export %s: %w", ref, err)
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	sourceDir := res.ExportDir
	if !r.NoCopySource {
		sourceDir = filepath.Join(verDir, "build")
		if err := os.RemoveAll(sourceDir); err != nil {
			return res, err
		}
		if err := os.CopyFS(sourceDir, os.DirFS(res.ExportDir)); err != nil {
			return res, fmt.Errorf("build %s: %w", ref, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if err := os.RemoveAll(res.PackageDir); err != nil {
		return res, err
	}
	if err := os.MkdirAll(res.PackageDir, 0o755); err != nil {
		return res, err
	}
	if err := r.Package(&formula.Context{SourceDir: sourceDir, PackageDir: res.PackageDir}); err != nil {
		os.RemoveAll(res.PackageDir)
		return res, fmt.Errorf("package %s: %w", ref, err)
	}

	files, err := listFiles(res.PackageDir)
	if err != nil {
		return res, err
	}
	sums, err := hashFiles(res.PackageDir, files)
	if err != nil {
		return res, err
	}
	entry := &packageEntry{
		Reference:    ref.String(),
		SourceDigest: digest,
		Files:        sums,
		PackageTime:  time.Now(),
	}
	for _, req := range r.Requires {
		entry.Requires = append(entry.Requires, req.String())
	}
	cache.set(r.Version, entry)
	res.Files = files
	res.Pruned, err = b.prune(cacheDir, r.Version, cache)
	return res, err
}

// prune drops all but the b.keep most recent versions from cache and the
// workspace, then saves cache. The current version is never dropped.
// It returns the removed versions.
func (b *Builder) prune(cacheDir, current string, cache *packageCache) ([]string, error) {
	var pruned []string
	if b.keep > 0 {
		versions := cache.versions()
		excess := len(versions) - b.keep
		for _, old := range versions {
			if excess <= 0 {
				break
			}
			if old == current {
				continue
			}
			escaped, err := module.EscapePath(old)
			if err != nil {
				return pruned, err
			}
			if err := os.RemoveAll(filepath.Join(cacheDir, escaped)); err != nil {
				return pruned, err
			}
			delete(cache.Cache, old)
			pruned = append(pruned, old)
			excess--
		}
	}
	if err := saveCache(cacheDir, cache); err != nil {
		return pruned, fmt.Errorf("save cache of %s: %w", filepath.Base(cacheDir), err)
	}
	return pruned, nil
}

// Package is a cached package as listed by Builder.List.
type Package struct {
	Reference   string
	Version     string
	Files       int
	PackageTime time.Time
}

// List returns the packages of name held in the workspace, oldest version first.
func (b *Builder) List(name string) ([]Package, error) {
	cacheDir, err := b.cacheDir(name)
	if err != nil {
		return nil, err
	}
	cache, err := loadCache(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("load cache of %s: %w", name, err)
	}
	var pkgs []Package
	for _, ver := range cache.versions() {
		entry, _ := cache.get(ver)
		pkgs = append(pkgs, Package{
			Reference:   entry.Reference,
			Version:     ver,
			Files:       len(entry.Files),
			PackageTime: entry.PackageTime,
		})
	}
	return pkgs, nil
}
