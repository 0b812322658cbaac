// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package build

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/goplus/scopeguard/formula"
	"github.com/goplus/scopeguard/mod/module"
)

// Workspace directory layout:
//
//	workspaceDir/
//	  <escaped name>/                 # package-level dir (cacheDir)
//	    .lock
//	    .cache.json                   # package cache: maps version -> packageEntry
//	    <version>/
//	      export/                     # exported sources
//	      build/                      # copied sources, only without NoCopySource
//	      package/                    # packaged artifacts
const cacheFile = ".cache.json"

// packageEntry contains metadata about a single successful package step.
type packageEntry struct {
	Reference    string            `json:"reference"`
	Requires     []string          `json:"requires,omitempty"`
	SourceDigest string            `json:"source_digest"` // see sourceDigest
	Files        map[string]string `json:"files"`         // relative path -> sha256
	PackageTime  time.Time         `json:"package_time"`
}

// packageCache maps versions to their package entries.
type packageCache struct {
	Cache map[string]*packageEntry `json:"cache"`
}

func (c *packageCache) get(version string) (*packageEntry, bool) {
	entry, ok := c.Cache[version]
	return entry, ok
}

func (c *packageCache) set(version string, entry *packageEntry) {
	if c.Cache == nil {
		c.Cache = make(map[string]*packageEntry)
	}
	c.Cache[version] = entry
}

// versions returns the cached versions, oldest first.
func (c *packageCache) versions() []string {
	vers := make([]string, 0, len(c.Cache))
	for v := range c.Cache {
		vers = append(vers, v)
	}
	slices.SortFunc(vers, module.CompareVersion)
	return vers
}

// loadCache reads the cache file from dir. A missing file yields an empty cache.
func loadCache(dir string) (*packageCache, error) {
	data, err := os.ReadFile(filepath.Join(dir, cacheFile))
	if os.IsNotExist(err) {
		return &packageCache{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cache packageCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, err
	}
	return &cache, nil
}

// saveCache writes the cache file to dir.
func saveCache(dir string, cache *packageCache) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, cacheFile), data, 0o644)
}

// hashFiles returns the sha256 of every file in files, relative to dir.
func hashFiles(dir string, files []string) (map[string]string, error) {
	sums := make(map[string]string, len(files))
	for _, name := range files {
		sum, err := hashFile(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil {
			return nil, err
		}
		sums[name] = sum
	}
	return sums, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// verify reports whether every file recorded in entry is still present
// under dir with the recorded content.
func (e *packageEntry) verify(dir string) bool {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return false
	}
	for name, want := range e.Files {
		got, err := hashFile(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil || got != want {
			return false
		}
	}
	return true
}

// sourceDigest hashes the set of files the recipe exports from recipeDir:
// their paths and contents. Any edit, addition or removal changes it.
func sourceDigest(r *formula.Recipe, recipeDir string) (string, error) {
	files, err := r.Exports(recipeDir)
	if err != nil {
		return "", err
	}
	sums, err := hashFiles(recipeDir, files)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	for _, name := range files {
		fmt.Fprintf(h, "%s\x00%s\n", name, sums[name])
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
