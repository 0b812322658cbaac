// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goplus/scopeguard/formula"
	"gopkg.in/yaml.v3"
)

// run executes the root command with args and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	inspectFormat = "yaml"
	createOutput, createForce, createWorkspace, createKeep = "", false, "", 0
	listWorkspace = ""
	verbose = false

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), err
}

// newRecipeDir creates a directory laid out like the recipe repository.
func newRecipeDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"include/boost/scope_guard.hpp": "#pragma once\n",
		"include/boost/notes.txt":       "notes",
		"go.mod":                        "module x",
	}
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestInspect(t *testing.T) {
	out, err := run(t, "inspect")
	if err != nil {
		t.Fatalf("inspect error = %v", err)
	}
	var info formula.Info
	if err := yaml.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("inspect output is not yaml: %v\n%s", err, out)
	}
	if info.Name != "boost_scope_guard" || info.Version != "1.0" || !info.NoCopySource {
		t.Errorf("inspect = %+v", info)
	}
	if len(info.Requires) != 1 || info.Requires[0] != "boost_config/1.66.0@bincrafters/stable" {
		t.Errorf("inspect requires = %v", info.Requires)
	}

	out, err = run(t, "inspect", "--format", "json")
	if err != nil {
		t.Fatalf("inspect --format json error = %v", err)
	}
	info = formula.Info{}
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("inspect output is not json: %v\n%s", err, out)
	}
	if info.Name != "boost_scope_guard" {
		t.Errorf("inspect json name = %q", info.Name)
	}

	if _, err := run(t, "inspect", "--format", "toml"); err == nil {
		t.Error("inspect --format toml succeeded")
	}
}

func TestExportAndPackage(t *testing.T) {
	recipeDir := newRecipeDir(t)
	exportDir := filepath.Join(t.TempDir(), "export")
	pkgDir := filepath.Join(t.TempDir(), "package")

	if _, err := run(t, "export", recipeDir, exportDir); err != nil {
		t.Fatalf("export error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(exportDir, "include", "boost", "notes.txt")); err != nil {
		t.Errorf("notes.txt not exported: %v", err)
	}
	if _, err := os.Stat(filepath.Join(exportDir, "go.mod")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("go.mod exported (stat error = %v)", err)
	}

	if _, err := run(t, "package", exportDir, pkgDir); err != nil {
		t.Fatalf("package error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(pkgDir, "include", "boost", "scope_guard.hpp")); err != nil {
		t.Errorf("scope_guard.hpp not packaged: %v", err)
	}
	if _, err := os.Stat(filepath.Join(pkgDir, "include", "boost", "notes.txt")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("notes.txt packaged (stat error = %v)", err)
	}
}

func TestPackage_MissingSource(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	_, err := run(t, "package", missing, t.TempDir())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("package error = %v, want fs.ErrNotExist", err)
	}
}

func TestCreate(t *testing.T) {
	recipeDir := newRecipeDir(t)
	workspace := t.TempDir()
	archive := filepath.Join(t.TempDir(), "pkg.zip")

	out, err := run(t, "create", recipeDir, "--workspace", workspace, "-o", archive)
	if err != nil {
		t.Fatalf("create error = %v", err)
	}
	pkgDir := strings.TrimSpace(out)
	if want := filepath.Join(workspace, "boost_scope_guard", "1.0", "package"); pkgDir != want {
		t.Errorf("create printed %q, want %q", pkgDir, want)
	}
	if _, err := os.Stat(filepath.Join(pkgDir, "include", "boost", "scope_guard.hpp")); err != nil {
		t.Errorf("scope_guard.hpp not packaged: %v", err)
	}
	if _, err := os.Stat(archive); err != nil {
		t.Errorf("archive not written: %v", err)
	}

	if _, err := run(t, "create", recipeDir, "--workspace", workspace, "-v"); err != nil {
		t.Fatalf("second create error = %v", err)
	}

	out, err = run(t, "list", "--workspace", workspace)
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if !strings.HasPrefix(out, "boost_scope_guard/1.0\t1 files\t") {
		t.Errorf("list = %q, want boost_scope_guard/1.0 with 1 file", out)
	}
}

func TestCreate_OutputDirTwice(t *testing.T) {
	recipeDir := newRecipeDir(t)
	workspace := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")

	for i := 0; i < 2; i++ {
		if _, err := run(t, "create", recipeDir, "--workspace", workspace, "--force", "-o", out); err != nil {
			t.Fatalf("create #%d error = %v", i+1, err)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "include", "boost", "scope_guard.hpp")); err != nil {
		t.Errorf("scope_guard.hpp not in output: %v", err)
	}
}

func TestList_Empty(t *testing.T) {
	out, err := run(t, "list", "--workspace", t.TempDir())
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if out != "" {
		t.Errorf("list on an empty workspace = %q, want nothing", out)
	}
}

func TestCreate_TooManyArgs(t *testing.T) {
	if _, err := run(t, "create", "a", "b"); err == nil {
		t.Error("create with two arguments succeeded")
	}
}
