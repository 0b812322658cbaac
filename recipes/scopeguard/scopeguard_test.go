// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scopeguard

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/goplus/scopeguard/formula"
)

// repoRoot is the directory holding the recipe's include/ tree.
const repoRoot = "../.."

func TestNew(t *testing.T) {
	r := New()
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if r.Name != "boost_scope_guard" || r.Version != "1.0" {
		t.Errorf("reference = %s, want boost_scope_guard/1.0", r.Reference())
	}
	if len(r.Requires) != 1 || r.Requires[0].String() != "boost_config/1.66.0@bincrafters/stable" {
		t.Errorf("Requires = %v, want [boost_config/1.66.0@bincrafters/stable]", r.Requires)
	}
	if !reflect.DeepEqual(r.ExportsSources, []string{"include/**"}) {
		t.Errorf("ExportsSources = %v, want [include/**]", r.ExportsSources)
	}
	if !r.NoCopySource {
		t.Error("NoCopySource = false, want true")
	}
}

func TestPackage_Scenario(t *testing.T) {
	src := t.TempDir()
	pkg := t.TempDir()
	files := map[string]string{
		"include/a.hpp":     "#pragma once\n",
		"include/sub/b.hpp": "#pragma once\nint b;\n",
		"include/c.txt":     "not a header",
	}
	for name, content := range files {
		p := filepath.Join(src, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if err := New().Package(&formula.Context{SourceDir: src, PackageDir: pkg}); err != nil {
		t.Fatalf("Package() error = %v", err)
	}

	for _, name := range []string{"include/a.hpp", "include/sub/b.hpp"} {
		got, err := os.ReadFile(filepath.Join(pkg, filepath.FromSlash(name)))
		if err != nil {
			t.Errorf("%s not packaged: %v", name, err)
			continue
		}
		if string(got) != files[name] {
			t.Errorf("%s = %q, want %q", name, got, files[name])
		}
	}
	if _, err := os.Stat(filepath.Join(pkg, "include", "c.txt")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("include/c.txt was packaged (stat error = %v)", err)
	}
}

func TestPackage_RepositoryHeaders(t *testing.T) {
	r := New()
	export := t.TempDir()
	pkg := t.TempDir()
	if _, err := formula.Export(repoRoot, export, r.ExportsSources); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if err := r.Package(&formula.Context{SourceDir: export, PackageDir: pkg}); err != nil {
		t.Fatalf("Package() error = %v", err)
	}
	want, err := os.ReadFile(filepath.Join(repoRoot, "include", "boost", "scope_guard.hpp"))
	if err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(filepath.Join(pkg, "include", "boost", "scope_guard.hpp"))
	if err != nil {
		t.Fatalf("scope_guard.hpp not packaged: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Error("packaged scope_guard.hpp differs from the source")
	}
}

// Every header the package step picks up from the recipe directory must
// have been exported first.
func TestExportCoversHeaders(t *testing.T) {
	err := fs.WalkDir(os.DirFS(repoRoot), "include", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		header, _ := doublestar.Match(HeaderPattern, p)
		exported, _ := doublestar.Match(ExportPattern, p)
		if header && !exported {
			t.Errorf("%s is packaged but not exported", p)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	exports, err := New().Exports(repoRoot)
	if err != nil {
		t.Fatalf("Exports() error = %v", err)
	}
	found := false
	for _, p := range exports {
		if p == "include/boost/scope_guard.hpp" {
			found = true
		}
	}
	if !found {
		t.Errorf("Exports() = %v, missing include/boost/scope_guard.hpp", exports)
	}
}
