// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scopeguard is the recipe of the header-only Boost.ScopeGuard
// library.
package scopeguard

import (
	"github.com/goplus/scopeguard/formula"
	"github.com/goplus/scopeguard/mod/module"
)

const (
	Name    = "boost_scope_guard"
	Version = "1.0"

	// ExportPattern and HeaderPattern must both select the headers under
	// include/.
	ExportPattern = "include/**"
	HeaderPattern = "**/*.hpp"
)

// Requires is the only dependency of the library.
var Requires = module.MustParseReference("boost_config/1.66.0@bincrafters/stable")

// New returns the boost_scope_guard recipe.
func New() *formula.Recipe {
	r := &formula.Recipe{
		Name:           Name,
		Version:        Version,
		Requires:       []module.Reference{Requires},
		ExportsSources: []string{ExportPattern},
		NoCopySource:   true,
		Description:    "Scope guard utilities for C++17",
		License:        "BSL-1.0",
		URL:            "https://github.com/yuri-kilochek/boost.scope_guard",
		Topics:         []string{"boost", "scope-guard", "header-only"},
	}
	r.OnPackage(func(ctx *formula.Context) error {
		_, err := ctx.Copy(HeaderPattern)
		return err
	})
	return r
}
