// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package formula

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/goplus/scopeguard/mod/module"
)

var (
	// ErrNoPackage is returned by Recipe.Package when no package callback
	// has been registered.
	ErrNoPackage = errors.New("recipe has no package step")

	// ErrInvalidRecipe is returned by Recipe.Validate.
	ErrInvalidRecipe = errors.New("invalid recipe")
)

// -----------------------------------------------------------------------------

// Recipe describes how to export and package a module.
// A Recipe is constructed once when it is loaded and is treated as
// read-only configuration for the duration of a run.
type Recipe struct {
	Name    string
	Version string

	// Requires lists the packages this one depends on. They are declared,
	// never resolved.
	Requires []module.Reference

	// ExportsSources selects, by doublestar pattern, the files under the
	// recipe directory that are made available to the package step.
	ExportsSources []string

	// NoCopySource tells the runner that sources need not be duplicated
	// into the build folder before packaging.
	NoCopySource bool

	Description string
	License     string
	URL         string
	Topics      []string

	fOnPackage func(ctx *Context) error
}

// Reference returns the reference of the package the recipe produces.
func (r *Recipe) Reference() module.Reference {
	return module.Reference{Name: r.Name, Version: r.Version}
}

// Require declares that the recipe depends on the package named by ref,
// which is in the form "name/version@user/channel".
func (r *Recipe) Require(ref string) error {
	parsed, err := module.ParseReference(ref)
	if err != nil {
		return err
	}
	r.Requires = append(r.Requires, parsed)
	return nil
}

// OnPackage event is used to copy the artifacts of a module from the
// source tree into the package tree.
func (r *Recipe) OnPackage(f func(ctx *Context) error) {
	r.fOnPackage = f
}

// Package runs the package step registered with OnPackage.
func (r *Recipe) Package(ctx *Context) error {
	if r.fOnPackage == nil {
		return fmt.Errorf("%s: %w", r.Reference(), ErrNoPackage)
	}
	return r.fOnPackage(ctx)
}

// Validate checks the recipe metadata.
func (r *Recipe) Validate() error {
	var errs []error
	if r.Name == "" {
		errs = append(errs, errors.New("name is empty"))
	}
	if r.Version == "" {
		errs = append(errs, errors.New("version is empty"))
	}
	if r.Name != "" && r.Version != "" {
		if err := r.Reference().Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, req := range r.Requires {
		if err := req.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("requires: %w", err))
		}
	}
	for _, pat := range r.ExportsSources {
		if !doublestar.ValidatePattern(pat) {
			errs = append(errs, fmt.Errorf("exports_sources: bad pattern %q", pat))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w %s: %w", ErrInvalidRecipe, r.Reference(), errors.Join(errs...))
	}
	return nil
}

// Info is the printable metadata of a recipe.
type Info struct {
	Name           string   `json:"name" yaml:"name"`
	Version        string   `json:"version" yaml:"version"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty"`
	License        string   `json:"license,omitempty" yaml:"license,omitempty"`
	URL            string   `json:"url,omitempty" yaml:"url,omitempty"`
	Topics         []string `json:"topics,omitempty" yaml:"topics,omitempty"`
	Requires       []string `json:"requires,omitempty" yaml:"requires,omitempty"`
	ExportsSources []string `json:"exports_sources,omitempty" yaml:"exports_sources,omitempty"`
	NoCopySource   bool     `json:"no_copy_source" yaml:"no_copy_source"`
}

// Info returns the recipe metadata in a serializable form.
func (r *Recipe) Info() Info {
	info := Info{
		Name:           r.Name,
		Version:        r.Version,
		Description:    r.Description,
		License:        r.License,
		URL:            r.URL,
		Topics:         slices.Clone(r.Topics),
		ExportsSources: slices.Clone(r.ExportsSources),
		NoCopySource:   r.NoCopySource,
	}
	for _, req := range r.Requires {
		info.Requires = append(info.Requires, req.String())
	}
	return info
}
