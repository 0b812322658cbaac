// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package formula

import (
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Export copies the files under recipeDir selected by any of patterns into
// exportDir, keeping their relative paths. It returns the exported paths;
// on error, the paths exported before the failing one.
func Export(recipeDir, exportDir string, patterns []string) ([]string, error) {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("export: bad pattern %q: %w", pat, doublestar.ErrBadPattern)
		}
	}
	matches, err := match(recipeDir, patterns)
	if err != nil {
		return nil, err
	}
	var exported []string
	for _, rel := range matches {
		native := filepath.FromSlash(rel)
		if err := copyFile(filepath.Join(recipeDir, native), filepath.Join(exportDir, native)); err != nil {
			return exported, err
		}
		exported = append(exported, rel)
	}
	return exported, nil
}

// Exports reports the files under recipeDir that Export would copy.
func (r *Recipe) Exports(recipeDir string) ([]string, error) {
	return match(recipeDir, r.ExportsSources)
}
