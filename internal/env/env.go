// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package env

import (
	"os"
	"path/filepath"
)

// HomeEnv overrides the workspace directory when set.
const HomeEnv = "RECIPE_HOME"

// WorkDir returns the workspace directory where packages are created.
// It is $RECIPE_HOME when set, otherwise <UserCacheDir>/.recipe.
// The directory is created with 0700 permissions if it doesn't exist.
func WorkDir() (string, error) {
	dir := os.Getenv(HomeEnv)
	if dir == "" {
		userCacheDir, err := os.UserCacheDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(userCacheDir, ".recipe")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}
