// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"fmt"
	"path/filepath"

	"github.com/goplus/scopeguard/internal/archive"
	"github.com/goplus/scopeguard/internal/build"
	"github.com/spf13/cobra"
)

var (
	createOutput    string
	createForce     bool
	createWorkspace string
	createKeep      int
)

var createCmd = &cobra.Command{
	Use:   "create [recipe-dir]",
	Short: "Export and package the recipe into the workspace",
	Long: `Create runs the recipe through export, build and package inside the workspace
($RECIPE_HOME, or the user cache directory). recipe-dir defaults to the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&createOutput, "output", "o", "", "Output path (directory, .zip or .tar.xz file)")
	createCmd.Flags().BoolVar(&createForce, "force", false, "Package even if a valid cached package exists")
	createCmd.Flags().StringVar(&createWorkspace, "workspace", "", "Workspace directory")
	createCmd.Flags().IntVar(&createKeep, "keep", 0, "Keep only the N most recent versions in the workspace (0 keeps all)")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	recipeDir := "."
	if len(args) > 0 {
		recipeDir = args[0]
	}

	builder, err := build.NewBuilder(build.Options{
		WorkspaceDir: createWorkspace,
		Force:        createForce,
		Keep:         createKeep,
	})
	if err != nil {
		return fmt.Errorf("failed to create builder: %w", err)
	}

	r := newRecipe()
	for _, req := range r.Requires {
		logger.Debug("requires", "reference", req)
	}
	res, err := builder.Create(cmd.Context(), r, recipeDir)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", r.Reference(), err)
	}
	for _, f := range res.Files {
		logger.Debug("packaged", "file", f)
	}
	logger.Info("package created", "reference", res.Reference, "dir", res.PackageDir, "files", len(res.Files), "cached", res.Cached)
	for _, ver := range res.Pruned {
		logger.Info("pruned", "version", ver)
	}

	if createOutput != "" {
		out, err := filepath.Abs(createOutput)
		if err != nil {
			return fmt.Errorf("failed to resolve output path: %w", err)
		}
		if err := archive.Write(res.PackageDir, out); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		logger.Info("output written", "path", out)
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.PackageDir)
	return nil
}
