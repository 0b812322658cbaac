// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"fmt"

	"github.com/goplus/scopeguard/formula"
	"github.com/spf13/cobra"
)

var packageCmd = &cobra.Command{
	Use:   "package <source-dir> <package-dir>",
	Short: "Run the package step of the recipe",
	Long:  `Package runs the recipe's package step, copying its artifacts from source-dir into package-dir.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runPackage,
}

func init() {
	rootCmd.AddCommand(packageCmd)
}

func runPackage(cmd *cobra.Command, args []string) error {
	r := newRecipe()
	ctx := &formula.Context{SourceDir: args[0], PackageDir: args[1]}
	if err := r.Package(ctx); err != nil {
		return fmt.Errorf("failed to package %s: %w", r.Reference(), err)
	}
	logger.Info("package done", "reference", r.Reference(), "dir", ctx.PackageDir)
	return nil
}
