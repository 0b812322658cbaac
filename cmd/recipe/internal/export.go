// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"fmt"

	"github.com/goplus/scopeguard/formula"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <recipe-dir> <export-dir>",
	Short: "Copy the exported sources of the recipe",
	Long:  `Export copies the files selected by the recipe's exports_sources patterns from recipe-dir into export-dir.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	r := newRecipe()
	files, err := formula.Export(args[0], args[1], r.ExportsSources)
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", r.Reference(), err)
	}
	for _, f := range files {
		logger.Debug("exported", "file", f)
	}
	logger.Info("export done", "reference", r.Reference(), "files", len(files))
	return nil
}
