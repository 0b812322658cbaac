// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"fmt"
	"time"

	"github.com/goplus/scopeguard/internal/build"
	"github.com/spf13/cobra"
)

var listWorkspace string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the packaged versions of the recipe in the workspace",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listWorkspace, "workspace", "", "Workspace directory")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	builder, err := build.NewBuilder(build.Options{WorkspaceDir: listWorkspace})
	if err != nil {
		return fmt.Errorf("failed to create builder: %w", err)
	}
	pkgs, err := builder.List(newRecipe().Name)
	if err != nil {
		return err
	}
	for _, p := range pkgs {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d files\t%s\n", p.Reference, p.Files, p.PackageTime.Format(time.RFC3339))
	}
	return nil
}
