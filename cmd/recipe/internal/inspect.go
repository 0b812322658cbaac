// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goplus/scopeguard/formula"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var inspectFormat string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the recipe metadata",
	Args:  cobra.NoArgs,
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectFormat, "format", "f", "yaml", "Output format (yaml or json)")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	return writeInfo(cmd.OutOrStdout(), newRecipe().Info(), inspectFormat)
}

func writeInfo(w io.Writer, info formula.Info, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(info); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	return fmt.Errorf("unknown format %q: want yaml or json", format)
}
