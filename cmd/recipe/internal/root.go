// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/goplus/scopeguard/recipes/scopeguard"
	"github.com/spf13/cobra"
)

var verbose bool

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "recipe",
})

// newRecipe returns the recipe served by this command.
var newRecipe = scopeguard.New

var rootCmd = &cobra.Command{
	Use:   "recipe",
	Short: "recipe exports and packages boost_scope_guard",
	Long:  `recipe runs the boost_scope_guard recipe: it exports the library headers and packages them for consumers.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetOutput(cmd.ErrOrStderr())
		if verbose {
			logger.SetLevel(log.DebugLevel)
		} else {
			logger.SetLevel(log.InfoLevel)
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Fatal(err)
	}
}
