// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Command innoinfo dumps the structural metadata of an Inno Setup
// installer executable.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	skipWizard    bool
	skipSignature bool
)

func main() {
	root := &cobra.Command{
		Use:   "innoinfo",
		Short: "Inspect the structural metadata embedded in an Inno Setup installer",
	}
	root.PersistentFlags().BoolVar(&skipWizard, "skip-wizard", false, "don't keep wizard image/DLL blobs in the output")
	root.PersistentFlags().BoolVar(&skipSignature, "skip-signature", false, "don't inspect the outer PE's Authenticode signature")

	root.AddCommand(headerCmd())
	root.AddCommand(filesCmd())
	root.AddCommand(dumpCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
